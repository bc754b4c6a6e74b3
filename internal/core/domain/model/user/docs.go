// Package user implements the User aggregate: platform accounts with a role
// and an account status, plus the admin self-protection rules for changing them.
package user
