package services

import (
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// Operation names an action guarded by the access policy.
type Operation string

// Guarded operations. The string values end up in ForbiddenError messages,
// so they read as the tail of "role X may not ...".
const (
	// Account operations.
	OpRegisterUser     Operation = "register user"
	OpGetOwnProfile    Operation = "view own profile"
	OpListUsers        Operation = "list users"
	OpAssignUserRole   Operation = "assign user role"
	OpUpdateUserStatus Operation = "update user status"

	// Parcel reads. OpTrackParcel is the only public one.
	OpListOwnParcels      Operation = "list own parcels"
	OpListIncomingParcels Operation = "list incoming parcels"
	OpListDeliveries      Operation = "list assigned deliveries"
	OpListAllParcels      Operation = "list all parcels"
	OpTrackParcel         Operation = "track parcel"
	OpGetParcel           Operation = "view parcel"
	OpViewParcelStats     Operation = "view parcel statistics"

	// Parcel writes.
	OpCreateParcel         Operation = "create parcel"
	OpCancelParcel         Operation = "cancel parcel"
	OpAssignDeliveryMan    Operation = "assign delivery agent"
	OpUpdateDeliveryStatus Operation = "update delivery status"
	OpOverrideStatus       Operation = "override parcel status"
	OpBlockParcel          Operation = "block or unblock parcel"
	OpConfirmDelivery      Operation = "confirm delivery"
)

// Rule lists who may invoke an operation. Public operations need no actor at
// all; AnyAuthenticated admits every valid role.
type Rule struct {
	Public           bool
	AnyAuthenticated bool
	Roles            []kernel.Role
}

func (r Rule) allows(role kernel.Role) bool {
	if r.Public {
		return true
	}
	if role.Validate() != nil {
		return false
	}
	if r.AnyAuthenticated {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

func defaultRules() map[Operation]Rule {
	customers := []kernel.Role{kernel.RoleUser, kernel.RoleSender, kernel.RoleReceiver}
	admin := []kernel.Role{kernel.RoleAdmin}
	withAdmin := func(roles ...kernel.Role) []kernel.Role {
		return append(append([]kernel.Role{}, roles...), kernel.RoleAdmin)
	}

	return map[Operation]Rule{
		OpRegisterUser:         {Public: true},
		OpTrackParcel:          {Public: true},
		OpGetOwnProfile:        {AnyAuthenticated: true},
		OpListUsers:            {AnyAuthenticated: true},
		OpAssignUserRole:       {Roles: admin},
		OpUpdateUserStatus:     {Roles: admin},
		OpCreateParcel:         {Roles: customers},
		OpListOwnParcels:       {Roles: customers},
		OpListIncomingParcels:  {Roles: customers},
		OpListDeliveries:       {Roles: []kernel.Role{kernel.RoleDeliveryMan}},
		OpListAllParcels:       {Roles: admin},
		OpGetParcel:            {Roles: withAdmin(customers...)},
		OpCancelParcel:         {Roles: withAdmin(customers...)},
		OpAssignDeliveryMan:    {Roles: admin},
		OpUpdateDeliveryStatus: {Roles: withAdmin(kernel.RoleDeliveryMan)},
		OpOverrideStatus:       {Roles: admin},
		OpBlockParcel:          {Roles: admin},
		OpConfirmDelivery:      {Roles: withAdmin(customers...)},
		OpViewParcelStats:      {Roles: admin},
	}
}

// AccessPolicy is the single role-to-operation table. It holds no state
// besides the table and is safe for concurrent use.
type AccessPolicy struct {
	rules map[Operation]Rule
}

// AccessPolicyOption adjusts the default table before the policy is built.
type AccessPolicyOption func(map[Operation]Rule)

// RestrictUserListingToAdmins makes the user listing admin-only instead of
// open to every authenticated role.
func RestrictUserListingToAdmins() AccessPolicyOption {
	return func(rules map[Operation]Rule) {
		rules[OpListUsers] = Rule{Roles: []kernel.Role{kernel.RoleAdmin}}
	}
}

// NewAccessPolicy builds the default table and applies opts in order.
//
// Example:
//
// 	policy := services.NewAccessPolicy(services.RestrictUserListingToAdmins())
// 	if err := policy.Authorize(actor, services.OpListUsers); err != nil {
// 	    return err // ForbiddenError for everyone but admins
// 	}
func NewAccessPolicy(opts ...AccessPolicyOption) AccessPolicy {
	rules := defaultRules()
	for _, opt := range opts {
		opt(rules)
	}
	return AccessPolicy{rules: rules}
}

// IsAuthorized reports whether role may invoke op. Unknown operations are denied.
func (p AccessPolicy) IsAuthorized(role kernel.Role, op Operation) bool {
	rule, ok := p.rules[op]
	if !ok {
		return false
	}
	return rule.allows(role)
}

// IsPublic reports whether op needs no authentication.
func (p AccessPolicy) IsPublic(op Operation) bool {
	return p.rules[op].Public
}

// Authorize is IsAuthorized returning a ForbiddenError on denial.
func (p AccessPolicy) Authorize(actor kernel.Actor, op Operation) error {
	if !p.IsAuthorized(actor.Role(), op) {
		return errs.NewForbiddenError(actor.Role().String(), string(op))
	}
	return nil
}

// Operations lists every operation in the table.
func (p AccessPolicy) Operations() []Operation {
	ops := make([]Operation, 0, len(p.rules))
	for op := range p.rules {
		ops = append(ops, op)
	}
	return ops
}
