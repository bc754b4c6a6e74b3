// Package jwttoken issues and verifies HS256 access tokens carrying the
// actor's user id and role.
package jwttoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

var _ ports.TokenIssuer = (*Issuer)(nil)

const issuerName = "parceltrack"

// Claims is the token payload.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an issuer. Requires a non-empty secret and a positive
// ttl.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, time.Second, "unbounded")
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for actor that expires after the configured TTL.
func (i *Issuer) Issue(actor kernel.Actor) (ports.AccessToken, error) {
	if err := actor.Validate(); err != nil {
		return ports.AccessToken{}, err
	}

	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)
	claims := Claims{
		UserID: actor.ID().String(),
		Role:   actor.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID().String(),
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return ports.AccessToken{}, fmt.Errorf("sign access token: %w", err)
	}
	return ports.AccessToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse verifies token and returns the actor it was issued for. Expired,
// tampered and foreign tokens all yield UnauthorizedError.
func (i *Issuer) Parse(token string) (kernel.Actor, error) {
	if token == "" {
		return kernel.Actor{}, errs.NewUnauthorizedError("missing access token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return kernel.Actor{}, errs.NewUnauthorizedErrorWithCause("access token expired", err)
		}
		return kernel.Actor{}, errs.NewUnauthorizedErrorWithCause("invalid access token", err)
	}

	id, err := kernel.UUIDFromString(claims.UserID)
	if err != nil {
		return kernel.Actor{}, errs.NewUnauthorizedErrorWithCause("invalid access token", err)
	}
	role, err := kernel.ParseRole(claims.Role)
	if err != nil {
		return kernel.Actor{}, errs.NewUnauthorizedErrorWithCause("invalid access token", err)
	}
	return kernel.NewActor(id, role)
}
