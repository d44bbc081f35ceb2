// Package service defines interfaces for external collaborators consumed by
// the core. Implementations live under internal/infra.
package service

import (
	"context"

	"tradelink/internal/domain/entity"
)

// RegistrationProfile carries the profile attributes submitted at sign-up.
// Credential handling, session persistence and email verification are
// entirely the gateway's responsibility.
type RegistrationProfile struct {
	Name         string
	Role         entity.Role
	BusinessName string
	Phone        string
	Address      string
}

// Authenticator is the gateway's authentication surface.
type Authenticator interface {
	// SignUp registers credentials with the gateway.
	SignUp(ctx context.Context, email, password string, profile RegistrationProfile) error

	// SignIn exchanges credentials for a gateway session token.
	SignIn(ctx context.Context, email, password string) (string, error)
}
