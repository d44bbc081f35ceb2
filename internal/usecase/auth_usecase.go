// Package usecase contains the application-specific business rules.
// It orchestrates the store and the domain services to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"tradelink/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data submitted on self-registration.
type RegisterInput struct {
	Name               string
	Email              string
	Password           string
	Role               entity.Role
	BusinessName       string
	Phone              string
	Address            string
	RegistrationReason string
	Documents          []string
}

// LoginInput defines the data required to log in. PushToken optionally
// registers the device for push delivery.
type LoginInput struct {
	Email     string
	Password  string
	PushToken string
}

// --- Output DTOs ---

// RegisterOutput returns the pending registration awaiting admin review.
type RegisterOutput struct {
	Pending entity.PendingUser
}

// LoginOutput returns the session tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         entity.User
}

// AuthUsecase defines the authentication operations exposed to the
// delivery layer.
type AuthUsecase interface {
	// Register submits a registration: credentials go to the gateway,
	// the profile enters the pending queue for admin review.
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)

	// Login authenticates against the gateway and mints API session tokens.
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)

	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout ends the session identified by the refresh token.
	Logout(ctx context.Context, refreshToken string) error

	// Profile returns the account of the authenticated user.
	Profile(ctx context.Context, userID uuid.UUID) (entity.User, error)
}
