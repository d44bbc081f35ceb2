// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/domain/service"
	"tradelink/internal/infra/cache"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

// authService implements the AuthUsecase interface.
type authService struct {
	store         *store.Store
	authenticator service.Authenticator
	tokenService  service.TokenService
	sessions      *cache.SessionCache
	logger        *slog.Logger
	now           func() time.Time
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
// Authenticator is absent in offline mode; credential checks are then
// skipped and logins resolve against the local state only.
type AuthServiceParams struct {
	fx.In

	Store         *store.Store
	Authenticator service.Authenticator `optional:"true"`
	TokenService  service.TokenService
	Sessions      *cache.SessionCache
	Logger        *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		store:         params.Store,
		authenticator: params.Authenticator,
		tokenService:  params.TokenService,
		sessions:      params.Sessions,
		logger:        params.Logger,
		now:           time.Now,
	}
}

// Register submits a self-registration. Credentials are handed to the
// gateway; the profile enters the pending queue for admin review.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.logger.Info("Starting registration", slog.Any("role", input.Role), slog.String("email", input.Email))

	state := srv.store.State()
	if !state.Settings.UserRegistrationEnabled {
		return nil, errors.Wrap(domainerrors.ErrRegistrationClosed, "registration rejected")
	}

	if input.Role != entity.RoleWholesaler && input.Role != entity.RoleRetailer {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "only wholesaler and retailer accounts may self-register")
	}

	if emailTaken(state, input.Email) {
		return nil, errors.Wrap(domainerrors.ErrEmailAlreadyRegistered, "registration rejected")
	}

	if srv.authenticator != nil {
		profile := service.RegistrationProfile{
			Name:         input.Name,
			Role:         input.Role,
			BusinessName: input.BusinessName,
			Phone:        input.Phone,
			Address:      input.Address,
		}
		if err := srv.authenticator.SignUp(ctx, input.Email, input.Password, profile); err != nil {
			srv.logger.Error("Gateway sign-up failed", slog.String("email", input.Email), slog.Any("error", err))

			return nil, domainerrors.NewGatewayError(err, "sign up")
		}
	}

	now := srv.now()
	pending := entity.PendingUser{
		ID:                 uuid.New(),
		Name:               input.Name,
		Email:              input.Email,
		Role:               input.Role,
		BusinessName:       input.BusinessName,
		Phone:              input.Phone,
		Address:            input.Address,
		RegistrationReason: input.RegistrationReason,
		Documents:          input.Documents,
		SubmittedAt:        now,
	}
	srv.store.Dispatch(store.AddPendingUser{Meta: store.NewMeta(now), Pending: pending})

	srv.logger.Debug("Registration submitted for review", slog.Any("pendingID", pending.ID))

	return &usecase.RegisterOutput{Pending: pending}, nil
}

// Login authenticates against the gateway and mints API session tokens.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.logger.Debug("Starting login", slog.String("email", input.Email))

	if srv.authenticator != nil {
		if _, err := srv.authenticator.SignIn(ctx, input.Email, input.Password); err != nil {
			srv.logger.Warn("Gateway sign-in failed", slog.String("email", input.Email), slog.Any("error", err))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}
	}

	state := srv.store.State()
	user, ok := userByEmail(state, input.Email)
	if !ok {
		if _, pending := pendingByEmail(state, input.Email); pending {
			return nil, errors.Wrap(domainerrors.ErrForbidden, "registration awaiting admin review")
		}

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	if user.Status == entity.UserStatusSuspended {
		return nil, errors.Wrap(domainerrors.ErrForbidden, "account suspended")
	}

	if state.Settings.MaintenanceMode && user.Role != entity.RoleAdmin {
		return nil, errors.Wrap(domainerrors.ErrMaintenanceMode, "login rejected")
	}

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		srv.logger.Error("Failed to generate tokens", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	srv.sessions.Put(cache.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		PushToken:    input.PushToken,
		ExpiresAt:    srv.now().Add(srv.tokenService.GetRefreshTokenDuration()),
	})

	srv.logger.Debug("User logged in", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself remains unchanged; rotation is not performed.
func (srv *authService) Refresh(_ context.Context, refreshToken string) (string, error) {
	session, ok := srv.sessions.Get(refreshToken)
	if !ok {
		return "", errors.Wrap(domainerrors.ErrInvalidCredentials, "refresh session not found or expired")
	}

	user, found := srv.store.State().UserByID(session.UserID)
	if found && user.Status == entity.UserStatusSuspended {
		srv.sessions.DeleteByUser(session.UserID)

		return "", errors.Wrap(domainerrors.ErrForbidden, "account suspended")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(session.UserID, session.Role)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate new access token")
	}

	return accessToken, nil
}

// Logout ends the session identified by the refresh token. Unknown tokens
// are a no-op so logout is idempotent.
func (srv *authService) Logout(_ context.Context, refreshToken string) error {
	srv.sessions.Delete(refreshToken)
	srv.logger.Debug("Session ended")

	return nil
}

// Profile returns the account of the authenticated user.
func (srv *authService) Profile(_ context.Context, userID uuid.UUID) (entity.User, error) {
	user, ok := srv.store.State().UserByID(userID)
	if !ok {
		return entity.User{}, errors.Wrap(domainerrors.ErrUserNotFound, "profile lookup failed")
	}

	return user, nil
}

// emailTaken reports whether the email belongs to a user or a pending
// registration. Comparison is case-insensitive.
func emailTaken(state store.State, email string) bool {
	if _, ok := userByEmail(state, email); ok {
		return true
	}
	_, ok := pendingByEmail(state, email)

	return ok
}

func userByEmail(state store.State, email string) (entity.User, bool) {
	for _, u := range state.Users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}

	return entity.User{}, false
}

func pendingByEmail(state store.State, email string) (entity.PendingUser, bool) {
	for _, p := range state.PendingUsers {
		if strings.EqualFold(p.Email, email) {
			return p, true
		}
	}

	return entity.PendingUser{}, false
}
