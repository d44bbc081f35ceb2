package impl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelink/internal/domain/entity"
	domainerrors "tradelink/internal/domain/errors"
	"tradelink/internal/domain/service"
	"tradelink/internal/infra/cache"
	"tradelink/internal/store"
	"tradelink/internal/usecase"
)

// fakeAuthenticator records sign-up/sign-in calls against the gateway.
type fakeAuthenticator struct {
	signUpErr error
	signInErr error
	signUps   int
}

func (f *fakeAuthenticator) SignUp(context.Context, string, string, service.RegistrationProfile) error {
	f.signUps++

	return f.signUpErr
}

func (f *fakeAuthenticator) SignIn(context.Context, string, string) (string, error) {
	if f.signInErr != nil {
		return "", f.signInErr
	}

	return "gateway-session", nil
}

// fakeTokens mints predictable tokens.
type fakeTokens struct {
	err error
}

func (f *fakeTokens) GenerateTokens(userID uuid.UUID, _ entity.Role) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}

	return "access-" + userID.String(), "refresh-" + userID.String(), nil
}

func (f *fakeTokens) ValidateAccessToken(string) (*service.Claims, error) {
	return nil, errors.New("not used")
}

func (f *fakeTokens) GetRefreshTokenDuration() time.Duration { return time.Hour }

func newAuthServiceForTest(t *testing.T, st *store.Store, auth service.Authenticator) (*authService, *cache.SessionCache) {
	t.Helper()

	sessions := cache.NewSessionCache(time.Hour, time.Minute)
	t.Cleanup(sessions.Close)

	return &authService{
		store:         st,
		authenticator: auth,
		tokenService:  &fakeTokens{},
		sessions:      sessions,
		logger:        testLogger(),
		now:           func() time.Time { return testNow },
	}, sessions
}

func activeUser(email string, role entity.Role) entity.User {
	return entity.User{
		ID:     uuid.New(),
		Name:   "Mei Lin",
		Email:  email,
		Role:   role,
		Status: entity.UserStatusActive,
	}
}

func registerInput(email string, role entity.Role) usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:         "Mei Lin",
		Email:        email,
		Password:     "correct horse battery",
		Role:         role,
		BusinessName: "FreshMart",
	}
}

func TestAuthService_RegisterQueuesPendingUser(t *testing.T) {
	st := seedStore(t)
	auth := &fakeAuthenticator{}
	srv, _ := newAuthServiceForTest(t, st, auth)

	out, err := srv.Register(context.Background(), registerInput("mei@freshmart.example", entity.RoleRetailer))

	require.NoError(t, err)
	assert.Equal(t, 1, auth.signUps)
	assert.Equal(t, "mei@freshmart.example", out.Pending.Email)
	assert.Equal(t, testNow, out.Pending.SubmittedAt)

	require.Len(t, st.State().PendingUsers, 1)
	assert.Empty(t, st.State().Users, "registration creates no user until approval")
}

func TestAuthService_RegisterRejectedWhenClosed(t *testing.T) {
	closed := false
	st := seedStore(t, store.UpdatePlatformSettings{
		Meta:  store.NewMeta(testNow),
		Patch: entity.PlatformSettingsPatch{UserRegistrationEnabled: &closed},
	})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	_, err := srv.Register(context.Background(), registerInput("mei@freshmart.example", entity.RoleRetailer))

	assert.ErrorIs(t, err, domainerrors.ErrRegistrationClosed)
}

func TestAuthService_RegisterRejectsPrivilegedRoles(t *testing.T) {
	srv, _ := newAuthServiceForTest(t, seedStore(t), &fakeAuthenticator{})

	for _, role := range []entity.Role{entity.RoleAdmin, entity.RoleSupport} {
		_, err := srv.Register(context.Background(), registerInput("mei@freshmart.example", role))
		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed, "role %s must not self-register", role)
	}
}

func TestAuthService_RegisterRejectsDuplicateEmail(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	_, err := srv.Register(context.Background(), registerInput("MEI@freshmart.example", entity.RoleRetailer))

	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered, "email comparison is case-insensitive")
}

func TestAuthService_RegisterDuplicatePendingEmail(t *testing.T) {
	pending := entity.PendingUser{ID: uuid.New(), Email: "mei@freshmart.example", Role: entity.RoleRetailer}
	st := seedStore(t, store.SyncUpsertPendingUser{Meta: store.NewMeta(testNow), Pending: pending})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	_, err := srv.Register(context.Background(), registerInput("mei@freshmart.example", entity.RoleWholesaler))

	assert.ErrorIs(t, err, domainerrors.ErrEmailAlreadyRegistered)
}

func TestAuthService_LoginMintsTokensAndSession(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, sessions := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	out, err := srv.Login(context.Background(), usecase.LoginInput{
		Email:     "mei@freshmart.example",
		Password:  "correct horse battery",
		PushToken: "device-token-1",
	})

	require.NoError(t, err)
	assert.Equal(t, user.ID, out.User.ID)
	assert.NotEmpty(t, out.AccessToken)

	session, ok := sessions.Get(out.RefreshToken)
	require.True(t, ok)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "device-token-1", session.PushToken)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{signInErr: errors.New("bad password")})

	_, err := srv.Login(context.Background(), usecase.LoginInput{Email: "mei@freshmart.example", Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_LoginPendingRegistrationIsForbidden(t *testing.T) {
	pending := entity.PendingUser{ID: uuid.New(), Email: "mei@freshmart.example", Role: entity.RoleRetailer}
	st := seedStore(t, store.SyncUpsertPendingUser{Meta: store.NewMeta(testNow), Pending: pending})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	_, err := srv.Login(context.Background(), usecase.LoginInput{Email: "mei@freshmart.example", Password: "pw"})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAuthService_LoginSuspendedAccountIsForbidden(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	user.Status = entity.UserStatusSuspended
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	_, err := srv.Login(context.Background(), usecase.LoginInput{Email: "mei@freshmart.example", Password: "pw"})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestAuthService_LoginMaintenanceModeBlocksNonAdmins(t *testing.T) {
	maintenance := true
	retailer := activeUser("mei@freshmart.example", entity.RoleRetailer)
	admin := activeUser("ops@tradelink.example", entity.RoleAdmin)
	st := seedStore(t,
		store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: retailer},
		store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: admin},
		store.UpdatePlatformSettings{Meta: store.NewMeta(testNow), Patch: entity.PlatformSettingsPatch{MaintenanceMode: &maintenance}},
	)
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	_, err := srv.Login(context.Background(), usecase.LoginInput{Email: retailer.Email, Password: "pw"})
	assert.ErrorIs(t, err, domainerrors.ErrMaintenanceMode)

	_, err = srv.Login(context.Background(), usecase.LoginInput{Email: admin.Email, Password: "pw"})
	assert.NoError(t, err, "admins still log in during maintenance")
}

func TestAuthService_RefreshIssuesNewAccessToken(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	out, err := srv.Login(context.Background(), usecase.LoginInput{Email: user.Email, Password: "pw"})
	require.NoError(t, err)

	access, err := srv.Refresh(context.Background(), out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	_, err = srv.Refresh(context.Background(), "unknown-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshEndsSuspendedUsersSessions(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, sessions := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	out, err := srv.Login(context.Background(), usecase.LoginInput{Email: user.Email, Password: "pw"})
	require.NoError(t, err)

	st.Dispatch(store.SuspendUser{Meta: store.NewMeta(testNow), UserID: user.ID})

	_, err = srv.Refresh(context.Background(), out.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, ok := sessions.Get(out.RefreshToken)
	assert.False(t, ok, "suspension tears the session down")
}

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	srv, _ := newAuthServiceForTest(t, seedStore(t), &fakeAuthenticator{})

	assert.NoError(t, srv.Logout(context.Background(), "never-issued"))
}

func TestAuthService_Profile(t *testing.T) {
	user := activeUser("mei@freshmart.example", entity.RoleRetailer)
	st := seedStore(t, store.SyncUpsertUser{Meta: store.NewMeta(testNow), User: user})
	srv, _ := newAuthServiceForTest(t, st, &fakeAuthenticator{})

	got, err := srv.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = srv.Profile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
