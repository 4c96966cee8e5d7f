package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mandilink/mandilink-backend/internal/users"
	pkgauth "github.com/mandilink/mandilink-backend/pkg/auth"
	"github.com/mandilink/mandilink-backend/pkg/auth/session"
	"github.com/mandilink/mandilink-backend/pkg/config"
	"github.com/mandilink/mandilink-backend/pkg/enums"
	pkgerrors "github.com/mandilink/mandilink-backend/pkg/errors"
)

var testJWTConfig = config.JWTConfig{
	Secret:                 "test-secret",
	Issuer:                 "mandilink-test",
	ExpirationMinutes:      15,
	RefreshTokenTTLMinutes: 43200,
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.sessions[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.sessions, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + newAccessID
	s.sessions[newAccessID] = token
	return newAccessID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.sessions, accessID)
	s.revoked = append(s.revoked, accessID)
	return nil
}

func setupIdentityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL,
  address TEXT,
  location TEXT,
  revenue_cents INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(usersTable).Error)
	return db
}

type identityTestSetup struct {
	svc     Service
	repo    *users.Repository
	session *stubSessionManager
}

func newIdentityTestSetup(t *testing.T) *identityTestSetup {
	t.Helper()

	repo := users.NewRepository(setupIdentityTestDB(t))
	sessions := newStubSessionManager()
	svc, err := NewService(ServiceParams{
		DB:             stubTxRunner{},
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: config.PasswordConfig{ArgonMemoryKB: 8192, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32},
	})
	require.NoError(t, err)
	return &identityTestSetup{svc: svc, repo: repo, session: sessions}
}

func uniqueEmail() string {
	return uuid.New().String() + "@example.com"
}

func TestRegisterAndLogin(t *testing.T) {
	setup := newIdentityTestSetup(t)
	ctx := context.Background()
	email := uniqueEmail()

	resp, err := setup.svc.Register(ctx, RegisterRequest{
		Name:     "Asha Pawar",
		Email:    email,
		Password: "correct horse battery",
		Role:     "vendor",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, enums.UserRoleVendor, resp.User.Role)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, enums.UserRoleVendor, claims.Role)

	login, err := setup.svc.Login(ctx, LoginRequest{Email: email, Password: "correct horse battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotNil(t, login.User.LastLoginAt)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setup := newIdentityTestSetup(t)
	ctx := context.Background()
	email := uniqueEmail()

	req := RegisterRequest{Name: "First", Email: email, Password: "password123", Role: "supplier"}
	_, err := setup.svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = setup.svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	setup := newIdentityTestSetup(t)

	_, err := setup.svc.Register(context.Background(), RegisterRequest{
		Name: "X", Email: uniqueEmail(), Password: "password123", Role: "admin",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	setup := newIdentityTestSetup(t)
	ctx := context.Background()
	email := uniqueEmail()

	_, err := setup.svc.Register(ctx, RegisterRequest{Name: "Asha", Email: email, Password: "password123", Role: "vendor"})
	require.NoError(t, err)

	cases := []LoginRequest{
		{Email: email, Password: "wrong"},
		{Email: uniqueEmail(), Password: "password123"},
		{Email: "", Password: "password123"},
	}
	for _, req := range cases {
		_, err := setup.svc.Login(ctx, req)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed, "login %q should fail", req.Email)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	setup := newIdentityTestSetup(t)
	ctx := context.Background()
	email := uniqueEmail()

	registered, err := setup.svc.Register(ctx, RegisterRequest{Name: "Asha", Email: email, Password: "password123", Role: "supplier"})
	require.NoError(t, err)

	refreshed, err := setup.svc.Refresh(ctx, RefreshRequest{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	// The old pair is single-use.
	_, err = setup.svc.Refresh(ctx, RefreshRequest{
		AccessToken:  registered.AccessToken,
		RefreshToken: registered.RefreshToken,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	setup := newIdentityTestSetup(t)
	ctx := context.Background()

	registered, err := setup.svc.Register(ctx, RegisterRequest{Name: "Asha", Email: uniqueEmail(), Password: "password123", Role: "vendor"})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, registered.AccessToken)
	require.NoError(t, err)

	require.NoError(t, setup.svc.Logout(ctx, claims.ID))
	assert.Contains(t, setup.session.revoked, claims.ID)

	err = setup.svc.Logout(ctx, " ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestMe(t *testing.T) {
	setup := newIdentityTestSetup(t)
	ctx := context.Background()

	registered, err := setup.svc.Register(ctx, RegisterRequest{Name: "Asha", Email: uniqueEmail(), Password: "password123", Role: "vendor"})
	require.NoError(t, err)

	me, err := setup.svc.Me(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.User.Email, me.Email)

	_, err = setup.svc.Me(ctx, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = setup.svc.Me(ctx, uuid.Nil)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRefreshWithGarbageAccessToken(t *testing.T) {
	setup := newIdentityTestSetup(t)

	_, err := setup.svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}
