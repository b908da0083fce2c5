package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-api/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		App: config.AppConfig{Name: "Storefront API Test"},
		JWT: config.JWTConfig{
			Secret:               "test-secret-key-that-is-long-enough-123",
			AccessTokenExpiry:    time.Hour,
			RefreshTokenExpiry:   24 * time.Hour,
			RefreshTokenRotation: true,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	return NewService(db, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register(&RegisterRequest{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotZero(t, registered.ID)
	require.Empty(t, registered.Password)
	// Emails are stored lowercase
	require.Equal(t, "alice@example.com", registered.Email)

	resp, err := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, registered.ID, resp.User.ID)
	require.Empty(t, resp.User.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Name: "Other", Email: "alice@example.com", Password: "secret456"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "alice@example.com", Password: "not-it"})
	require.Error(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
}

func TestRefreshTokenFlow(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	login, err := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)

	// Access tokens cannot be used as refresh tokens
	_, err = svc.RefreshToken(login.AccessToken)
	require.Error(t, err)
}

func TestGetProfile(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register(&RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)

	profile, err := svc.GetProfile(registered.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice", profile.Name)
	require.Empty(t, profile.Password)

	_, err = svc.GetProfile(999)
	require.Error(t, err)
}
