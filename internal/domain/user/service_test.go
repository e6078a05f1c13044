// internal/domain/user/service_test.go
package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/farmmarket-backend/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&User{}))

	cfg := &config.Config{
		App: config.AppConfig{Name: "farmmarket-test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-123",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	return NewService(db, cfg)
}

func registerReq(email string) *RegisterRequest {
	return &RegisterRequest{
		Email:     email,
		Password:  "password123",
		FirstName: "Jean",
		LastName:  "Dupont",
		City:      "Lyon",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(registerReq("jean@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEmpty(t, u.UUID)
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "password123", u.Password, "password must be stored hashed")

	logged, tokens, err := svc.Login(&LoginRequest{Email: "jean@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(registerReq("jean@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(registerReq("jean@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(registerReq("jean@example.com"))
	require.NoError(t, err)

	_, _, err = svc.Login(&LoginRequest{Email: "jean@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Register(registerReq("jean@example.com"))
	require.NoError(t, err)

	_, tokens, err := svc.Login(&LoginRequest{Email: "jean@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)

	// An access token must not pass as a refresh token.
	_, err = svc.Refresh(tokens.AccessToken)
	assert.Error(t, err)
}

func TestBecomeFarmer(t *testing.T) {
	svc := newTestService(t)

	u, err := svc.Register(registerReq("jean@example.com"))
	require.NoError(t, err)
	assert.False(t, u.IsFarmer)

	promoted, err := svc.BecomeFarmer(u.ID)
	require.NoError(t, err)
	assert.True(t, promoted.IsFarmer)

	// Idempotent.
	again, err := svc.BecomeFarmer(u.ID)
	require.NoError(t, err)
	assert.True(t, again.IsFarmer)
}
