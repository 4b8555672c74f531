package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// ==================== CREDENTIAL STORE TESTS ====================

func TestCredentialStore_PasswordRoundTrip(t *testing.T) {
	creds := service.NewCredentialStore(testConfig())

	hash, err := creds.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, creds.VerifyPassword("hunter2", hash))
	assert.False(t, creds.VerifyPassword("wrong", hash))
	assert.False(t, creds.VerifyPassword("", hash))
}

func TestCredentialStore_RejectsEmptyPassword(t *testing.T) {
	creds := service.NewCredentialStore(testConfig())

	_, err := creds.HashPassword("")
	assert.ErrorIs(t, err, service.ErrPasswordRequired)
}

func TestCredentialStore_TokenRoundTrip(t *testing.T) {
	creds := service.NewCredentialStore(testConfig())

	token, err := creds.IssueToken(42)
	require.NoError(t, err)

	claims, err := creds.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestCredentialStore_RejectsBadTokens(t *testing.T) {
	creds := service.NewCredentialStore(testConfig())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	foreignToken, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"expired", expiredToken},
		{"wrong secret", foreignToken},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := creds.VerifyToken(tt.token)
			assert.ErrorIs(t, err, service.ErrInvalidToken)
		})
	}
}

// ==================== AUTH SERVICE TESTS ====================

func TestAuthService_Register(t *testing.T) {
	s := setupServices(t)

	tests := []struct {
		name    string
		input   service.RegisterInput
		wantErr error
		field   string
	}{
		{
			name:  "success",
			input: service.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "pw"},
		},
		{
			name:    "duplicate email",
			input:   service.RegisterInput{Name: "Alice 2", Email: "alice@example.com", Password: "pw"},
			wantErr: service.ErrEmailAlreadyExists,
		},
		{
			name:  "empty password",
			input: service.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: ""},
			field: "password",
		},
		{
			name:  "invalid email",
			input: service.RegisterInput{Name: "Carol", Email: "not-an-email", Password: "pw"},
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := s.auth.Register(tt.input)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.field != "":
				var verr *service.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, tt.field)
			default:
				require.NoError(t, err)
				assert.NotZero(t, user.ID)
				assert.False(t, user.IsAdmin)
				assert.NotEqual(t, tt.input.Password, user.Password)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	s := setupServices(t)
	s.register(t, "login@example.com")

	result, err := s.auth.Login("login@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", result.Email)
	assert.False(t, result.IsAdmin)
	assert.NotEmpty(t, result.Token)

	_, err = s.auth.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = s.auth.Login("nobody@example.com", "secret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	admin, err := s.auth.Login("admin@example.com", "admin-pass")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}

func TestAuthService_AuthenticateAndLogout(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	actor := s.register(t, "session@example.com")

	result, err := s.auth.Login("session@example.com", "secret")
	require.NoError(t, err)

	got, err := s.auth.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, got.ID)
	assert.False(t, got.IsAdmin)

	require.NoError(t, s.auth.Logout(ctx, result.Token))

	_, err = s.auth.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}

func TestAuthService_TokenForDeletedUserIsRejected(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	actor := s.register(t, "gone@example.com")

	result, err := s.auth.Login("gone@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, s.users.DeleteUser(s.admin, actor.ID))

	_, err = s.auth.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, policy.ErrUnauthenticated)
}
