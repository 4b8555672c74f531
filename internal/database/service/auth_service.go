package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(input RegisterInput) (*models.User, error)
	CreateAdmin(input RegisterInput) (*models.User, error)
	Login(email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (policy.Actor, error)
}

// RegisterInput is the data needed to open an account
type RegisterInput struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email,max=50"`
	Password    string  `json:"password" binding:"required"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=15"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
}

// LoginResult is returned to the client after a successful login
type LoginResult struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Token   string `json:"token"`
}

type authService struct {
	store       *repository.Store
	credentials CredentialStore
	revoked     database.TokenRevocationStore
	logger      *slog.Logger
}

// NewAuthService creates a new authentication service instance
func NewAuthService(
	store *repository.Store,
	credentials CredentialStore,
	revoked database.TokenRevocationStore,
	logger *slog.Logger,
) AuthService {
	return &authService{
		store:       store,
		credentials: credentials,
		revoked:     revoked,
		logger:      logger,
	}
}

func (s *authService) Register(input RegisterInput) (*models.User, error) {
	return s.register(input, false)
}

func (s *authService) CreateAdmin(input RegisterInput) (*models.User, error) {
	return s.register(input, true)
}

func (s *authService) register(input RegisterInput, isAdmin bool) (*models.User, error) {
	s.logger.Info("📝 [AuthService] Registration attempt", "email", input.Email, "admin", isAdmin)

	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	checks := &ValidationError{}
	if input.Name == "" {
		checks.Add("name", "Missing data for required field.")
	} else if utf8.RuneCountInString(input.Name) > 100 {
		checks.Add("name", "Longer than maximum length 100.")
	}
	if !validEmail(input.Email) {
		checks.Add("email", "Invalid email format.")
	}
	if input.Password == "" {
		checks.Add("password", "Password is required.")
	}
	if err := checks.OrNil(); err != nil {
		return nil, err
	}

	// Check if email already exists
	existingUser, err := s.store.Users.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}
	if existingUser != nil {
		s.logger.Warn("⚠️ [AuthService] Email already registered", "email", input.Email)
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := s.credentials.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:        input.Name,
		Email:       input.Email,
		Password:    hashedPassword,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		IsAdmin:     isAdmin,
	}

	// The unique index still catches a concurrent registration of the same email
	if err := s.store.Users.Create(user); err != nil {
		s.logger.Error("❌ [AuthService] Failed to create user", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User registered successfully", "user_id", user.ID)
	return user, nil
}

func (s *authService) Login(email, password string) (*LoginResult, error) {
	s.logger.Info("🔐 [AuthService] Login attempt", "email", email)

	user, err := s.store.Users.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] User not found", "email", email)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("❌ [AuthService] Database error", "error", err)
		return nil, err
	}

	if !s.credentials.VerifyPassword(password, user.Password) {
		s.logger.Warn("⚠️ [AuthService] Invalid password", "email", email)
		return nil, ErrInvalidCredentials
	}

	token, err := s.credentials.IssueToken(user.ID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to issue token", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [AuthService] User logged in successfully", "user_id", user.ID)
	return &LoginResult{Email: user.Email, IsAdmin: user.IsAdmin, Token: token}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.credentials.VerifyToken(token)
	if err != nil {
		return policy.ErrUnauthenticated
	}

	if err := s.revoked.RevokeToken(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		s.logger.Error("❌ [AuthService] Failed to revoke token", "user_id", claims.UserID, "error", err)
		return err
	}

	s.logger.Info("👋 [AuthService] User logged out", "user_id", claims.UserID)
	return nil
}

// Authenticate resolves a bearer token to the acting user. Tokens for deleted
// users or revoked tokens are rejected.
func (s *authService) Authenticate(ctx context.Context, token string) (policy.Actor, error) {
	claims, err := s.credentials.VerifyToken(token)
	if err != nil {
		return policy.Anonymous, policy.ErrUnauthenticated
	}

	revoked, err := s.revoked.IsTokenRevoked(ctx, claims.TokenID)
	if err != nil {
		s.logger.Error("❌ [AuthService] Failed to check token revocation", "error", err)
		return policy.Anonymous, err
	}
	if revoked {
		return policy.Anonymous, policy.ErrUnauthenticated
	}

	user, err := s.store.Users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Warn("⚠️ [AuthService] Token for unknown user", "user_id", claims.UserID)
			return policy.Anonymous, policy.ErrUnauthenticated
		}
		return policy.Anonymous, err
	}

	return policy.Actor{ID: user.ID, IsAdmin: user.IsAdmin}, nil
}
