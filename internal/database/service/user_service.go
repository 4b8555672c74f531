package service

import (
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/carmarket/backend-go/internal/policy"
)

// UserService defines the interface for account management
type UserService interface {
	GetUser(actor policy.Actor, id uint) (*models.User, error)
	UpdateUser(actor policy.Actor, id uint, update UserUpdate) (*models.User, error)
	DeleteUser(actor policy.Actor, id uint) error
}

// UserUpdate is a partial update; absent fields are left untouched
type UserUpdate struct {
	Name        models.Optional[string] `json:"name"`
	Email       models.Optional[string] `json:"email"`
	Password    models.Optional[string] `json:"password"`
	PhoneNumber models.Optional[string] `json:"phone_number"`
	Address     models.Optional[string] `json:"address"`
}

type userService struct {
	store       *repository.Store
	credentials CredentialStore
	logger      *slog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(store *repository.Store, credentials CredentialStore, logger *slog.Logger) UserService {
	return &userService{
		store:       store,
		credentials: credentials,
		logger:      logger,
	}
}

func (s *userService) GetUser(actor policy.Actor, id uint) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, policy.ErrUnauthenticated
	}

	user, err := s.store.Users.FindByID(id)
	if err != nil {
		return nil, userLookupError(err)
	}

	if err := policy.Check(actor, policy.ReadUser, policy.Owned(user.ID)); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(actor policy.Actor, id uint, update UserUpdate) (*models.User, error) {
	s.logger.Info("✏️ [UserService] Update user", "user_id", id, "actor_id", actor.ID)

	user, err := s.store.Users.FindByID(id)
	if err != nil {
		return nil, userLookupError(err)
	}
	if err := policy.Check(actor, policy.UpdateUser, policy.Owned(user.ID)); err != nil {
		s.logger.Warn("⚠️ [UserService] Update denied", "user_id", id, "actor_id", actor.ID)
		return nil, err
	}

	fields := map[string]any{}
	checks := &fieldChecker{}

	if v, ok := checks.requiredString("name", update.Name, 100); ok {
		fields["name"] = v
	}
	if v, ok := checks.email("email", update.Email); ok && v != user.Email {
		fields["email"] = v
	}
	if v, ok := checks.nullableString("phone_number", update.PhoneNumber, 15); ok {
		fields["phone_number"] = v
	}
	if v, ok := checks.nullableString("address", update.Address, 255); ok {
		fields["address"] = v
	}
	if update.Password.Present {
		if update.Password.Null || update.Password.Value == "" {
			checks.fail("password", "Password is required.")
		}
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	if update.Password.Present {
		hash, err := s.credentials.HashPassword(update.Password.Value)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}

	if email, ok := fields["email"].(string); ok {
		existing, err := s.store.Users.FindByEmail(email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrEmailAlreadyExists
		}
	}

	if err := s.store.Users.Update(user.ID, fields); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errUserNotFound
		}
		s.logger.Error("❌ [UserService] Failed to update user", "user_id", id, "error", err)
		return nil, err
	}

	updated, err := s.store.Users.FindByID(user.ID)
	if err != nil {
		return nil, userLookupError(err)
	}

	s.logger.Info("✅ [UserService] User updated", "user_id", id, "fields", len(fields))
	return updated, nil
}

// DeleteUser removes the account and its listings. Accounts with recorded
// purchases are kept so the sales history stays intact.
func (s *userService) DeleteUser(actor policy.Actor, id uint) error {
	s.logger.Info("🗑️ [UserService] Delete user", "user_id", id, "actor_id", actor.ID)

	if err := policy.Check(actor, policy.DeleteUser, policy.Owned(id)); err != nil {
		return err
	}

	err := s.store.WithTx(func(tx *repository.Store) error {
		if _, err := tx.Users.FindByID(id); err != nil {
			return userLookupError(err)
		}

		purchases, err := tx.Transactions.CountByBuyer(id)
		if err != nil {
			return err
		}
		if purchases > 0 {
			return ErrUserHasPurchases
		}

		removed, err := tx.Listings.DeleteByUser(id)
		if err != nil {
			return err
		}
		s.logger.Debug("🧹 [UserService] Removed user listings", "user_id", id, "count", removed)

		if err := tx.Users.Delete(id); err != nil {
			if _, ok := repository.IsConstraintViolation(err, repository.ConstraintForeignKey); ok {
				return ErrUserHasPurchases
			}
			return userLookupError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("✅ [UserService] User deleted", "user_id", id)
	return nil
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return errUserNotFound
	}
	return err
}
