package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// UserRepository contract interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id uint, role string) (int64, error)
	SetFraud(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// ListingPurger removes every listing owned by an agent.
type ListingPurger interface {
	PurgeAgent(ctx context.Context, agentID uint) (int64, error)
}

type userService struct {
	userRepo UserRepository
	listings ListingPurger
	validate *validator.Validate
}

func NewUserService(userRepo UserRepository, listings ListingPurger, validate *validator.Validate) *userService {
	return &userService{
		userRepo: userRepo,
		listings: listings,
		validate: validate,
	}
}

// Register inserts the caller on first sight and returns the stored record otherwise.
// The boolean reports whether a new user was created.
func (s *userService) Register(ctx context.Context, actor domain.Actor, user domain.User) (domain.User, bool, error) {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if err := s.validate.Var(user.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.User{}, false, domain.NewError(domain.ErrInvalidArgument, "invalid email format")
	}

	if !strings.EqualFold(actor.Email, user.Email) {
		return domain.User{}, false, domain.NewError(domain.ErrForbidden, "you can only register your own email")
	}

	existing, err := s.userRepo.FindByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Error("Failed to look up user", "email", user.Email, "error", err)
		return domain.User{}, false, err
	}

	// admin is never self-assigned
	if user.Role != domain.RoleAgent {
		user.Role = domain.RoleUser
	}
	user.ID = 0
	user.IsFraud = false

	if err := s.userRepo.Create(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// lost a race with a concurrent registration of the same email
			existing, findErr := s.userRepo.FindByEmail(ctx, user.Email)
			if findErr == nil {
				return existing, false, nil
			}
		}
		logger.Error("Failed to create new user", "email", user.Email, "error", err)
		return domain.User{}, false, err
	}

	logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, true, nil
}

// GetRole falls back to "user" for unknown emails.
func (s *userService) GetRole(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RoleUser, nil
		}
		logger.Error("Failed to get user role", err)
		return "", err
	}

	return user.Role, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to get all users", err)
		return nil, err
	}

	return users, nil
}

func (s *userService) UpdateRole(ctx context.Context, id uint, role string) (domain.User, error) {
	if !domain.IsValidRole(role) {
		return domain.User{}, domain.NewError(domain.ErrInvalidArgument, "invalid role")
	}

	rows, err := s.userRepo.UpdateRole(ctx, id, role)
	if err != nil {
		logger.Error("Failed to update user role", "user_id", id, "error", err)
		return domain.User{}, err
	}
	if rows == 0 {
		return domain.User{}, domain.NewError(domain.ErrNotFound, "user not found or role already set")
	}

	logger.Info("User role updated", "user_id", id, "role", role)
	return s.userRepo.FindByID(ctx, id)
}

// MarkFraud flags the user and revokes every listing they own.
// Replaying it finishes a purge that failed half way.
func (s *userService) MarkFraud(ctx context.Context, id uint) (domain.User, int64, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, 0, err
	}

	if !user.IsFraud {
		if err := s.userRepo.SetFraud(ctx, id); err != nil {
			logger.Error("Failed to mark user as fraud", "user_id", id, "error", err)
			return domain.User{}, 0, err
		}
		user.IsFraud = true
	}

	// Listings are purged regardless of the current role: a demoted agent or an admin
	// may still own some.
	purged, err := s.listings.PurgeAgent(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to purge fraudulent user listings", "user_id", id, "error", err)
		return user, 0, fmt.Errorf("user flagged but listing purge failed: %w", err)
	}

	logger.Warn("User marked as fraud", "user_id", id, "purged_properties", purged)
	return user, purged, nil
}

// DeleteUser purges the user's listings before removing the user, so a retry after a
// partial failure still finds the user and repeats the purge.
func (s *userService) DeleteUser(ctx context.Context, id uint) (int64, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("User not found for deletion", err)
		return 0, err
	}

	purged, err := s.listings.PurgeAgent(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to purge user listings", "user_id", id, "error", err)
		return 0, err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete user", err)
		return purged, err
	}

	logger.Info("User deleted", "user_id", id, "purged_properties", purged)
	return purged, nil
}
