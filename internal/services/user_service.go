package services

import (
	"context"
	"errors"
	"strings"

	"github.com/AnshRaj112/mealmate-backend/internal/config"
	"github.com/AnshRaj112/mealmate-backend/internal/models"
	"github.com/AnshRaj112/mealmate-backend/internal/repository"
	"github.com/AnshRaj112/mealmate-backend/pkg/utils"
)

type UserService struct {
	cfg      *config.Config
	users    repository.UserRepository
	activity *ActivityRecorder
}

func NewUserService(cfg *config.Config, users repository.UserRepository, activity *ActivityRecorder) *UserService {
	return &UserService{cfg: cfg, users: users, activity: activity}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate, meta RequestMeta) (*models.User, error) {
	if update.Empty() {
		return nil, &utils.ValidationError{Field: "body", Message: "No profile fields to update"}
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, &utils.ValidationError{Field: "name", Message: "name cannot be empty"}
		}
		update.Name = &name
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, userID, models.ActionProfileUpdated, "Profile updated", meta)
	return user, nil
}

// ChangePassword requires the current password. A wrong current password is
// reported as a validation failure, not ErrInvalidPassword, since the caller
// is already authenticated.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string, meta RequestMeta) error {
	if err := required("currentPassword", currentPassword); err != nil {
		return err
	}
	if err := required("newPassword", newPassword); err != nil {
		return err
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if user.Password == "" {
		return ErrNoPasswordSet
	}

	ok, err := utils.VerifyPassword(currentPassword, user.Password)
	if err != nil {
		return ErrAccountMisconfigured
	}
	if !ok {
		return &utils.ValidationError{Field: "currentPassword", Message: "Current password is incorrect"}
	}

	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, models.ActionPasswordChanged, "Password changed", meta)
	return nil
}
