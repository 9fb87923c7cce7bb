package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/coursehub/internal/app/models"
	appRepos "github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
)

// Admin describes the bootstrap superuser
type Admin struct {
	Username string
	Email    string
	Password string
}

// CreateDefaultData creates the configured staff account if it does not exist yet.
// An empty username disables seeding.
func CreateDefaultData(ctx context.Context, userRepo appRepos.IUserRepository, admin Admin, lgr zerolog.Logger) error {
	if admin.Username == "" {
		lgr.Info().Msg("No admin account configured, skipping seed")
		return nil
	}

	_, err := userRepo.GetByUsername(ctx, admin.Username)
	if err == nil {
		lgr.Debug().Str("username", admin.Username).Msg("Admin account already present")
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return fmt.Errorf("error looking up admin account: %w", err)
	}

	if len(admin.Password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	user := &appModels.User{
		Username: admin.Username,
		Email:    admin.Email,
		Password: hash,
		IsStaff:  true,
		IsActive: true,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		// another instance won the race
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("error creating admin account: %w", err)
	}

	lgr.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("Admin account created")
	return nil
}
