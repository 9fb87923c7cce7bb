package auth

import (
	"context"
	"errors"

	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// Caller is the authenticated user behind a request
type Caller struct {
	UserID   int64
	Username string
	IsStaff  bool
}

// AuthorizationService decides who may change authored content
type AuthorizationService struct {
	userRepo repositories.IUserRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(userRepo repositories.IUserRepository) *AuthorizationService {
	return &AuthorizationService{userRepo: userRepo}
}

// IsStaff re-reads the staff flag so a revoked flag takes effect before the token expires
func (s *AuthorizationService) IsStaff(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in IsStaff")
		return false, err
	}
	return user.IsStaff && user.IsActive, nil
}

// AccountStatus reports whether the user still exists and is active, and whether it is staff
func (s *AuthorizationService) AccountStatus(ctx context.Context, userID int64) (active, staff bool, err error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, false, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in AccountStatus")
		return false, false, err
	}
	return user.IsActive, user.IsStaff && user.IsActive, nil
}

// CanModifyAuthored reports whether caller may edit content written by authorID.
// Content whose author was deleted is staff-only.
func (s *AuthorizationService) CanModifyAuthored(ctx context.Context, caller Caller, authorID *int64) (bool, error) {
	if authorID != nil && *authorID == caller.UserID {
		return true, nil
	}
	if !caller.IsStaff {
		return false, nil
	}
	return s.IsStaff(ctx, caller.UserID)
}

// ValidateAuthored returns a permission error unless caller may edit the content
func (s *AuthorizationService) ValidateAuthored(ctx context.Context, caller Caller, authorID *int64, resource string) error {
	ok, err := s.CanModifyAuthored(ctx, caller, authorID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewForbiddenError("only the author or a staff user can modify this " + resource)
	}
	return nil
}
