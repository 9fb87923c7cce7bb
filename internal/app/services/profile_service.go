package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/helpers"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// ProfileService defines the interface for profile operations
type ProfileService interface {
	CreateProfile(ctx context.Context, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error)
	GetProfile(ctx context.Context, id int64) (*dto.ProfileResponse, error)
	ListProfiles(ctx context.Context, page, pageSize int) (*dto.ProfileListResponse, error)
	UpdateProfile(ctx context.Context, id int64, req *dto.PatchProfileRequest) (*dto.ProfileResponse, error)
	UpdatePicture(ctx context.Context, id int64, fh *multipart.FileHeader) (*dto.ProfileResponse, error)
	DeleteProfile(ctx context.Context, id int64) error
}

// profileServiceImpl implements ProfileService
type profileServiceImpl struct {
	profileRepo repositories.IProfileRepository
	storage     filestorage.FileStorage
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repositories.IProfileRepository, storage filestorage.FileStorage) ProfileService {
	return &profileServiceImpl{profileRepo: profileRepo, storage: storage}
}

func parseBirthDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := helpers.ParseDate(*raw)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid birth date",
			map[string]interface{}{"birthDate": "Date has wrong format. Use YYYY-MM-DD"})
	}
	return &d, nil
}

func (s *profileServiceImpl) toResponse(p *models.Profile) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:       p.ID,
		Bio:      p.Bio,
		Location: p.Location,
		Picture:  fileURL(s.storage, p.Picture),
	}
	if p.User != nil {
		resp.User = dto.UserResponse{ID: p.User.ID, Username: p.User.Username, Email: p.User.Email, IsStaff: p.User.IsStaff}
	}
	if p.BirthDate != nil {
		d := p.BirthDate.Format(time.DateOnly)
		resp.BirthDate = &d
	}
	return resp
}

// CreateProfile creates the user and its profile together
func (s *profileServiceImpl) CreateProfile(ctx context.Context, req *dto.CreateProfileRequest) (*dto.ProfileResponse, error) {
	if strings.TrimSpace(req.User.Password) == "" {
		return nil, apperrors.NewValidationError("password is required",
			map[string]interface{}{"user.password": "This field is required"})
	}
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.User.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	profile := &models.Profile{
		Bio:       req.Bio,
		Location:  req.Location,
		BirthDate: birthDate,
		User: &models.User{
			Username: req.User.Username,
			Email:    req.User.Email,
			Password: hashed,
			IsActive: true,
		},
	}
	if err := s.profileRepo.CreateWithUser(ctx, profile); err != nil {
		return nil, err
	}

	logger.Info().Int64("profileID", profile.ID).Int64("userID", profile.UserID).Msg("Profile created")
	return s.toResponse(profile), nil
}

// GetProfile retrieves a profile by ID
func (s *profileServiceImpl) GetProfile(ctx context.Context, id int64) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(profile), nil
}

// ListProfiles returns one page of profiles, newest first
func (s *profileServiceImpl) ListProfiles(ctx context.Context, page, pageSize int) (*dto.ProfileListResponse, error) {
	total, err := s.profileRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting profiles: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	profiles, err := s.profileRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing profiles: %w", err)
	}

	items := make([]dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, *s.toResponse(p))
	}
	return &dto.ProfileListResponse{Items: items, Pagination: info}, nil
}

// UpdateProfile applies the non-nil fields of req to the profile and its user
func (s *profileServiceImpl) UpdateProfile(ctx context.Context, id int64, req *dto.PatchProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u := req.User; u != nil {
		if u.Username != nil {
			profile.User.Username = *u.Username
		}
		if u.Email != nil {
			profile.User.Email = *u.Email
		}
		if u.Password != nil && *u.Password != "" {
			hashed, err := auth.HashPassword(*u.Password)
			if err != nil {
				return nil, fmt.Errorf("error hashing password: %w", err)
			}
			profile.User.Password = hashed
		}
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.BirthDate != nil {
		if profile.BirthDate, err = parseBirthDate(req.BirthDate); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.UpdateWithUser(ctx, profile); err != nil {
		return nil, err
	}
	return s.toResponse(profile), nil
}

// UpdatePicture replaces the profile picture and removes the previous file
func (s *profileServiceImpl) UpdatePicture(ctx context.Context, id int64, fh *multipart.FileHeader) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rel, err := saveImage(s.storage, fh, filestorage.ProfilePicturesPath)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.UpdatePicture(ctx, id, &rel); err != nil {
		removeFiles(s.storage, rel)
		return nil, err
	}

	if profile.Picture != nil {
		removeFiles(s.storage, *profile.Picture)
	}
	profile.Picture = &rel
	return s.toResponse(profile), nil
}

// DeleteProfile removes the profile; the user account stays
func (s *profileServiceImpl) DeleteProfile(ctx context.Context, id int64) error {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}
	if profile.Picture != nil {
		removeFiles(s.storage, *profile.Picture)
	}
	logger.Info().Int64("profileID", id).Msg("Profile deleted")
	return nil
}
