package services

import (
	"context"
	"fmt"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
)

// SectionService defines the interface for section operations
type SectionService interface {
	CreateSection(ctx context.Context, req *dto.CreateSectionRequest) (*dto.SectionResponse, error)
	GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error)
	ListSections(ctx context.Context, courseID *int64, page, pageSize int) (*dto.SectionListResponse, error)
	UpdateSection(ctx context.Context, id int64, req *dto.PatchSectionRequest) (*dto.SectionResponse, error)
	DeleteSection(ctx context.Context, id int64) error
}

// sectionServiceImpl implements SectionService
type sectionServiceImpl struct {
	sectionRepo repositories.ISectionRepository
	videoRepo   repositories.ILessonVideoRepository
	storage     filestorage.FileStorage
}

// NewSectionService creates a new SectionService
func NewSectionService(
	sectionRepo repositories.ISectionRepository,
	videoRepo repositories.ILessonVideoRepository,
	storage filestorage.FileStorage,
) SectionService {
	return &sectionServiceImpl{sectionRepo: sectionRepo, videoRepo: videoRepo, storage: storage}
}

func toSectionResponse(s *models.Section) *dto.SectionResponse {
	return &dto.SectionResponse{
		ID:          s.ID,
		CourseID:    s.CourseID,
		Title:       s.Title,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func applySectionPatch(section *models.Section, p *dto.PatchSectionRequest) {
	if p.CourseID != nil {
		section.CourseID = *p.CourseID
	}
	if p.Title != nil {
		section.Title = *p.Title
	}
	if p.Description != nil {
		section.Description = *p.Description
	}
}

// CreateSection creates a section inside an existing course
func (s *sectionServiceImpl) CreateSection(ctx context.Context, req *dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	section := &models.Section{}
	applySectionPatch(section, req.AsPatch())
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	return toSectionResponse(section), nil
}

// GetSection retrieves a section by ID
func (s *sectionServiceImpl) GetSection(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSectionResponse(section), nil
}

// ListSections returns one page of sections, optionally of one course
func (s *sectionServiceImpl) ListSections(ctx context.Context, courseID *int64, page, pageSize int) (*dto.SectionListResponse, error) {
	total, err := s.sectionRepo.Count(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error counting sections: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	sections, err := s.sectionRepo.List(ctx, courseID, params)
	if err != nil {
		return nil, fmt.Errorf("error listing sections: %w", err)
	}

	items := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		items = append(items, *toSectionResponse(section))
	}
	return &dto.SectionListResponse{Items: items, Pagination: info}, nil
}

// UpdateSection applies the non-nil fields of req
func (s *sectionServiceImpl) UpdateSection(ctx context.Context, id int64, req *dto.PatchSectionRequest) (*dto.SectionResponse, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applySectionPatch(section, req)
	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}
	return toSectionResponse(section), nil
}

// DeleteSection removes the section with its lessons and their videos
func (s *sectionServiceImpl) DeleteSection(ctx context.Context, id int64) error {
	videos, err := s.videoRepo.ListPaths(ctx, repositories.ScopeSection, id)
	if err != nil {
		return fmt.Errorf("error collecting section videos: %w", err)
	}
	if err := s.sectionRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeFiles(s.storage, videos...)
	return nil
}
