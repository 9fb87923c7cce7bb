package services

import (
	"context"
	"fmt"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// LessonService defines the interface for lesson operations
type LessonService interface {
	CreateLesson(ctx context.Context, req *dto.CreateLessonRequest) (*dto.LessonResponse, error)
	GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error)
	ListLessons(ctx context.Context, sectionID *int64, page, pageSize int) (*dto.LessonListResponse, error)
	UpdateLesson(ctx context.Context, id int64, req *dto.PatchLessonRequest) (*dto.LessonResponse, error)
	DeleteLesson(ctx context.Context, id int64) error
	React(ctx context.Context, lessonID, userID int64, kind models.ReactionKind) (*dto.LessonResponse, error)
	Search(ctx context.Context, query string) ([]dto.LessonResponse, error)
}

// lessonServiceImpl implements LessonService
type lessonServiceImpl struct {
	lessonRepo repositories.ILessonRepository
	videoRepo  repositories.ILessonVideoRepository
	storage    filestorage.FileStorage
}

// NewLessonService creates a new LessonService
func NewLessonService(
	lessonRepo repositories.ILessonRepository,
	videoRepo repositories.ILessonVideoRepository,
	storage filestorage.FileStorage,
) LessonService {
	return &lessonServiceImpl{lessonRepo: lessonRepo, videoRepo: videoRepo, storage: storage}
}

func toLessonResponse(l *models.Lesson) *dto.LessonResponse {
	likes, dislikes := l.Likes, l.Dislikes
	if likes == nil {
		likes = []int64{}
	}
	if dislikes == nil {
		dislikes = []int64{}
	}
	return &dto.LessonResponse{
		ID:            l.ID,
		SectionID:     l.SectionID,
		Topic:         l.Topic,
		Description:   l.Description,
		Likes:         likes,
		Dislikes:      dislikes,
		TotalLikes:    len(likes),
		TotalDislikes: len(dislikes),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}

func applyLessonPatch(lesson *models.Lesson, p *dto.PatchLessonRequest) {
	if p.SectionID != nil {
		lesson.SectionID = *p.SectionID
	}
	if p.Topic != nil {
		lesson.Topic = *p.Topic
	}
	if p.Description != nil {
		lesson.Description = *p.Description
	}
}

// CreateLesson creates a lesson inside an existing section
func (s *lessonServiceImpl) CreateLesson(ctx context.Context, req *dto.CreateLessonRequest) (*dto.LessonResponse, error) {
	lesson := &models.Lesson{}
	applyLessonPatch(lesson, req.AsPatch())
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}
	return toLessonResponse(lesson), nil
}

// GetLesson retrieves a lesson with its reactions
func (s *lessonServiceImpl) GetLesson(ctx context.Context, id int64) (*dto.LessonResponse, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLessonResponse(lesson), nil
}

// ListLessons returns one page of lessons, optionally of one section
func (s *lessonServiceImpl) ListLessons(ctx context.Context, sectionID *int64, page, pageSize int) (*dto.LessonListResponse, error) {
	total, err := s.lessonRepo.Count(ctx, sectionID)
	if err != nil {
		return nil, fmt.Errorf("error counting lessons: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	lessons, err := s.lessonRepo.List(ctx, sectionID, params)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	return &dto.LessonListResponse{Items: toLessonResponses(lessons), Pagination: info}, nil
}

func toLessonResponses(lessons []*models.Lesson) []dto.LessonResponse {
	items := make([]dto.LessonResponse, 0, len(lessons))
	for _, l := range lessons {
		items = append(items, *toLessonResponse(l))
	}
	return items
}

// UpdateLesson applies the non-nil fields of req
func (s *lessonServiceImpl) UpdateLesson(ctx context.Context, id int64, req *dto.PatchLessonRequest) (*dto.LessonResponse, error) {
	lesson, err := s.lessonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyLessonPatch(lesson, req)
	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return toLessonResponse(lesson), nil
}

// DeleteLesson removes the lesson with its videos, comments and reactions
func (s *lessonServiceImpl) DeleteLesson(ctx context.Context, id int64) error {
	videos, err := s.videoRepo.ListPaths(ctx, repositories.ScopeLesson, id)
	if err != nil {
		return fmt.Errorf("error collecting lesson videos: %w", err)
	}
	if err := s.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeFiles(s.storage, videos...)
	return nil
}

// React records userID's like or dislike on the lesson, replacing any earlier reaction,
// and returns the lesson as it is afterwards
func (s *lessonServiceImpl) React(ctx context.Context, lessonID, userID int64, kind models.ReactionKind) (*dto.LessonResponse, error) {
	if err := s.lessonRepo.SetReaction(ctx, lessonID, userID, kind); err != nil {
		return nil, err
	}
	logger.Debug().Int64("lessonID", lessonID).Int64("userID", userID).Str("kind", string(kind)).Msg("Lesson reaction recorded")
	return s.GetLesson(ctx, lessonID)
}

// Search matches query as a case-insensitive substring of topic or description; an empty query matches everything
func (s *lessonServiceImpl) Search(ctx context.Context, query string) ([]dto.LessonResponse, error) {
	lessons, err := s.lessonRepo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error searching lessons: %w", err)
	}
	return toLessonResponses(lessons), nil
}
