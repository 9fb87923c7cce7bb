package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/filestorage"
	"github.com/yigit/coursehub/internal/pkg/logger"
	"github.com/yigit/coursehub/internal/pkg/validation"
)

// LessonVideoService defines the interface for lesson video operations
type LessonVideoService interface {
	CreateVideo(ctx context.Context, lessonID int64, fh *multipart.FileHeader) (*dto.LessonVideoResponse, error)
	GetVideo(ctx context.Context, id int64) (*dto.LessonVideoResponse, error)
	ListVideos(ctx context.Context, lessonID *int64, page, pageSize int) (*dto.LessonVideoListResponse, error)
	UpdateVideo(ctx context.Context, id int64, lessonID *int64, fh *multipart.FileHeader) (*dto.LessonVideoResponse, error)
	DeleteVideo(ctx context.Context, id int64) error
}

// lessonVideoServiceImpl implements LessonVideoService
type lessonVideoServiceImpl struct {
	videoRepo repositories.ILessonVideoRepository
	storage   filestorage.FileStorage
}

// NewLessonVideoService creates a new LessonVideoService
func NewLessonVideoService(videoRepo repositories.ILessonVideoRepository, storage filestorage.FileStorage) LessonVideoService {
	return &lessonVideoServiceImpl{videoRepo: videoRepo, storage: storage}
}

func (s *lessonVideoServiceImpl) toResponse(v *models.LessonVideo) *dto.LessonVideoResponse {
	return &dto.LessonVideoResponse{
		ID:           v.ID,
		LessonID:     v.LessonID,
		VideoContent: s.storage.URL(v.VideoContent),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// saveVideo checks the extension before anything touches the disk
func (s *lessonVideoServiceImpl) saveVideo(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", apperrors.NewValidationError("no file uploaded",
			map[string]interface{}{"videoContent": "This field is required"})
	}
	if !validation.IsAllowedVideo(fh.Filename) {
		return "", apperrors.NewValidationError("unsupported video file", map[string]interface{}{
			"videoContent": "File extension is not allowed. Allowed extensions are: mp4, mov, avi, mkv",
		})
	}
	return s.storage.SaveFileWithPath(fh, filestorage.LessonVideosPath)
}

// CreateVideo stores the upload and attaches it to the lesson
func (s *lessonVideoServiceImpl) CreateVideo(ctx context.Context, lessonID int64, fh *multipart.FileHeader) (*dto.LessonVideoResponse, error) {
	rel, err := s.saveVideo(fh)
	if err != nil {
		return nil, err
	}

	video := &models.LessonVideo{LessonID: lessonID, VideoContent: rel}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		removeFiles(s.storage, rel)
		return nil, err
	}
	logger.Info().Int64("videoID", video.ID).Int64("lessonID", lessonID).Str("path", rel).Msg("Lesson video uploaded")
	return s.toResponse(video), nil
}

// GetVideo retrieves a lesson video by ID
func (s *lessonVideoServiceImpl) GetVideo(ctx context.Context, id int64) (*dto.LessonVideoResponse, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(video), nil
}

// ListVideos returns one page of videos, optionally of one lesson
func (s *lessonVideoServiceImpl) ListVideos(ctx context.Context, lessonID *int64, page, pageSize int) (*dto.LessonVideoListResponse, error) {
	total, err := s.videoRepo.Count(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("error counting lesson videos: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	videos, err := s.videoRepo.List(ctx, lessonID, params)
	if err != nil {
		return nil, fmt.Errorf("error listing lesson videos: %w", err)
	}

	items := make([]dto.LessonVideoResponse, 0, len(videos))
	for _, v := range videos {
		items = append(items, *s.toResponse(v))
	}
	return &dto.LessonVideoListResponse{Items: items, Pagination: info}, nil
}

// UpdateVideo moves the video to another lesson and/or replaces its file.
// A replaced file is removed once the row points at the new one.
func (s *lessonVideoServiceImpl) UpdateVideo(ctx context.Context, id int64, lessonID *int64, fh *multipart.FileHeader) (*dto.LessonVideoResponse, error) {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPath := ""
	if fh != nil {
		rel, err := s.saveVideo(fh)
		if err != nil {
			return nil, err
		}
		oldPath, video.VideoContent = video.VideoContent, rel
	}
	if lessonID != nil {
		video.LessonID = *lessonID
	}

	if err := s.videoRepo.Update(ctx, video); err != nil {
		if oldPath != "" {
			removeFiles(s.storage, video.VideoContent)
		}
		return nil, err
	}
	removeFiles(s.storage, oldPath)
	return s.toResponse(video), nil
}

// DeleteVideo removes the row and its file
func (s *lessonVideoServiceImpl) DeleteVideo(ctx context.Context, id int64) error {
	video, err := s.videoRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.videoRepo.Delete(ctx, id); err != nil {
		return err
	}
	removeFiles(s.storage, video.VideoContent)
	return nil
}
