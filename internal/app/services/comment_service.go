package services

import (
	"context"
	"fmt"

	appauth "github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
)

// CommentService defines the interface for lesson comment operations
type CommentService interface {
	CreateComment(ctx context.Context, caller appauth.Caller, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	GetComment(ctx context.Context, id int64) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, lessonID *int64, page, pageSize int) (*dto.CommentListResponse, error)
	UpdateComment(ctx context.Context, caller appauth.Caller, id int64, req *dto.PatchCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, caller appauth.Caller, id int64) error
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	commentRepo  repositories.ICommentRepository
	authzService *appauth.AuthorizationService
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.ICommentRepository, authzService *appauth.AuthorizationService) CommentService {
	return &commentServiceImpl{commentRepo: commentRepo, authzService: authzService}
}

func toCommentResponse(c *models.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        c.ID,
		LessonID:  c.LessonID,
		Message:   c.Message,
		Author:    c.Author,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CreateComment posts a comment as the caller
func (s *commentServiceImpl) CreateComment(ctx context.Context, caller appauth.Caller, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	authorID := caller.UserID
	comment := &models.Comment{LessonID: req.LessonID, Message: req.Message, AuthorID: &authorID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// GetComment retrieves a comment by ID
func (s *commentServiceImpl) GetComment(ctx context.Context, id int64) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// ListComments returns one page of comments, optionally of one lesson
func (s *commentServiceImpl) ListComments(ctx context.Context, lessonID *int64, page, pageSize int) (*dto.CommentListResponse, error) {
	total, err := s.commentRepo.Count(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("error counting comments: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	comments, err := s.commentRepo.List(ctx, lessonID, params)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	items := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, *toCommentResponse(c))
	}
	return &dto.CommentListResponse{Items: items, Pagination: info}, nil
}

// UpdateComment edits a comment owned by the caller, or any comment for staff
func (s *commentServiceImpl) UpdateComment(ctx context.Context, caller appauth.Caller, id int64, req *dto.PatchCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateAuthored(ctx, caller, comment.AuthorID, "comment"); err != nil {
		return nil, err
	}

	if req.LessonID != nil {
		comment.LessonID = *req.LessonID
	}
	if req.Message != nil {
		comment.Message = *req.Message
	}
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// DeleteComment removes a comment owned by the caller, or any comment for staff
func (s *commentServiceImpl) DeleteComment(ctx context.Context, caller appauth.Caller, id int64) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateAuthored(ctx, caller, comment.AuthorID, "comment"); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, id)
}
