package services

import (
	"context"
	"fmt"

	appauth "github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
)

// ReplyService defines the interface for replies to comments
type ReplyService interface {
	CreateReply(ctx context.Context, caller appauth.Caller, req *dto.CreateReplyRequest) (*dto.ReplyResponse, error)
	GetReply(ctx context.Context, id int64) (*dto.ReplyResponse, error)
	ListReplies(ctx context.Context, commentID *int64, page, pageSize int) (*dto.ReplyListResponse, error)
	UpdateReply(ctx context.Context, caller appauth.Caller, id int64, req *dto.PatchReplyRequest) (*dto.ReplyResponse, error)
	DeleteReply(ctx context.Context, caller appauth.Caller, id int64) error
}

// replyServiceImpl implements ReplyService
type replyServiceImpl struct {
	replyRepo    repositories.IReplyRepository
	authzService *appauth.AuthorizationService
}

// NewReplyService creates a new ReplyService
func NewReplyService(replyRepo repositories.IReplyRepository, authzService *appauth.AuthorizationService) ReplyService {
	return &replyServiceImpl{replyRepo: replyRepo, authzService: authzService}
}

func toReplyResponse(r *models.Reply) *dto.ReplyResponse {
	return &dto.ReplyResponse{
		ID:        r.ID,
		CommentID: r.CommentID,
		Message:   r.Message,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CreateReply answers a comment as the caller
func (s *replyServiceImpl) CreateReply(ctx context.Context, caller appauth.Caller, req *dto.CreateReplyRequest) (*dto.ReplyResponse, error) {
	authorID := caller.UserID
	reply := &models.Reply{CommentID: req.CommentID, Message: req.Message, AuthorID: &authorID}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}
	return toReplyResponse(reply), nil
}

// GetReply retrieves a reply by ID
func (s *replyServiceImpl) GetReply(ctx context.Context, id int64) (*dto.ReplyResponse, error) {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReplyResponse(reply), nil
}

// ListReplies returns one page of replies, optionally of one comment
func (s *replyServiceImpl) ListReplies(ctx context.Context, commentID *int64, page, pageSize int) (*dto.ReplyListResponse, error) {
	total, err := s.replyRepo.Count(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("error counting replies: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	replies, err := s.replyRepo.List(ctx, commentID, params)
	if err != nil {
		return nil, fmt.Errorf("error listing replies: %w", err)
	}

	items := make([]dto.ReplyResponse, 0, len(replies))
	for _, r := range replies {
		items = append(items, *toReplyResponse(r))
	}
	return &dto.ReplyListResponse{Items: items, Pagination: info}, nil
}

// UpdateReply edits a reply owned by the caller, or any reply for staff
func (s *replyServiceImpl) UpdateReply(ctx context.Context, caller appauth.Caller, id int64, req *dto.PatchReplyRequest) (*dto.ReplyResponse, error) {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authzService.ValidateAuthored(ctx, caller, reply.AuthorID, "reply"); err != nil {
		return nil, err
	}

	if req.CommentID != nil {
		reply.CommentID = *req.CommentID
	}
	if req.Message != nil {
		reply.Message = *req.Message
	}
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return toReplyResponse(reply), nil
}

// DeleteReply removes a reply owned by the caller, or any reply for staff
func (s *replyServiceImpl) DeleteReply(ctx context.Context, caller appauth.Caller, id int64) error {
	reply, err := s.replyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authzService.ValidateAuthored(ctx, caller, reply.AuthorID, "reply"); err != nil {
		return err
	}
	return s.replyRepo.Delete(ctx, id)
}
