package dto

import (
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// CreateCommentRequest is the body of POST /comments and PUT /comments/{id}. The author is the caller.
type CreateCommentRequest struct {
	LessonID int64  `json:"lessonId" binding:"required,gt=0"`
	Message  string `json:"message" binding:"required"`
}

// AsPatch converts a full write into a patch touching every field
func (r *CreateCommentRequest) AsPatch() *PatchCommentRequest {
	return &PatchCommentRequest{LessonID: &r.LessonID, Message: &r.Message}
}

// PatchCommentRequest leaves nil fields untouched
type PatchCommentRequest struct {
	LessonID *int64  `json:"lessonId" binding:"omitempty,gt=0"`
	Message  *string `json:"message" binding:"omitempty,min=1"`
}

// CommentResponse is the public view of a comment
type CommentResponse struct {
	ID        int64          `json:"id"`
	LessonID  int64          `json:"lessonId"`
	Message   string         `json:"message"`
	Author    *models.Author `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CommentListResponse is one page of comments
type CommentListResponse struct {
	Items      []CommentResponse `json:"items"`
	Pagination PaginationInfo    `json:"pagination"`
}

// CreateReplyRequest is the body of POST /reply-to-comments and PUT /reply-to-comments/{id}
type CreateReplyRequest struct {
	CommentID int64  `json:"commentId" binding:"required,gt=0"`
	Message   string `json:"message" binding:"required"`
}

// AsPatch converts a full write into a patch touching every field
func (r *CreateReplyRequest) AsPatch() *PatchReplyRequest {
	return &PatchReplyRequest{CommentID: &r.CommentID, Message: &r.Message}
}

// PatchReplyRequest leaves nil fields untouched
type PatchReplyRequest struct {
	CommentID *int64  `json:"commentId" binding:"omitempty,gt=0"`
	Message   *string `json:"message" binding:"omitempty,min=1"`
}

// ReplyResponse is the public view of a reply
type ReplyResponse struct {
	ID        int64          `json:"id"`
	CommentID int64          `json:"commentId"`
	Message   string         `json:"message"`
	Author    *models.Author `json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// ReplyListResponse is one page of replies
type ReplyListResponse struct {
	Items      []ReplyResponse `json:"items"`
	Pagination PaginationInfo  `json:"pagination"`
}
