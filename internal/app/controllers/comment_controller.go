package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// CommentController handles lesson comments
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// ListComments lists comments newest first
// @Summary List comments
// @Tags comments
// @Produce json
// @Param lessonId query int false "Only comments on this lesson"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CommentListResponse}
// @Router /comments [get]
func (c *CommentController) ListComments(ctx *gin.Context) {
	lessonID, ok := parseFilterQuery(ctx, "lessonId")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.commentService.ListComments(ctx.Request.Context(), lessonID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateComment posts a comment as the caller
// @Summary Create a comment
// @Description The author is always the authenticated user
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown lesson"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /comments [post]
func (c *CommentController) CreateComment(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.commentService.CreateComment(ctx.Request.Context(), caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetComment retrieves a comment
// @Summary Get a comment
// @Tags comments
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [get]
func (c *CommentController) GetComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "comment")
	if !ok {
		return
	}
	resp, err := c.commentService.GetComment(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateComment replaces a comment
// @Summary Replace a comment
// @Description Only the author or a staff user may edit
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [put]
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "comment")
	if !ok {
		return
	}
	var req dto.CreateCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, req.AsPatch())
}

// PatchComment updates only the fields present in the body
// @Summary Partially update a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body dto.PatchCommentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [patch]
func (c *CommentController) PatchComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "comment")
	if !ok {
		return
	}
	var req dto.PatchCommentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, &req)
}

func (c *CommentController) update(ctx *gin.Context, id int64, patch *dto.PatchCommentRequest) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	resp, err := c.commentService.UpdateComment(ctx.Request.Context(), caller, id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteComment deletes a comment and its replies
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Comment not found"
// @Router /comments/{id} [delete]
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "comment")
	if !ok {
		return
	}
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	if err := c.commentService.DeleteComment(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
