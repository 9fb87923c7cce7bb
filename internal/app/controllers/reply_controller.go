package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// ReplyController handles replies to comments
type ReplyController struct {
	replyService services.ReplyService
}

// NewReplyController creates a new ReplyController
func NewReplyController(replyService services.ReplyService) *ReplyController {
	return &ReplyController{replyService: replyService}
}

// ListReplies lists replies newest first
// @Summary List replies
// @Tags replies
// @Produce json
// @Param commentId query int false "Only replies to this comment"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ReplyListResponse}
// @Router /reply-to-comments [get]
func (c *ReplyController) ListReplies(ctx *gin.Context) {
	commentID, ok := parseFilterQuery(ctx, "commentId")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.replyService.ListReplies(ctx.Request.Context(), commentID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateReply posts a reply as the caller
// @Summary Create a reply
// @Description The author is always the authenticated user
// @Tags replies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReplyRequest true "Reply"
// @Success 201 {object} dto.APIResponse{data=dto.ReplyResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown comment"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /reply-to-comments [post]
func (c *ReplyController) CreateReply(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	var req dto.CreateReplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.replyService.CreateReply(ctx.Request.Context(), caller, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetReply retrieves a reply
// @Summary Get a reply
// @Tags replies
// @Produce json
// @Param id path int true "Reply ID"
// @Success 200 {object} dto.APIResponse{data=dto.ReplyResponse}
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Router /reply-to-comments/{id} [get]
func (c *ReplyController) GetReply(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "reply")
	if !ok {
		return
	}
	resp, err := c.replyService.GetReply(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateReply replaces a reply
// @Summary Replace a reply
// @Description Only the author or a staff user may edit
// @Tags replies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reply ID"
// @Param request body dto.CreateReplyRequest true "Reply"
// @Success 200 {object} dto.APIResponse{data=dto.ReplyResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Router /reply-to-comments/{id} [put]
func (c *ReplyController) UpdateReply(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "reply")
	if !ok {
		return
	}
	var req dto.CreateReplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, req.AsPatch())
}

// PatchReply updates only the fields present in the body
// @Summary Partially update a reply
// @Tags replies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Reply ID"
// @Param request body dto.PatchReplyRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ReplyResponse}
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Router /reply-to-comments/{id} [patch]
func (c *ReplyController) PatchReply(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "reply")
	if !ok {
		return
	}
	var req dto.PatchReplyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, &req)
}

func (c *ReplyController) update(ctx *gin.Context, id int64, patch *dto.PatchReplyRequest) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	resp, err := c.replyService.UpdateReply(ctx.Request.Context(), caller, id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteReply deletes a reply
// @Summary Delete a reply
// @Tags replies
// @Security BearerAuth
// @Param id path int true "Reply ID"
// @Success 204 "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the author"
// @Failure 404 {object} dto.ErrorResponse "Reply not found"
// @Router /reply-to-comments/{id} [delete]
func (c *ReplyController) DeleteReply(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "reply")
	if !ok {
		return
	}
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	if err := c.replyService.DeleteReply(ctx.Request.Context(), caller, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
