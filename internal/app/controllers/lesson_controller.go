package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// LessonController handles lesson endpoints including reactions and search
type LessonController struct {
	lessonService services.LessonService
}

// NewLessonController creates a new LessonController
func NewLessonController(lessonService services.LessonService) *LessonController {
	return &LessonController{lessonService: lessonService}
}

// ListLessons lists lessons newest first, optionally of one section
// @Summary List lessons
// @Tags lessons
// @Produce json
// @Param sectionId query int false "Only lessons of this section"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.LessonListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	sectionID, ok := parseFilterQuery(ctx, "sectionId")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.lessonService.ListLessons(ctx.Request.Context(), sectionID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateLesson creates a lesson
// @Summary Create a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLessonRequest true "Lesson data"
// @Success 201 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown section"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var req dto.CreateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.lessonService.CreateLesson(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetLesson retrieves a lesson with its reactions
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson")
	if !ok {
		return
	}
	resp, err := c.lessonService.GetLesson(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateLesson replaces a lesson
// @Summary Replace a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.CreateLessonRequest true "Lesson data"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson")
	if !ok {
		return
	}
	var req dto.CreateLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, req.AsPatch())
}

// PatchLesson updates only the fields present in the body
// @Summary Partially update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param request body dto.PatchLessonRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [patch]
func (c *LessonController) PatchLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson")
	if !ok {
		return
	}
	var req dto.PatchLessonRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, &req)
}

func (c *LessonController) update(ctx *gin.Context, id int64, patch *dto.PatchLessonRequest) {
	resp, err := c.lessonService.UpdateLesson(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteLesson deletes a lesson with its videos and comments
// @Summary Delete a lesson
// @Tags lessons
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson")
	if !ok {
		return
	}
	if err := c.lessonService.DeleteLesson(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Like records that the caller likes the lesson, dropping any dislike
// @Summary Like a lesson
// @Description Idempotent; a previous dislike by the same user is removed
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id}/like [post]
func (c *LessonController) Like(ctx *gin.Context) {
	c.react(ctx, models.ReactionLike)
}

// Dislike records that the caller dislikes the lesson, dropping any like
// @Summary Dislike a lesson
// @Description Idempotent; a previous like by the same user is removed
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lesson not found"
// @Router /lessons/{id}/dislike [post]
func (c *LessonController) Dislike(ctx *gin.Context) {
	c.react(ctx, models.ReactionDislike)
}

func (c *LessonController) react(ctx *gin.Context, kind models.ReactionKind) {
	id, ok := parseIDParam(ctx, "id", "lesson")
	if !ok {
		return
	}
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	resp, err := c.lessonService.React(ctx.Request.Context(), id, caller.UserID, kind)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// Search finds lessons whose topic or description contains the query, ignoring case
// @Summary Search lessons
// @Description An empty query returns every lesson
// @Tags lessons
// @Produce json
// @Param query query string false "Substring to look for"
// @Success 200 {object} dto.APIResponse{data=[]dto.LessonResponse}
// @Router /lessons-search [get]
func (c *LessonController) Search(ctx *gin.Context) {
	resp, err := c.lessonService.Search(ctx.Request.Context(), ctx.Query("query"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}
