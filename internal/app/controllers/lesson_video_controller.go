package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// videoField is the multipart field carrying the video file
const videoField = "videoContent"

// LessonVideoController handles lesson video uploads
type LessonVideoController struct {
	videoService services.LessonVideoService
}

// NewLessonVideoController creates a new LessonVideoController
func NewLessonVideoController(videoService services.LessonVideoService) *LessonVideoController {
	return &LessonVideoController{videoService: videoService}
}

// ListVideos lists lesson videos newest first
// @Summary List lesson videos
// @Tags lesson-videos
// @Produce json
// @Param lessonId query int false "Only videos of this lesson"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.LessonVideoListResponse}
// @Router /lesson-videos [get]
func (c *LessonVideoController) ListVideos(ctx *gin.Context) {
	lessonID, ok := parseFilterQuery(ctx, "lessonId")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.videoService.ListVideos(ctx.Request.Context(), lessonID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateVideo uploads a video for a lesson
// @Summary Upload a lesson video
// @Description Allowed extensions: mp4, mov, avi, mkv (case-insensitive)
// @Tags lesson-videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param lessonId formData int true "Lesson ID"
// @Param videoContent formData file true "Video file"
// @Success 201 {object} dto.APIResponse{data=dto.LessonVideoResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing file, bad extension or unknown lesson"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /lesson-videos [post]
func (c *LessonVideoController) CreateVideo(ctx *gin.Context) {
	var form dto.LessonVideoForm
	if !middleware.BindForm(ctx, &form) {
		return
	}
	fh, _ := ctx.FormFile(videoField)

	resp, err := c.videoService.CreateVideo(ctx.Request.Context(), form.LessonID, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetVideo retrieves a lesson video
// @Summary Get a lesson video
// @Tags lesson-videos
// @Produce json
// @Param id path int true "Lesson video ID"
// @Success 200 {object} dto.APIResponse{data=dto.LessonVideoResponse}
// @Failure 404 {object} dto.ErrorResponse "Lesson video not found"
// @Router /lesson-videos/{id} [get]
func (c *LessonVideoController) GetVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson video")
	if !ok {
		return
	}
	resp, err := c.videoService.GetVideo(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateVideo replaces both the lesson and the file of a video
// @Summary Replace a lesson video
// @Tags lesson-videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson video ID"
// @Param lessonId formData int true "Lesson ID"
// @Param videoContent formData file true "Video file"
// @Success 200 {object} dto.APIResponse{data=dto.LessonVideoResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing file or bad extension"
// @Failure 404 {object} dto.ErrorResponse "Lesson video not found"
// @Router /lesson-videos/{id} [put]
func (c *LessonVideoController) UpdateVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson video")
	if !ok {
		return
	}
	var form dto.LessonVideoForm
	if !middleware.BindForm(ctx, &form) {
		return
	}
	fh, err := ctx.FormFile(videoField)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request data")
		errorDetail = errorDetail.WithField(videoField).WithDetails(map[string]string{videoField: "This field is required"})
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	c.update(ctx, id, &form.LessonID, fh)
}

// PatchVideo moves a video to another lesson and/or replaces its file
// @Summary Partially update a lesson video
// @Tags lesson-videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lesson video ID"
// @Param lessonId formData int false "Lesson ID"
// @Param videoContent formData file false "Video file"
// @Success 200 {object} dto.APIResponse{data=dto.LessonVideoResponse}
// @Failure 400 {object} dto.ErrorResponse "Bad extension"
// @Failure 404 {object} dto.ErrorResponse "Lesson video not found"
// @Router /lesson-videos/{id} [patch]
func (c *LessonVideoController) PatchVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson video")
	if !ok {
		return
	}
	var form dto.PatchLessonVideoForm
	if !middleware.BindForm(ctx, &form) {
		return
	}
	// absent file keeps the current one
	fh, _ := ctx.FormFile(videoField)
	c.update(ctx, id, form.LessonID, fh)
}

func (c *LessonVideoController) update(ctx *gin.Context, id int64, lessonID *int64, fh *multipart.FileHeader) {
	resp, err := c.videoService.UpdateVideo(ctx.Request.Context(), id, lessonID, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteVideo deletes a lesson video and its file
// @Summary Delete a lesson video
// @Tags lesson-videos
// @Security BearerAuth
// @Param id path int true "Lesson video ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Lesson video not found"
// @Router /lesson-videos/{id} [delete]
func (c *LessonVideoController) DeleteVideo(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "lesson video")
	if !ok {
		return
	}
	if err := c.videoService.DeleteVideo(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
