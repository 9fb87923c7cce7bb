package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// StartedCourseController records which courses the caller has started
type StartedCourseController struct {
	startedService services.StartedCourseService
}

// NewStartedCourseController creates a new StartedCourseController
func NewStartedCourseController(startedService services.StartedCourseService) *StartedCourseController {
	return &StartedCourseController{startedService: startedService}
}

// StartCourses records that the caller started the given courses
// @Summary Start courses
// @Tags started-courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.StartCoursesRequest true "Course IDs"
// @Success 201 {object} dto.APIResponse{data=dto.StartedCourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Empty list or unknown course"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /started-courses [post]
func (c *StartedCourseController) StartCourses(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	var req dto.StartCoursesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.startedService.StartCourses(ctx.Request.Context(), caller.UserID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// ListStarted lists the caller's started-course records newest first
// @Summary List started courses
// @Tags started-courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.StartedCourseListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /started-courses [get]
func (c *StartedCourseController) ListStarted(ctx *gin.Context) {
	caller, ok := requireCaller(ctx)
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.startedService.ListStarted(ctx.Request.Context(), caller.UserID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}
