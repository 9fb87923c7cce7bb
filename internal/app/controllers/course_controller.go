package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// CourseController handles course endpoints
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// ListCourses lists courses newest first
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.courseService.ListCourses(ctx.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateCourse creates a course
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Course name already taken"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.courseService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetCourse retrieves a course
// @Summary Get a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	resp, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateCourse replaces a course
// @Summary Replace a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course name already taken"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, req.AsPatch())
}

// PatchCourse updates only the fields present in the body
// @Summary Partially update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.PatchCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [patch]
func (c *CourseController) PatchCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.PatchCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, &req)
}

func (c *CourseController) update(ctx *gin.Context, id int64, patch *dto.PatchCourseRequest) {
	resp, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UploadTeacherPicture replaces the teacher picture of a course
// @Summary Upload the teacher picture
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param teacherPicture formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or non-image file"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/teacher-picture [post]
func (c *CourseController) UploadTeacherPicture(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	fh, _ := ctx.FormFile("teacherPicture")

	resp, err := c.courseService.UpdateTeacherPicture(ctx.Request.Context(), id, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteCourse deletes a course with its sections, lessons and their files
// @Summary Delete a course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
