package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// SectionController handles course section endpoints
type SectionController struct {
	sectionService services.SectionService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService services.SectionService) *SectionController {
	return &SectionController{sectionService: sectionService}
}

// ListSections lists sections newest first, optionally of one course
// @Summary List sections
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Only sections of this course"
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.SectionListResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /sections [get]
func (c *SectionController) ListSections(ctx *gin.Context) {
	courseID, ok := parseFilterQuery(ctx, "courseId")
	if !ok {
		return
	}
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.sectionService.ListSections(ctx.Request.Context(), courseID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateSection creates a section
// @Summary Create a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section data"
// @Success 201 {object} dto.APIResponse{data=dto.SectionResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown course"
// @Router /sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.sectionService.CreateSection(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetSection retrieves a section
// @Summary Get a section
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse}
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [get]
func (c *SectionController) GetSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "section")
	if !ok {
		return
	}
	resp, err := c.sectionService.GetSection(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateSection replaces a section
// @Summary Replace a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param request body dto.CreateSectionRequest true "Section data"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse}
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [put]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "section")
	if !ok {
		return
	}
	var req dto.CreateSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, req.AsPatch())
}

// PatchSection updates only the fields present in the body
// @Summary Partially update a section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param request body dto.PatchSectionRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse}
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [patch]
func (c *SectionController) PatchSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "section")
	if !ok {
		return
	}
	var req dto.PatchSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, &req)
}

func (c *SectionController) update(ctx *gin.Context, id int64, patch *dto.PatchSectionRequest) {
	resp, err := c.sectionService.UpdateSection(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteSection deletes a section with its lessons
// @Summary Delete a section
// @Tags sections
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "section")
	if !ok {
		return
	}
	if err := c.sectionService.DeleteSection(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
