package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// ProfileController handles admin management of users and their profiles
type ProfileController struct {
	profileService services.ProfileService
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService services.ProfileService) *ProfileController {
	return &ProfileController{profileService: profileService}
}

// ListProfiles lists profiles newest first
// @Summary List profiles
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ProfileListResponse}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /profile [get]
func (c *ProfileController) ListProfiles(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.profileService.ListProfiles(ctx.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// CreateProfile creates a user together with its profile
// @Summary Create a profile
// @Description Creates the user (password is hashed) and the profile in one transaction
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProfileRequest true "User and profile data"
// @Success 201 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /profile [post]
func (c *ProfileController) CreateProfile(ctx *gin.Context) {
	var req dto.CreateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.profileService.CreateProfile(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, resp)
}

// GetProfile retrieves a profile
// @Summary Get a profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "profile")
	if !ok {
		return
	}
	resp, err := c.profileService.GetProfile(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UpdateProfile replaces a profile and its user fields
// @Summary Replace a profile
// @Description An empty password keeps the current one
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.UpdateProfileRequest true "User and profile data"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /profile/{id} [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "profile")
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, req.AsPatch())
}

// PatchProfile updates only the fields present in the body
// @Summary Partially update a profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param request body dto.PatchProfileRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile/{id} [patch]
func (c *ProfileController) PatchProfile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "profile")
	if !ok {
		return
	}
	var req dto.PatchProfileRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	c.update(ctx, id, &req)
}

func (c *ProfileController) update(ctx *gin.Context, id int64, patch *dto.PatchProfileRequest) {
	resp, err := c.profileService.UpdateProfile(ctx.Request.Context(), id, patch)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// UploadPicture replaces the profile picture
// @Summary Upload a profile picture
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Param picture formData file true "Image file"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Missing or non-image file"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile/{id}/picture [post]
func (c *ProfileController) UploadPicture(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "profile")
	if !ok {
		return
	}
	fh, _ := ctx.FormFile("picture")

	resp, err := c.profileService.UpdatePicture(ctx.Request.Context(), id, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// DeleteProfile deletes a profile
// @Summary Delete a profile
// @Tags profiles
// @Security BearerAuth
// @Param id path int true "Profile ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Profile not found"
// @Router /profile/{id} [delete]
func (c *ProfileController) DeleteProfile(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "profile")
	if !ok {
		return
	}
	if err := c.profileService.DeleteProfile(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
