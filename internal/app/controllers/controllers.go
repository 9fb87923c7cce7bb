package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
)

// parseIDParam reads a positive int64 path parameter, writing a 400 when it is malformed
func parseIDParam(ctx *gin.Context, name, resource string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+resource+" ID")
		errorDetail = errorDetail.WithField(name).WithDetails(resource + " ID must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// parseFilterQuery reads an optional positive int64 filter such as ?lessonId=
func parseFilterQuery(ctx *gin.Context, name string) (*int64, bool) {
	raw, present := ctx.GetQuery(name)
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid filter")
		errorDetail = errorDetail.WithField(name).WithDetails(name + " must be a positive number")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return &id, true
}

// requireCaller returns the authenticated user or writes a 401
func requireCaller(ctx *gin.Context) (appauth.Caller, bool) {
	caller, ok := middleware.CurrentCaller(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return appauth.Caller{}, false
	}
	return caller, true
}

func respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, dto.NewSuccessResponse(data))
}
