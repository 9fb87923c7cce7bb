package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/auth"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextIsStaff  = "isStaff"
)

// AccountChecker reads the current state of a token's user. A deleted user is reported inactive.
type AccountChecker interface {
	AccountStatus(ctx context.Context, userID int64) (active, staff bool, err error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	accounts   AccountChecker
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, accounts AccountChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		accounts:   accounts,
	}
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		// Some clients wrap the header value in quotes
		tokenString, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		isStaff := claims.IsStaff
		if m.accounts != nil {
			active, staff, err := m.accounts.AccountStatus(c.Request.Context(), claims.UserID)
			if err != nil {
				logger.Error().Err(err).Int64("userID", claims.UserID).Msg("Failed to check account status")
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
				return
			}
			if !active {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Authentication failed")
				errorDetail = errorDetail.WithDetails("Account is disabled or no longer exists")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			// the stored flag wins over the claim so a demotion applies immediately
			isStaff = staff
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextIsStaff, isStaff)

		c.Next()
	}
}

// StaffRequired rejects callers that are not staff. Must run after JWTAuth, which refreshes the flag.
func (m *AuthMiddleware) StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CurrentCaller(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("User information not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !caller.IsStaff {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You do not have permission to perform this action")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentCaller returns the user JWTAuth attached to the request
func CurrentCaller(c *gin.Context) (appauth.Caller, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return appauth.Caller{}, false
	}
	id, ok := userID.(int64)
	if !ok {
		return appauth.Caller{}, false
	}
	return appauth.Caller{
		UserID:   id,
		Username: c.GetString(ContextUsername),
		IsStaff:  c.GetBool(ContextIsStaff),
	}, true
}
