package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/services"
	"github.com/yigit/coursehub/internal/middleware"
	"github.com/yigit/coursehub/internal/pkg/helpers"
)

// NotificationController handles broadcast mail and its delivery log
type NotificationController struct {
	notificationService services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// SendMail queues one email per registered user
// @Summary Broadcast an email to every user
// @Description Records the notification and queues a delivery per user with an email address. Sending happens in the background.
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMailRequest true "Subject and message"
// @Success 202 {object} dto.APIResponse{data=dto.SendMailResponse} "Queued"
// @Failure 400 {object} dto.ErrorResponse "Subject or message missing"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 429 {object} dto.ErrorResponse "Too many broadcasts"
// @Router /send-mail [post]
func (c *NotificationController) SendMail(ctx *gin.Context) {
	var req dto.SendMailRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	resp, err := c.notificationService.Broadcast(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusAccepted, resp)
}

// ListNotifications lists broadcasts newest first with delivery counts
// @Summary List broadcasts
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param pageSize query int false "Items per page" default(10) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)
	resp, err := c.notificationService.ListNotifications(ctx.Request.Context(), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}

// ListDeliveries shows the state of every email of one broadcast
// @Summary List deliveries of a broadcast
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.DeliveryResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id}/deliveries [get]
func (c *NotificationController) ListDeliveries(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "notification")
	if !ok {
		return
	}
	resp, err := c.notificationService.ListDeliveries(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, resp)
}
