package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// DeliveryTrigger is poked after a broadcast is queued so delivery starts before the next poll
type DeliveryTrigger interface {
	Wake()
}

// NotificationService defines the interface for broadcast mail
type NotificationService interface {
	Broadcast(ctx context.Context, req *dto.SendMailRequest) (*dto.SendMailResponse, error)
	ListNotifications(ctx context.Context, page, pageSize int) (*dto.NotificationListResponse, error)
	ListDeliveries(ctx context.Context, notificationID int64) ([]dto.DeliveryResponse, error)
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	notificationRepo repositories.INotificationRepository
	trigger          DeliveryTrigger
}

// NewNotificationService creates a new NotificationService. trigger may be nil.
func NewNotificationService(notificationRepo repositories.INotificationRepository, trigger DeliveryTrigger) NotificationService {
	return &notificationServiceImpl{notificationRepo: notificationRepo, trigger: trigger}
}

func validateBroadcast(req *dto.SendMailRequest) error {
	fields := map[string]interface{}{}
	if strings.TrimSpace(req.Subject) == "" {
		fields["subject"] = "This field is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		fields["message"] = "This field is required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("subject and message are required", fields)
	}
	return nil
}

// Broadcast records one notification and queues one email per registered address.
// Sending happens in the background.
func (s *notificationServiceImpl) Broadcast(ctx context.Context, req *dto.SendMailRequest) (*dto.SendMailResponse, error) {
	if err := validateBroadcast(req); err != nil {
		return nil, err
	}

	notification := &models.UserNotification{Subject: req.Subject, Message: req.Message}
	recipients, err := s.notificationRepo.CreateBroadcast(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("error queueing broadcast: %w", err)
	}

	logger.Info().
		Int64("notificationID", notification.ID).
		Int("recipients", len(recipients)).
		Msg("Broadcast queued")
	if s.trigger != nil && len(recipients) > 0 {
		s.trigger.Wake()
	}

	return &dto.SendMailResponse{
		NotificationID: notification.ID,
		Recipients:     recipients,
		Queued:         len(recipients),
	}, nil
}

// ListNotifications returns one page of broadcasts with their delivery counts
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, page, pageSize int) (*dto.NotificationListResponse, error) {
	total, err := s.notificationRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting notifications: %w", err)
	}
	info, params := paginate(total, page, pageSize)

	notifications, err := s.notificationRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	ids := make([]int64, 0, len(notifications))
	for _, n := range notifications {
		ids = append(ids, n.ID)
	}
	stats, err := s.notificationRepo.Stats(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading delivery stats: %w", err)
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:         n.ID,
			Subject:    n.Subject,
			Message:    n.Message,
			CreatedAt:  n.CreatedAt,
			Deliveries: stats[n.ID],
		})
	}
	return &dto.NotificationListResponse{Items: items, Pagination: info}, nil
}

// ListDeliveries returns every queued email of one broadcast
func (s *notificationServiceImpl) ListDeliveries(ctx context.Context, notificationID int64) ([]dto.DeliveryResponse, error) {
	deliveries, err := s.notificationRepo.ListDeliveries(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		items = append(items, dto.DeliveryResponse{
			ID:             d.ID,
			RecipientEmail: d.RecipientEmail,
			Status:         string(d.Status),
			Attempts:       d.Attempts,
			LastError:      d.LastError,
			NextAttemptAt:  d.NextAttemptAt,
			SentAt:         d.SentAt,
		})
	}
	return items, nil
}
