package dto

import (
	"time"

	"github.com/yigit/coursehub/internal/app/models"
)

// SendMailRequest is the body of POST /send-mail
type SendMailRequest struct {
	Subject string `json:"subject" binding:"notblank,max=255" example:"New course available"`
	Message string `json:"message" binding:"notblank" example:"Check out the new Go course."`
}

// SendMailResponse reports the queued broadcast
type SendMailResponse struct {
	NotificationID int64    `json:"notificationId" example:"1"`
	Recipients     []string `json:"recipients"`
	Queued         int      `json:"queued" example:"2"`
}

// NotificationResponse is one broadcast with its delivery progress
type NotificationResponse struct {
	ID         int64                `json:"id"`
	Subject    string               `json:"subject"`
	Message    string               `json:"message"`
	CreatedAt  time.Time            `json:"createdAt"`
	Deliveries models.DeliveryStats `json:"deliveries"`
}

// NotificationListResponse is one page of broadcasts
type NotificationListResponse struct {
	Items      []NotificationResponse `json:"items"`
	Pagination PaginationInfo         `json:"pagination"`
}

// DeliveryResponse is one recipient of a broadcast
type DeliveryResponse struct {
	ID             int64      `json:"id"`
	RecipientEmail string     `json:"recipientEmail"`
	Status         string     `json:"status" example:"SENT" enums:"PENDING,SENT,FAILED"`
	Attempts       int        `json:"attempts"`
	LastError      *string    `json:"lastError"`
	NextAttemptAt  time.Time  `json:"nextAttemptAt"`
	SentAt         *time.Time `json:"sentAt"`
}
