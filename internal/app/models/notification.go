package models

import "time"

// UserNotification is the log record of one broadcast
type UserNotification struct {
	ID        int64     `json:"id" db:"id"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NotificationDelivery is one queued email of a broadcast
type NotificationDelivery struct {
	ID             int64          `json:"id" db:"id"`
	NotificationID int64          `json:"notificationId" db:"notification_id"`
	UserID         *int64         `json:"userId,omitempty" db:"user_id"`
	RecipientEmail string         `json:"recipientEmail" db:"recipient_email"`
	Status         DeliveryStatus `json:"status" db:"status"`
	Attempts       int            `json:"attempts" db:"attempts"`
	LastError      *string        `json:"lastError,omitempty" db:"last_error"`
	NextAttemptAt  time.Time      `json:"nextAttemptAt" db:"next_attempt_at"`
	SentAt         *time.Time     `json:"sentAt,omitempty" db:"sent_at"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`

	// Populated when claimed for sending
	Subject string `json:"-"`
	Message string `json:"-"`
}

// DeliveryStats summarizes delivery states of one broadcast
type DeliveryStats struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}
