package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/db"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

var deliveryColumns = []string{
	"id", "notification_id", "user_id", "recipient_email", "status", "attempts",
	"last_error", "next_attempt_at", "sent_at", "created_at",
}

// NotificationRepository stores broadcasts and works their delivery queue
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// buildFanOut queues one delivery per user with an email address
func buildFanOut(notificationID int64) squirrel.InsertBuilder {
	recipients := squirrel.Select().
		Column(squirrel.Expr("?::bigint", notificationID)).
		Columns("id", "email").
		From("users").
		Where(squirrel.NotEq{"email": ""}).
		OrderBy("id")
	return psql.Insert("notification_deliveries").
		Columns("notification_id", "user_id", "recipient_email").
		Select(recipients).
		Suffix("RETURNING recipient_email")
}

// CreateBroadcast records the notification and queues its deliveries atomically.
// It returns the recipient addresses.
func (r *NotificationRepository) CreateBroadcast(ctx context.Context, n *models.UserNotification) ([]string, error) {
	recipients := make([]string, 0)
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sqlStr, args, err := psql.Insert("user_notifications").
			Columns("subject", "message").
			Values(n.Subject, n.Message).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, sqlStr, args...).Scan(&n.ID, &n.CreatedAt); err != nil {
			logger.Error().Err(err).Msg("Error inserting notification")
			return err
		}

		sqlStr, args, err = buildFanOut(n.ID).ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, sqlStr, args...)
		if err != nil {
			logger.Error().Err(err).Int64("notificationID", n.ID).Msg("Error queueing deliveries")
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var email string
			if err := rows.Scan(&email); err != nil {
				return err
			}
			recipients = append(recipients, email)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return recipients, nil
}

func scanNotification(row pgx.Row) (*models.UserNotification, error) {
	var n models.UserNotification
	if err := row.Scan(&n.ID, &n.Subject, &n.Message, &n.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotificationNotFound
		}
		logger.Error().Err(err).Msg("Error scanning notification")
		return nil, err
	}
	return &n, nil
}

// GetByID retrieves a notification
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.UserNotification, error) {
	sqlStr, args, err := psql.Select("id", "subject", "message", "created_at").
		From("user_notifications").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanNotification(r.db.QueryRow(ctx, sqlStr, args...))
}

// List returns notifications newest first
func (r *NotificationRepository) List(ctx context.Context, p ListParams) ([]*models.UserNotification, error) {
	b := psql.Select("id", "subject", "message", "created_at").From("user_notifications")
	sqlStr, args, err := p.page(b, "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list notifications query")
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*models.UserNotification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// Count returns the number of notifications
func (r *NotificationRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, psql.Select("COUNT(*)").From("user_notifications"))
}

// buildStatsQuery groups delivery states per notification
func buildStatsQuery(notificationIDs []int64) squirrel.SelectBuilder {
	return psql.Select("notification_id", "status", "COUNT(*)").
		From("notification_deliveries").
		Where(squirrel.Eq{"notification_id": notificationIDs}).
		GroupBy("notification_id", "status")
}

// Stats returns delivery counts keyed by notification id. Ids without deliveries map to zero stats.
func (r *NotificationRepository) Stats(ctx context.Context, notificationIDs []int64) (map[int64]models.DeliveryStats, error) {
	stats := make(map[int64]models.DeliveryStats, len(notificationIDs))
	if len(notificationIDs) == 0 {
		return stats, nil
	}
	for _, id := range notificationIDs {
		stats[id] = models.DeliveryStats{}
	}

	sqlStr, args, err := buildStatsQuery(notificationIDs).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delivery stats query")
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     int64
			status models.DeliveryStatus
			n      int
		)
		if err := rows.Scan(&id, &status, &n); err != nil {
			return nil, err
		}
		s := stats[id]
		switch status {
		case models.DeliveryPending:
			s.Pending = n
		case models.DeliverySent:
			s.Sent = n
		case models.DeliveryFailed:
			s.Failed = n
		}
		stats[id] = s
	}
	return stats, rows.Err()
}

func scanDelivery(row pgx.Row, extra ...any) (*models.NotificationDelivery, error) {
	var d models.NotificationDelivery
	dest := []any{
		&d.ID, &d.NotificationID, &d.UserID, &d.RecipientEmail, &d.Status, &d.Attempts,
		&d.LastError, &d.NextAttemptAt, &d.SentAt, &d.CreatedAt,
	}
	if len(extra) > 0 {
		dest = append(dest, &d.Subject, &d.Message)
	}
	if err := row.Scan(dest...); err != nil {
		logger.Error().Err(err).Msg("Error scanning delivery")
		return nil, err
	}
	return &d, nil
}

// ListDeliveries returns every delivery of a notification in queue order
func (r *NotificationRepository) ListDeliveries(ctx context.Context, notificationID int64) ([]*models.NotificationDelivery, error) {
	if _, err := r.GetByID(ctx, notificationID); err != nil {
		return nil, err
	}

	sqlStr, args, err := psql.Select(deliveryColumns...).
		From("notification_deliveries").
		Where(squirrel.Eq{"notification_id": notificationID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Int64("notificationID", notificationID).Msg("Error listing deliveries")
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]*models.NotificationDelivery, 0)
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// buildClaimQuery leases due PENDING rows until leaseUntil so concurrent
// dispatchers skip them, and returns them with the broadcast content
func buildClaimQuery(now time.Time, limit int, leaseUntil time.Time) squirrel.UpdateBuilder {
	due := squirrel.Select("id").
		From("notification_deliveries").
		Where(squirrel.Eq{"status": models.DeliveryPending}).
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		OrderBy("next_attempt_at", "id").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED")

	returning := "RETURNING d.id, d.notification_id, d.user_id, d.recipient_email, d.status, d.attempts, " +
		"d.last_error, d.next_attempt_at, d.sent_at, d.created_at, n.subject, n.message"

	return psql.Update("notification_deliveries d").
		Set("next_attempt_at", leaseUntil).
		From("user_notifications n").
		Where("n.id = d.notification_id").
		Where(due.Prefix("d.id IN (").Suffix(")")).
		Suffix(returning)
}

// ClaimDue leases up to limit due deliveries
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int, leaseUntil time.Time) ([]*models.NotificationDelivery, error) {
	sqlStr, args, err := buildClaimQuery(now, limit, leaseUntil).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error claiming due deliveries")
		return nil, err
	}
	defer rows.Close()

	claimed := make([]*models.NotificationDelivery, 0, limit)
	for rows.Next() {
		d, err := scanDelivery(rows, true)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, d)
	}
	return claimed, rows.Err()
}

func (r *NotificationRepository) updateDelivery(ctx context.Context, b squirrel.UpdateBuilder) error {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		logger.Error().Err(err).Msg("Error updating delivery")
		return err
	}
	return nil
}

// MarkSent records a successful send
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	return r.updateDelivery(ctx, psql.Update("notification_deliveries").
		Set("status", models.DeliverySent).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("sent_at", at).
		Set("last_error", nil).
		Where(squirrel.Eq{"id": id}))
}

// MarkRetry records a failed attempt and schedules the next one
func (r *NotificationRepository) MarkRetry(ctx context.Context, id int64, lastError string, nextAttemptAt time.Time) error {
	return r.updateDelivery(ctx, psql.Update("notification_deliveries").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", lastError).
		Set("next_attempt_at", nextAttemptAt).
		Where(squirrel.Eq{"id": id}))
}

// MarkFailed gives up on a delivery
func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, lastError string) error {
	return r.updateDelivery(ctx, psql.Update("notification_deliveries").
		Set("status", models.DeliveryFailed).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", lastError).
		Where(squirrel.Eq{"id": id}))
}
