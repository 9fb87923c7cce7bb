package background

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/email"
)

// memQueue mimics the delivery table: claim leases due PENDING rows
type memQueue struct {
	mu   sync.Mutex
	rows map[int64]*models.NotificationDelivery
}

func newMemQueue(emails ...string) *memQueue {
	q := &memQueue{rows: map[int64]*models.NotificationDelivery{}}
	for i, e := range emails {
		id := int64(i + 1)
		q.rows[id] = &models.NotificationDelivery{
			ID: id, NotificationID: 1, RecipientEmail: e, Status: models.DeliveryPending,
			Subject: "subject", Message: "message",
		}
	}
	return q
}

func (q *memQueue) ClaimDue(_ context.Context, now time.Time, limit int, leaseUntil time.Time) ([]*models.NotificationDelivery, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*models.NotificationDelivery, 0)
	for id := int64(1); id <= int64(len(q.rows)) && len(out) < limit; id++ {
		r := q.rows[id]
		if r.Status != models.DeliveryPending || r.NextAttemptAt.After(now) {
			continue
		}
		r.NextAttemptAt = leaseUntil
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (q *memQueue) MarkSent(_ context.Context, id int64, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	r := q.rows[id]
	r.Status, r.SentAt = models.DeliverySent, &at
	r.Attempts++
	return nil
}

func (q *memQueue) MarkRetry(_ context.Context, id int64, lastError string, next time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	r := q.rows[id]
	r.Attempts++
	r.LastError, r.NextAttemptAt = &lastError, next
	return nil
}

func (q *memQueue) MarkFailed(_ context.Context, id int64, lastError string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	r := q.rows[id]
	r.Attempts++
	r.Status, r.LastError = models.DeliveryFailed, &lastError
	return nil
}

func (q *memQueue) get(id int64) models.NotificationDelivery {
	q.mu.Lock()
	defer q.mu.Unlock()
	return *q.rows[id]
}

// flakySender fails every send to the addresses in failing
type flakySender struct {
	mu      sync.Mutex
	failing map[string]bool
	sent    []string
}

func (s *flakySender) Send(_ context.Context, to, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing[to] {
		return errors.New("connection refused")
	}
	s.sent = append(s.sent, to)
	return nil
}

func newTestDispatcher(q *memQueue, s email.Sender, clock *time.Time) *DeliveryDispatcher {
	d := NewDeliveryDispatcher(q, s, DispatcherConfig{
		PollInterval: time.Second,
		Workers:      2,
		BatchSize:    10,
		MaxAttempts:  3,
		RetryBackoff: time.Minute,
	}, zerolog.Nop())
	d.now = func() time.Time { return *clock }
	return d
}

func TestBackoff(t *testing.T) {
	cases := map[int]time.Duration{0: time.Minute, 1: time.Minute, 2: 2 * time.Minute, 3: 4 * time.Minute, 40: maxBackoff}
	for attempt, want := range cases {
		if got := Backoff(time.Minute, attempt); got != want {
			t.Errorf("attempt %d: got %v want %v", attempt, got, want)
		}
	}
}

func TestRunOnceMarksSuccessfulDeliveriesSent(t *testing.T) {
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	q := newMemQueue("a@example.com", "b@example.com")
	sender := &flakySender{}
	d := newTestDispatcher(q, sender, &clock)

	n, err := d.RunOnce(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("RunOnce: n=%d err=%v", n, err)
	}
	for id := int64(1); id <= 2; id++ {
		row := q.get(id)
		if row.Status != models.DeliverySent || row.Attempts != 1 || row.SentAt == nil {
			t.Errorf("delivery %d: %+v", id, row)
		}
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected two sends, got %v", sender.sent)
	}

	if n, _ := d.RunOnce(context.Background()); n != 0 {
		t.Fatalf("sent deliveries must not be claimed again, got %d", n)
	}
}

func TestFailingDeliveryRetriesThenFails(t *testing.T) {
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	q := newMemQueue("down@example.com")
	d := newTestDispatcher(q, &flakySender{failing: map[string]bool{"down@example.com": true}}, &clock)
	ctx := context.Background()

	if _, err := d.RunOnce(ctx); err != nil {
		t.Fatal(err)
	}
	row := q.get(1)
	if row.Status != models.DeliveryPending || row.Attempts != 1 || !row.NextAttemptAt.Equal(clock.Add(time.Minute)) {
		t.Fatalf("after first failure: %+v", row)
	}

	// not due yet
	if n, _ := d.RunOnce(ctx); n != 0 {
		t.Fatalf("retry claimed before its backoff elapsed")
	}

	clock = clock.Add(time.Minute)
	if _, err := d.RunOnce(ctx); err != nil {
		t.Fatal(err)
	}
	row = q.get(1)
	if row.Attempts != 2 || !row.NextAttemptAt.Equal(clock.Add(2*time.Minute)) {
		t.Fatalf("after second failure: %+v", row)
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := d.RunOnce(ctx); err != nil {
		t.Fatal(err)
	}
	row = q.get(1)
	if row.Status != models.DeliveryFailed || row.Attempts != 3 || row.LastError == nil || *row.LastError != "connection refused" {
		t.Fatalf("after max attempts: %+v", row)
	}
}

func TestInvalidRecipientFailsImmediately(t *testing.T) {
	clock := time.Now()
	q := newMemQueue("bad\r\n@example.com")
	sender := email.NewSMTPSender(email.SMTPConfig{}, zerolog.Nop())
	d := newTestDispatcher(q, sender, &clock)

	if _, err := d.RunOnce(context.Background()); err != nil {
		t.Fatal(err)
	}
	if row := q.get(1); row.Status != models.DeliveryFailed || row.Attempts != 1 {
		t.Fatalf("expected permanent failure, got %+v", row)
	}
}

func TestStartWakeStop(t *testing.T) {
	clock := time.Now()
	q := newMemQueue()
	sender := &flakySender{}
	d := newTestDispatcher(q, sender, &clock)
	d.cfg.PollInterval = time.Hour

	d.Start()

	q.mu.Lock()
	q.rows[1] = &models.NotificationDelivery{ID: 1, RecipientEmail: "late@example.com", Status: models.DeliveryPending}
	q.mu.Unlock()
	d.Wake()

	deadline := time.Now().Add(2 * time.Second)
	for q.get(1).Status != models.DeliverySent {
		if time.Now().After(deadline) {
			t.Fatal("woken dispatcher did not deliver")
		}
		time.Sleep(10 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}

func TestStopWithoutStart(t *testing.T) {
	clock := time.Now()
	d := newTestDispatcher(newMemQueue(), &flakySender{}, &clock)
	if err := d.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
