// Package background runs work that outlives a request: the broadcast mail dispatcher.
package background

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/email"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize = 50
	maxBackoff       = 24 * time.Hour
	minLease         = time.Minute
)

// DispatcherConfig tunes the delivery loop
type DispatcherConfig struct {
	PollInterval time.Duration
	Workers      int
	BatchSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// DeliveryDispatcher drains the notification delivery queue through an email.Sender.
// Several dispatchers may share one database; claimed rows are leased so each is sent once.
type DeliveryDispatcher struct {
	queue  repositories.IDeliveryQueue
	sender email.Sender
	cfg    DispatcherConfig
	logger zerolog.Logger
	now    func() time.Time

	wake      chan struct{}
	stop      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewDeliveryDispatcher creates a dispatcher; call Start to run it
func NewDeliveryDispatcher(queue repositories.IDeliveryQueue, sender email.Sender, cfg DispatcherConfig, logger zerolog.Logger) *DeliveryDispatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 30 * time.Second
	}
	return &DeliveryDispatcher{
		queue:  queue,
		sender: sender,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Backoff is the wait after the given failed attempt: base, 2*base, 4*base... capped at a day
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Start launches the polling loop
func (d *DeliveryDispatcher) Start() {
	d.startOnce.Do(func() {
		d.logger.Info().
			Dur("pollInterval", d.cfg.PollInterval).
			Int("workers", d.cfg.Workers).
			Int("maxAttempts", d.cfg.MaxAttempts).
			Msg("Delivery dispatcher starting")
		go d.loop()
	})
}

// Wake asks the loop to poll now instead of waiting for the next tick
func (d *DeliveryDispatcher) Wake() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Stop ends the loop after the batch in flight and waits for it, or until ctx is done
func (d *DeliveryDispatcher) Stop(ctx context.Context) error {
	d.stopOnce.Do(func() { close(d.stop) })
	// never started: there is nothing to wait for
	d.startOnce.Do(func() { close(d.done) })

	select {
	case <-d.done:
		d.logger.Info().Msg("Delivery dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DeliveryDispatcher) loop() {
	defer close(d.done)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-d.stop
		cancel()
	}()

	for {
		// drain everything that is due before sleeping again
		for {
			n, err := d.RunOnce(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error().Err(err).Msg("Delivery batch failed")
			}
			if err != nil || n < d.cfg.BatchSize {
				break
			}
		}

		select {
		case <-d.stop:
			return
		case <-ticker.C:
		case <-d.wake:
		}
	}
}

// RunOnce claims one batch of due deliveries and sends it. It returns how many were claimed.
func (d *DeliveryDispatcher) RunOnce(ctx context.Context) (int, error) {
	now := d.now()
	lease := d.cfg.PollInterval * 4
	if lease < minLease {
		lease = minLease
	}

	batch, err := d.queue.ClaimDue(ctx, now, d.cfg.BatchSize, now.Add(lease))
	if err != nil {
		return 0, err
	}
	if len(batch) == 0 {
		return 0, nil
	}
	d.logger.Debug().Int("claimed", len(batch)).Msg("Claimed due deliveries")

	g := new(errgroup.Group)
	g.SetLimit(d.cfg.Workers)
	for _, delivery := range batch {
		delivery := delivery
		g.Go(func() error {
			d.deliver(ctx, delivery)
			return nil
		})
	}
	_ = g.Wait()
	return len(batch), nil
}

// deliver sends one message and records the outcome
func (d *DeliveryDispatcher) deliver(ctx context.Context, delivery *models.NotificationDelivery) {
	attempt := delivery.Attempts + 1
	log := d.logger.With().
		Int64("deliveryID", delivery.ID).
		Int64("notificationID", delivery.NotificationID).
		Int("attempt", attempt).
		Logger()

	sendErr := d.sender.Send(ctx, delivery.RecipientEmail, delivery.Subject, delivery.Message)

	// record the outcome even when shutdown cancelled the send
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	var err error
	switch {
	case sendErr == nil:
		err = d.queue.MarkSent(recordCtx, delivery.ID, d.now())
		log.Info().Msg("Notification email sent")
	case attempt >= d.cfg.MaxAttempts || errors.Is(sendErr, email.ErrInvalidRecipient):
		err = d.queue.MarkFailed(recordCtx, delivery.ID, sendErr.Error())
		log.Error().Err(sendErr).Msg("Notification email failed permanently")
	default:
		next := d.now().Add(Backoff(d.cfg.RetryBackoff, attempt))
		err = d.queue.MarkRetry(recordCtx, delivery.ID, sendErr.Error(), next)
		log.Warn().Err(sendErr).Time("nextAttemptAt", next).Msg("Notification email failed, will retry")
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to record delivery outcome")
	}
}
