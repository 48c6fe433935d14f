package worker

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"stayindia/internal/notifications/email"
	"stayindia/internal/notifications/repository"
	"stayindia/pkg/config"
	"stayindia/pkg/kafka"
	"stayindia/pkg/model"
)

// Worker consumes booking confirmation events and drives the durable
// reminder pipeline: each confirmed booking gets a confirmation email right
// away and a persisted reminder task fired on the morning of check-in.
type Worker struct {
	repo   repository.ReminderRepository
	mailer email.Mailer
	cfg    *config.Config

	// now is swappable for tests
	now func() time.Time
}

func New(repo repository.ReminderRepository, mailer email.Mailer, cfg *config.Config) *Worker {
	return &Worker{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// HandleBookingConfirmed is the Kafka message handler. The reminder task is
// persisted first; a duplicate booking_id means a redelivered message and is
// not an error. Confirmation email failures are logged and tolerated so a
// flaky SMTP server cannot poison the consumer group.
func (w *Worker) HandleBookingConfirmed(ctx context.Context, msg kafka.Message) error {
	var event model.BookingConfirmedEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.Permanent(fmt.Errorf("failed to decode booking confirmed event: %w", err))
	}

	if event.BookingID == "" || event.GuestEmail == "" {
		return kafka.Permanent(fmt.Errorf("booking confirmed event missing booking_id or guest_email"))
	}

	task := &model.ReminderTask{
		BookingID:    event.BookingID,
		GuestEmail:   event.GuestEmail,
		GuestName:    event.GuestName,
		ListingTitle: event.ListingTitle,
		CheckIn:      event.CheckIn,
		CheckOut:     event.CheckOut,
		TotalPrice:   event.TotalPrice,
		FireAt:       w.reminderFireAt(event.CheckIn),
	}

	if err := w.repo.Create(ctx, task); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			w.cfg.Log.Debug("Reminder task already exists, skipping", "booking_id", event.BookingID)
		} else {
			return fmt.Errorf("failed to persist reminder task: %w", err)
		}
	}

	if err := w.mailer.SendBookingConfirmation(&event); err != nil {
		w.cfg.Log.Warn("Failed to send confirmation email",
			"booking_id", event.BookingID,
			"guest_email", event.GuestEmail,
			"error", err,
		)
	} else {
		w.cfg.Log.Info("Confirmation email sent", "booking_id", event.BookingID)
	}

	return nil
}

// reminderFireAt returns the send time on the morning of the check-in day.
func (w *Worker) reminderFireAt(checkIn time.Time) time.Time {
	day := checkIn.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), w.cfg.ReminderSendHour, 0, 0, 0, time.UTC)
}

// Start polls for due reminder tasks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.ReminderPollInterval)
	defer ticker.Stop()

	w.cfg.Log.Info("Reminder poller started",
		"poll_interval", w.cfg.ReminderPollInterval,
		"batch_size", w.cfg.ReminderBatchSize,
	)

	for {
		select {
		case <-ctx.Done():
			w.cfg.Log.Info("Reminder poller stopped")
			return
		case <-ticker.C:
			w.ProcessDue(ctx)
		}
	}
}

// ProcessDue sends every reminder whose fire time has passed. Each task is
// marked sent or failed individually so one bad address does not block the
// batch.
func (w *Worker) ProcessDue(ctx context.Context) {
	tasks, err := w.repo.FindDue(ctx, w.now().UTC(), w.cfg.ReminderBatchSize)
	if err != nil {
		w.cfg.Log.Error("Failed to fetch due reminder tasks", "error", err)
		return
	}

	for _, task := range tasks {
		if err := w.mailer.SendCheckInReminder(task); err != nil {
			w.cfg.Log.Warn("Failed to send check-in reminder",
				"task_id", task.ID,
				"booking_id", task.BookingID,
				"error", err,
			)
			if markErr := w.repo.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
				w.cfg.Log.Error("Failed to mark reminder task failed", "task_id", task.ID, "error", markErr)
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, task.ID, w.now().UTC()); err != nil {
			w.cfg.Log.Error("Failed to mark reminder task sent", "task_id", task.ID, "error", err)
			continue
		}

		w.cfg.Log.Info("Check-in reminder sent",
			"task_id", task.ID,
			"booking_id", task.BookingID,
			"guest_email", task.GuestEmail,
		)
	}
}
