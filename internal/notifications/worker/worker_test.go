package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"stayindia/pkg/config"
	"stayindia/pkg/kafka"
	"stayindia/pkg/logger"
	"stayindia/pkg/model"
)

type mockReminderRepository struct {
	createFunc   func(ctx context.Context, task *model.ReminderTask) error
	findDueFunc  func(ctx context.Context, now time.Time, limit int) ([]*model.ReminderTask, error)
	sentIDs      []string
	failedIDs    []string
	failedReason string
}

func (m *mockReminderRepository) Create(ctx context.Context, task *model.ReminderTask) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, task)
	}
	return nil
}

func (m *mockReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*model.ReminderTask, error) {
	if m.findDueFunc != nil {
		return m.findDueFunc(ctx, now, limit)
	}
	return nil, nil
}

func (m *mockReminderRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	m.sentIDs = append(m.sentIDs, id)
	return nil
}

func (m *mockReminderRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	m.failedIDs = append(m.failedIDs, id)
	m.failedReason = reason
	return nil
}

type mockMailer struct {
	confirmations []*model.BookingConfirmedEvent
	reminders     []*model.ReminderTask
	confirmErr    error
	reminderErr   func(task *model.ReminderTask) error
}

func (m *mockMailer) SendBookingConfirmation(event *model.BookingConfirmedEvent) error {
	m.confirmations = append(m.confirmations, event)
	return m.confirmErr
}

func (m *mockMailer) SendCheckInReminder(task *model.ReminderTask) error {
	m.reminders = append(m.reminders, task)
	if m.reminderErr != nil {
		return m.reminderErr(task)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.LevelError,
			Format:  logger.FormatJSON,
			Service: "test",
		}),
		ReminderSendHour:     8,
		ReminderPollInterval: time.Minute,
		ReminderBatchSize:    50,
	}
}

func confirmedEvent() *model.BookingConfirmedEvent {
	return &model.BookingConfirmedEvent{
		BookingID:    "booking-1",
		ListingID:    "listing-1",
		ListingTitle: "Beach house in Goa",
		GuestID:      "guest-1",
		GuestEmail:   "guest@example.com",
		GuestName:    "Guest One",
		CheckIn:      time.Date(2030, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:     time.Date(2030, 3, 13, 0, 0, 0, 0, time.UTC),
		Nights:       3,
		TotalPrice:   15000,
	}
}

func eventMessage(t *testing.T, event *model.BookingConfirmedEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return kafka.Message{
		Key:     event.BookingID,
		Value:   payload,
		Headers: map[string]string{},
	}
}

func TestHandleBookingConfirmed(t *testing.T) {
	var created *model.ReminderTask
	repo := &mockReminderRepository{
		createFunc: func(ctx context.Context, task *model.ReminderTask) error {
			created = task
			return nil
		},
	}
	mailer := &mockMailer{}
	w := New(repo, mailer, testConfig())

	if err := w.HandleBookingConfirmed(context.Background(), eventMessage(t, confirmedEvent())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created == nil {
		t.Fatal("expected reminder task to be persisted")
	}
	wantFireAt := time.Date(2030, 3, 10, 8, 0, 0, 0, time.UTC)
	if !created.FireAt.Equal(wantFireAt) {
		t.Errorf("fire_at = %v, want %v", created.FireAt, wantFireAt)
	}
	if created.BookingID != "booking-1" || created.GuestEmail != "guest@example.com" {
		t.Errorf("unexpected task: %+v", created)
	}

	if len(mailer.confirmations) != 1 {
		t.Fatalf("expected 1 confirmation email, got %d", len(mailer.confirmations))
	}
}

func TestHandleBookingConfirmed_EmailFailureTolerated(t *testing.T) {
	repo := &mockReminderRepository{}
	mailer := &mockMailer{confirmErr: fmt.Errorf("smtp unavailable")}
	w := New(repo, mailer, testConfig())

	if err := w.HandleBookingConfirmed(context.Background(), eventMessage(t, confirmedEvent())); err != nil {
		t.Fatalf("email failure must not fail the message: %v", err)
	}
}

func TestHandleBookingConfirmed_DuplicateRedelivery(t *testing.T) {
	repo := &mockReminderRepository{
		createFunc: func(ctx context.Context, task *model.ReminderTask) error {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		},
	}
	w := New(repo, &mockMailer{}, testConfig())

	if err := w.HandleBookingConfirmed(context.Background(), eventMessage(t, confirmedEvent())); err != nil {
		t.Fatalf("redelivered event must not fail: %v", err)
	}
}

func TestHandleBookingConfirmed_MalformedPayload(t *testing.T) {
	w := New(&mockReminderRepository{}, &mockMailer{}, testConfig())

	err := w.HandleBookingConfirmed(context.Background(), kafka.Message{Value: []byte("{broken")})
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if kafka.ShouldRetry(err, 0, 3) {
		t.Error("malformed payload must be permanent, not retryable")
	}
}

func TestHandleBookingConfirmed_PersistFailureRetries(t *testing.T) {
	repo := &mockReminderRepository{
		createFunc: func(ctx context.Context, task *model.ReminderTask) error {
			return fmt.Errorf("mongo down")
		},
	}
	w := New(repo, &mockMailer{}, testConfig())

	err := w.HandleBookingConfirmed(context.Background(), eventMessage(t, confirmedEvent()))
	if err == nil {
		t.Fatal("expected error when persistence fails")
	}
	if !kafka.ShouldRetry(err, 0, 3) {
		t.Error("persistence failure should be retryable")
	}
}

func TestProcessDue(t *testing.T) {
	due := []*model.ReminderTask{
		{ID: "task-1", BookingID: "booking-1", GuestEmail: "a@example.com"},
		{ID: "task-2", BookingID: "booking-2", GuestEmail: "bad@example.com"},
		{ID: "task-3", BookingID: "booking-3", GuestEmail: "c@example.com"},
	}
	repo := &mockReminderRepository{
		findDueFunc: func(ctx context.Context, now time.Time, limit int) ([]*model.ReminderTask, error) {
			return due, nil
		},
	}
	mailer := &mockMailer{
		reminderErr: func(task *model.ReminderTask) error {
			if task.ID == "task-2" {
				return fmt.Errorf("mailbox full")
			}
			return nil
		},
	}
	w := New(repo, mailer, testConfig())

	w.ProcessDue(context.Background())

	if len(mailer.reminders) != 3 {
		t.Errorf("expected 3 send attempts, got %d", len(mailer.reminders))
	}
	if len(repo.sentIDs) != 2 {
		t.Errorf("expected 2 tasks marked sent, got %v", repo.sentIDs)
	}
	if len(repo.failedIDs) != 1 || repo.failedIDs[0] != "task-2" {
		t.Errorf("expected task-2 marked failed, got %v", repo.failedIDs)
	}
	if repo.failedReason != "mailbox full" {
		t.Errorf("failure reason = %q", repo.failedReason)
	}
}

func TestProcessDue_FetchFailure(t *testing.T) {
	repo := &mockReminderRepository{
		findDueFunc: func(ctx context.Context, now time.Time, limit int) ([]*model.ReminderTask, error) {
			return nil, fmt.Errorf("mongo down")
		},
	}
	mailer := &mockMailer{}
	w := New(repo, mailer, testConfig())

	w.ProcessDue(context.Background())

	if len(mailer.reminders) != 0 {
		t.Errorf("no sends expected on fetch failure, got %d", len(mailer.reminders))
	}
}
