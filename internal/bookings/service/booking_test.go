package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"stayindia/internal/bookings/repository"
	"stayindia/internal/bookings/validator"
	listingserrors "stayindia/internal/listings/errors"
	"stayindia/pkg/authz"
	"stayindia/pkg/config"
	mongotx "stayindia/pkg/db/mongo"
	apperrors "stayindia/pkg/errors"
	"stayindia/pkg/logger"
	"stayindia/pkg/model"
)

const (
	testListingID = "507f1f77bcf86cd799439011"
	testOwnerID   = "owner-1"
	testGuestID   = "guest-1"
)

// ────────────────────────────────────────────────
// In-memory repositories
// ────────────────────────────────────────────────

// inMemoryBookingRepository mirrors the Mongo half-open overlap filter over
// a plain slice so admission semantics can be tested without a database.
type inMemoryBookingRepository struct {
	mu       sync.Mutex
	bookings []*model.Booking
	nextID   int
}

func (m *inMemoryBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	booking.ID = fmt.Sprintf("booking-%d", m.nextID)
	booking.CreatedAt = time.Now().UTC()
	stored := *booking
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *inMemoryBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			found := *b
			return &found, nil
		}
	}
	return nil, fmt.Errorf("booking not found")
}

func (m *inMemoryBookingRepository) FindByGuest(ctx context.Context, guestID string, limit int, offset int64) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			found := *b
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *inMemoryBookingRepository) CountByGuest(ctx context.Context, guestID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			count++
		}
	}
	return count, nil
}

func (m *inMemoryBookingRepository) FindOverlapping(ctx context.Context, listingID string, checkIn, checkOut time.Time) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if b.ListingID == listingID && b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			found := *b
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *inMemoryBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func (m *inMemoryBookingRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

// inMemoryLockRepository enforces the unique _id constraint the real
// Booking_locks collection provides.
type inMemoryLockRepository struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

func newInMemoryLockRepository() *inMemoryLockRepository {
	return &inMemoryLockRepository{locks: map[string]struct{}{}}
}

func (m *inMemoryLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.locks[lock.ID]; exists {
		return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	m.locks[lock.ID] = struct{}{}
	return lock, nil
}

func (m *inMemoryLockRepository) Delete(ctx context.Context, lockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, lockID)
	return nil
}

// ────────────────────────────────────────────────
// Function-field mocks
// ────────────────────────────────────────────────

type mockListingReader struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Listing, error)
}

func (m *mockListingReader) FindByID(ctx context.Context, id string) (*model.Listing, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, listingserrors.ErrNotFound
}

type mockNotifier struct {
	mu     sync.Mutex
	events []*model.BookingConfirmedEvent
	err    error
	done   chan struct{}
}

func newMockNotifier(err error) *mockNotifier {
	return &mockNotifier{err: err, done: make(chan struct{}, 16)}
}

func (m *mockNotifier) BookingConfirmed(ctx context.Context, event *model.BookingConfirmedEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func (m *mockNotifier) waitForEvent(t *testing.T) *model.BookingConfirmedEvent {
	t.Helper()
	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for confirmation event")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

// ────────────────────────────────────────────────
// Fixture
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.LevelError,
			Format:  logger.FormatJSON,
			Service: "test",
		}),
		MaxBookingSpanDays: 365,
		BookingLockTTL:     10 * time.Second,
	}
}

func testListing() *model.Listing {
	return &model.Listing{
		ID:      testListingID,
		Title:   "Beach house in Goa",
		Price:   5000,
		OwnerID: testOwnerID,
	}
}

func listingReaderFor(listing *model.Listing) *mockListingReader {
	return &mockListingReader{
		findByIDFunc: func(ctx context.Context, id string) (*model.Listing, error) {
			if listing != nil && id == listing.ID {
				return listing, nil
			}
			return nil, listingserrors.ErrNotFound
		},
	}
}

type fixture struct {
	service  BookingService
	repo     *inMemoryBookingRepository
	locks    *inMemoryLockRepository
	notifier *mockNotifier
}

func newFixture(listing *model.Listing, notifierErr error) *fixture {
	cfg := testConfig()
	repo := &inMemoryBookingRepository{}
	locks := newInMemoryLockRepository()
	notifier := newMockNotifier(notifierErr)

	svc := NewBookingService(
		repo,
		locks,
		listingReaderFor(listing),
		validator.NewBookingValidator(cfg),
		authz.New(),
		notifier,
		cfg,
	)

	return &fixture{service: svc, repo: repo, locks: locks, notifier: notifier}
}

func guest() authz.Actor {
	return authz.Actor{ID: testGuestID, Email: "guest@example.com", Name: "Guest One", Role: authz.RoleUser}
}

func futureRequest(checkIn, checkOut string) *model.BookingRequest {
	return &model.BookingRequest{ListingID: testListingID, CheckIn: checkIn, CheckOut: checkOut}
}

// ────────────────────────────────────────────────
// RequestBooking
// ────────────────────────────────────────────────

func TestRequestBooking_Success(t *testing.T) {
	f := newFixture(testListing(), nil)

	booking, err := f.service.RequestBooking(context.Background(), guest(), futureRequest("2030-03-10", "2030-03-13"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be assigned")
	}
	if booking.GuestID != testGuestID {
		t.Errorf("guest_id = %s, want %s", booking.GuestID, testGuestID)
	}
	if booking.Nights != 3 {
		t.Errorf("nights = %d, want 3", booking.Nights)
	}
	if booking.TotalPrice != 15000 {
		t.Errorf("total_price = %d, want 15000 (3 nights x 5000)", booking.TotalPrice)
	}

	event := f.notifier.waitForEvent(t)
	if event.BookingID != booking.ID {
		t.Errorf("event booking_id = %s, want %s", event.BookingID, booking.ID)
	}
	if event.GuestEmail != "guest@example.com" {
		t.Errorf("event guest_email = %s", event.GuestEmail)
	}
	if event.ListingTitle != "Beach house in Goa" {
		t.Errorf("event listing_title = %s", event.ListingTitle)
	}
}

func TestRequestBooking_ValidationFailure(t *testing.T) {
	f := newFixture(testListing(), nil)

	_, err := f.service.RequestBooking(context.Background(), guest(), futureRequest("2030-03-13", "2030-03-10"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
		t.Errorf("code = %s, want %s", code, apperrors.CodeValidation)
	}
	if f.repo.count() != 0 {
		t.Error("no booking should be stored on validation failure")
	}
}

func TestRequestBooking_ListingNotFound(t *testing.T) {
	f := newFixture(nil, nil)

	_, err := f.service.RequestBooking(context.Background(), guest(), futureRequest("2030-03-10", "2030-03-13"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want %s", code, apperrors.CodeNotFound)
	}
}

func TestRequestBooking_UnknownListingReportedBeforeDatePolicy(t *testing.T) {
	f := newFixture(nil, nil)

	// the listing lookup runs before the past-date check
	_, err := f.service.RequestBooking(context.Background(), guest(), futureRequest("2020-01-01", "2020-01-04"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
		t.Errorf("code = %s, want %s", code, apperrors.CodeNotFound)
	}

	// a date that does not parse is rejected before the lookup
	_, err = f.service.RequestBooking(context.Background(), guest(), futureRequest("not-a-date", "2020-01-04"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
		t.Errorf("code = %s, want %s", code, apperrors.CodeValidation)
	}
}

func TestRequestBooking_OwnerCannotBookOwnListing(t *testing.T) {
	f := newFixture(testListing(), nil)

	owner := authz.Actor{ID: testOwnerID, Role: authz.RoleUser}
	_, err := f.service.RequestBooking(context.Background(), owner, futureRequest("2030-03-10", "2030-03-13"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", code, apperrors.CodeInvalidInput)
	}
	if f.repo.count() != 0 {
		t.Error("no booking should be stored when owner books own listing")
	}
}

func TestRequestBooking_Anonymous(t *testing.T) {
	f := newFixture(testListing(), nil)

	_, err := f.service.RequestBooking(context.Background(), authz.Actor{}, futureRequest("2030-03-10", "2030-03-13"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeUnauthorized {
		t.Errorf("code = %s, want %s", code, apperrors.CodeUnauthorized)
	}
}

func TestRequestBooking_OverlapConflict(t *testing.T) {
	f := newFixture(testListing(), nil)
	ctx := context.Background()

	if _, err := f.service.RequestBooking(ctx, guest(), futureRequest("2030-03-10", "2030-03-13")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
	}{
		{"identical window", "2030-03-10", "2030-03-13"},
		{"starts inside", "2030-03-11", "2030-03-15"},
		{"ends inside", "2030-03-08", "2030-03-11"},
		{"covers entirely", "2030-03-08", "2030-03-15"},
		{"contained within", "2030-03-11", "2030-03-12"},
	}

	other := authz.Actor{ID: "guest-2", Role: authz.RoleUser}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RequestBooking(ctx, other, futureRequest(tt.checkIn, tt.checkOut))
			if err == nil {
				t.Fatal("expected conflict, got nil")
			}
			if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
				t.Errorf("code = %s, want %s", code, apperrors.CodeConflict)
			}
		})
	}

	if f.repo.count() != 1 {
		t.Errorf("expected 1 stored booking, got %d", f.repo.count())
	}
}

func TestRequestBooking_BackToBackStaysAllowed(t *testing.T) {
	f := newFixture(testListing(), nil)
	ctx := context.Background()

	if _, err := f.service.RequestBooking(ctx, guest(), futureRequest("2030-03-10", "2030-03-13")); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	// checkout day equals the next check-in day: no overlap
	other := authz.Actor{ID: "guest-2", Role: authz.RoleUser}
	if _, err := f.service.RequestBooking(ctx, other, futureRequest("2030-03-13", "2030-03-16")); err != nil {
		t.Fatalf("back-to-back stay should be admitted, got: %v", err)
	}

	// same for the preceding window
	third := authz.Actor{ID: "guest-3", Role: authz.RoleUser}
	if _, err := f.service.RequestBooking(ctx, third, futureRequest("2030-03-07", "2030-03-10")); err != nil {
		t.Fatalf("preceding back-to-back stay should be admitted, got: %v", err)
	}

	if f.repo.count() != 3 {
		t.Errorf("expected 3 stored bookings, got %d", f.repo.count())
	}
}

func TestRequestBooking_ConcurrentSameWindow(t *testing.T) {
	f := newFixture(testListing(), nil)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := authz.Actor{ID: fmt.Sprintf("guest-%d", n), Role: authz.RoleUser}
			_, err := f.service.RequestBooking(context.Background(), actor, futureRequest("2030-06-01", "2030-06-05"))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperrors.AsAppError(err).Code == apperrors.CodeConflict:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 admitted booking, got %d", successes)
	}
	if conflicts != attempts-1 {
		t.Errorf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
	if f.repo.count() != 1 {
		t.Errorf("expected 1 stored booking, got %d", f.repo.count())
	}
}

func TestRequestBooking_LockReleasedAfterAdmission(t *testing.T) {
	f := newFixture(testListing(), nil)
	ctx := context.Background()

	if _, err := f.service.RequestBooking(ctx, guest(), futureRequest("2030-03-10", "2030-03-13")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a second admission for the same listing must not hit lock contention
	other := authz.Actor{ID: "guest-2", Role: authz.RoleUser}
	if _, err := f.service.RequestBooking(ctx, other, futureRequest("2030-04-01", "2030-04-03")); err != nil {
		t.Fatalf("lock should have been released, got: %v", err)
	}
}

func TestRequestBooking_NotifierFailureTolerated(t *testing.T) {
	f := newFixture(testListing(), fmt.Errorf("broker unavailable"))

	booking, err := f.service.RequestBooking(context.Background(), guest(), futureRequest("2030-03-10", "2030-03-13"))
	if err != nil {
		t.Fatalf("admission must not fail on notification errors: %v", err)
	}
	if booking.ID == "" {
		t.Error("expected booking to be admitted")
	}

	f.notifier.waitForEvent(t)
	if f.repo.count() != 1 {
		t.Errorf("expected 1 stored booking, got %d", f.repo.count())
	}
}

func TestRequestBooking_PriceFrozenAtAdmission(t *testing.T) {
	listing := testListing()
	f := newFixture(listing, nil)

	booking, err := f.service.RequestBooking(context.Background(), guest(), futureRequest("2030-03-10", "2030-03-12"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listing.Price = 9000

	stored, err := f.repo.FindByID(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.TotalPrice != 10000 {
		t.Errorf("total_price = %d, want 10000 (frozen at admission)", stored.TotalPrice)
	}
}

// ────────────────────────────────────────────────
// GetByID / GetByGuest
// ────────────────────────────────────────────────

func TestGetByID_OwnershipGate(t *testing.T) {
	f := newFixture(testListing(), nil)
	ctx := context.Background()

	booking, err := f.service.RequestBooking(ctx, guest(), futureRequest("2030-03-10", "2030-03-13"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.GetByID(ctx, guest(), booking.ID); err != nil {
		t.Errorf("guest should read own booking, got: %v", err)
	}

	other := authz.Actor{ID: "guest-2", Role: authz.RoleUser}
	_, err = f.service.GetByID(ctx, other, booking.ID)
	if err == nil {
		t.Fatal("expected refusal for another guest, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeForbidden {
		t.Errorf("code = %s, want %s", code, apperrors.CodeForbidden)
	}

	admin := authz.Actor{ID: "admin-1", Role: authz.RoleAdmin}
	if _, err := f.service.GetByID(ctx, admin, booking.ID); err != nil {
		t.Errorf("admin should read any booking, got: %v", err)
	}
}

func TestGetByID_EmptyID(t *testing.T) {
	f := newFixture(testListing(), nil)

	_, err := f.service.GetByID(context.Background(), guest(), "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
		t.Errorf("code = %s, want %s", code, apperrors.CodeInvalidInput)
	}
}

func TestGetByGuest(t *testing.T) {
	f := newFixture(testListing(), nil)
	ctx := context.Background()

	if _, err := f.service.RequestBooking(ctx, guest(), futureRequest("2030-03-10", "2030-03-13")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := authz.Actor{ID: "guest-2", Role: authz.RoleUser}
	if _, err := f.service.RequestBooking(ctx, other, futureRequest("2030-04-01", "2030-04-05")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bookings, count, err := f.service.GetByGuest(ctx, guest(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	if len(bookings) != 1 || bookings[0].GuestID != testGuestID {
		t.Errorf("unexpected bookings: %+v", bookings)
	}
}

func TestGetByGuest_Anonymous(t *testing.T) {
	f := newFixture(testListing(), nil)

	_, _, err := f.service.GetByGuest(context.Background(), authz.Actor{}, 10, 0)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeUnauthorized {
		t.Errorf("code = %s, want %s", code, apperrors.CodeUnauthorized)
	}
}

var _ repository.BookingRepository = (*inMemoryBookingRepository)(nil)
var _ repository.BookingLockRepository = (*inMemoryLockRepository)(nil)
