package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "stayindia/internal/bookings/errors"
	"stayindia/internal/bookings/repository"
	"stayindia/internal/bookings/validator"
	listingserrors "stayindia/internal/listings/errors"
	"stayindia/pkg/authz"
	"stayindia/pkg/config"
	apperrors "stayindia/pkg/errors"
	"stayindia/pkg/model"
)

// ListingReader is the slice of the listings repository the admission path
// needs: existence, ownership and the nightly price.
type ListingReader interface {
	FindByID(ctx context.Context, id string) (*model.Listing, error)
}

type BookingService interface {
	RequestBooking(ctx context.Context, actor authz.Actor, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (*model.Booking, error)
	GetByGuest(ctx context.Context, actor authz.Actor, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	listings   ListingReader
	validator  *validator.BookingValidator
	authorizer *authz.Authorizer
	notifier   BookingNotifier
	cfg        *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	listings ListingReader,
	bookingValidator *validator.BookingValidator,
	authorizer *authz.Authorizer,
	notifier BookingNotifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		listings:   listings,
		validator:  bookingValidator,
		authorizer: authorizer,
		notifier:   notifier,
		cfg:        cfg,
	}
}

// RequestBooking admits a reservation: parse the window, resolve the
// listing, check the capability, apply the stay policy, then run the overlap
// check and insert atomically under a per-listing advisory lock. The price
// is frozen from the listing at admission time. The listing is resolved
// before the policy checks so an unknown listing reports not-found no matter
// what the dates look like.
func (s *bookingService) RequestBooking(ctx context.Context, actor authz.Actor, req *model.BookingRequest) (*model.Booking, error) {
	window, err := s.validator.ParseRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	listing, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", req.ListingID)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}

	if err := s.authorizer.Can(actor, authz.ActionBook, authz.Resource{
		Type:    authz.ResourceBooking,
		ID:      listing.ID,
		OwnerID: listing.OwnerID,
	}); err != nil {
		return nil, err
	}

	window, err = s.validator.ValidateWindow(window)
	if err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	booking := &model.Booking{
		ListingID:  listing.ID,
		GuestID:    actor.ID,
		CheckIn:    window.CheckIn,
		CheckOut:   window.CheckOut,
		Nights:     window.Nights,
		TotalPrice: int64(window.Nights) * listing.Price,
	}

	lockID, err := s.acquireListingLock(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseListingLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyAvailability(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to admit booking", "listing_id", listing.ID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking admitted",
		"id", booking.ID,
		"listing_id", booking.ListingID,
		"guest_id", booking.GuestID,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
		"total_price", booking.TotalPrice,
	)

	s.notifyConfirmed(actor, listing, booking)

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor authz.Actor, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if err := s.authorizer.Can(actor, authz.ActionRead, authz.Resource{
		Type:    authz.ResourceBooking,
		ID:      booking.ID,
		OwnerID: booking.GuestID,
	}); err != nil {
		return nil, err
	}

	return booking, nil
}

func (s *bookingService) GetByGuest(ctx context.Context, actor authz.Actor, limit int, offset int64) ([]*model.Booking, int64, error) {
	if err := s.authorizer.Can(actor, authz.ActionRead, authz.Resource{
		Type:    authz.ResourceBooking,
		OwnerID: actor.ID,
	}); err != nil {
		return nil, 0, err
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByGuest(ctx, actor.ID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings for guest", "guest_id", actor.ID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByGuest(ctx, actor.ID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings for guest", "guest_id", actor.ID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

// verifyAvailability rejects the booking when any existing stay intersects
// the half-open window. Runs inside the admission transaction.
func (s *bookingService) verifyAvailability(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.ListingID, booking.CheckIn, booking.CheckOut)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	if len(existing) > 0 {
		b := existing[0]
		return apperrors.Conflict(fmt.Sprintf(
			"Listing is already booked from %s to %s",
			b.CheckIn.Format(model.BookingDateLayout),
			b.CheckOut.Format(model.BookingDateLayout),
		))
	}
	return nil
}

// acquireListingLock creates the per-listing advisory lock. Two concurrent
// admissions for the same listing collide here; the loser gets a conflict
// and is asked to retry.
func (s *bookingService) acquireListingLock(ctx context.Context, listingID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", listingID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This listing is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseListingLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// notifyConfirmed publishes the confirmation event without blocking the
// admission response. Publish failures are logged and swallowed.
func (s *bookingService) notifyConfirmed(actor authz.Actor, listing *model.Listing, booking *model.Booking) {
	if s.notifier == nil {
		return
	}

	event := &model.BookingConfirmedEvent{
		BookingID:    booking.ID,
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		GuestID:      actor.ID,
		GuestEmail:   actor.Email,
		GuestName:    actor.Name,
		CheckIn:      booking.CheckIn,
		CheckOut:     booking.CheckOut,
		Nights:       booking.Nights,
		TotalPrice:   booking.TotalPrice,
		ConfirmedAt:  time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.notifier.BookingConfirmed(ctx, event); err != nil {
			s.cfg.Log.Warn("Failed to publish booking confirmation event",
				"booking_id", booking.ID,
				"error", err,
			)
		}
	}()
}
