package service

import (
	"context"
	"errors"
	"sync"

	listingserrors "stayindia/internal/listings/errors"
	"stayindia/internal/listings/repository"
	"stayindia/internal/listings/validator"
	"stayindia/pkg/authz"
	"stayindia/pkg/config"
	apperrors "stayindia/pkg/errors"
	"stayindia/pkg/model"
	"stayindia/pkg/sanitizer"
)

type ListingService interface {
	Create(ctx context.Context, actor authz.Actor, listing *model.Listing) error
	GetByID(ctx context.Context, id string) (*model.Listing, error)
	Search(ctx context.Context, search *model.ListingSearch, limit int, offset int64) ([]*model.Listing, int64, error)
	Update(ctx context.Context, actor authz.Actor, id string, updates *model.ListingUpdate) error
	Delete(ctx context.Context, actor authz.Actor, id string) error
}

type listingService struct {
	repo       repository.ListingRepository
	validator  *validator.ListingValidator
	authorizer *authz.Authorizer
	cfg        *config.Config
}

func NewListingService(
	repo repository.ListingRepository,
	listingValidator *validator.ListingValidator,
	authorizer *authz.Authorizer,
	cfg *config.Config,
) ListingService {
	return &listingService{
		repo:       repo,
		validator:  listingValidator,
		authorizer: authorizer,
		cfg:        cfg,
	}
}

func (s *listingService) Create(ctx context.Context, actor authz.Actor, listing *model.Listing) error {
	if err := s.authorizer.Can(actor, authz.ActionCreate, authz.Resource{Type: authz.ResourceListing}); err != nil {
		return err
	}

	listing.OwnerID = actor.ID
	s.sanitize(listing)

	if err := s.validator.Validate(listing); err != nil {
		s.cfg.Log.Warn("Listing validation failed", "error", err)
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		s.cfg.Log.Error("Failed to create listing", "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("Listing created", "id", listing.ID, "owner_id", listing.OwnerID, "location", listing.Location)
	return nil
}

func (s *listingService) GetByID(ctx context.Context, id string) (*model.Listing, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Listing ID cannot be empty")
	}

	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve listing", err)
	}

	return listing, nil
}

func (s *listingService) Search(ctx context.Context, search *model.ListingSearch, limit int, offset int64) ([]*model.Listing, int64, error) {
	if search != nil {
		search.Location = sanitizer.NormalizeLocation(search.Location)
	}

	var count int64
	var listings []*model.Listing
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, search)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count listings", "error", errCount)
			errCount = apperrors.Internal("Failed to count listings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		listings, errFind = s.repo.FindAll(ctx, search, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search listings", "error", errFind)
			errFind = apperrors.Internal("Failed to search listings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return listings, count, nil
}

func (s *listingService) Update(ctx context.Context, actor authz.Actor, id string, updates *model.ListingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizer.Can(actor, authz.ActionUpdate, authz.Resource{
		Type:    authz.ResourceListing,
		ID:      existing.ID,
		OwnerID: existing.OwnerID,
	}); err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Listing update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to update listing", "id", id, "error", err)
		return apperrors.Internal("Failed to update listing", err)
	}

	s.cfg.Log.Info("Listing updated", "id", id)
	return nil
}

func (s *listingService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Listing ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizer.Can(actor, authz.ActionDelete, authz.Resource{
		Type:    authz.ResourceListing,
		ID:      existing.ID,
		OwnerID: existing.OwnerID,
	}); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Listing", id)
		}
		s.cfg.Log.Error("Failed to delete listing", "id", id, "error", err)
		return apperrors.Internal("Failed to delete listing", err)
	}

	s.cfg.Log.Info("Listing deleted", "id", id)
	return nil
}

// --- Helpers ---

func (s *listingService) sanitize(l *model.Listing) {
	l.Title = sanitizer.NormalizeTitle(l.Title)
	l.Description = sanitizer.NormalizeDescription(l.Description)
	l.Location = sanitizer.NormalizeLocation(l.Location)
	l.Country = sanitizer.NormalizeCountry(l.Country)
}

func (s *listingService) mergeUpdates(existing *model.Listing, updates *model.ListingUpdate) *model.Listing {
	merged := *existing

	if updates.Title != "" {
		merged.Title = updates.Title
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Price != nil {
		merged.Price = *updates.Price
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	if updates.Country != "" {
		merged.Country = updates.Country
	}

	return &merged
}
