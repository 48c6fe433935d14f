package validator

import (
	"strings"
	"testing"

	"stayindia/pkg/config"
	"stayindia/pkg/model"
)

func newTestValidator() *ListingValidator {
	return NewListingValidator(&config.Config{MinNightlyPrice: 100, MaxNightlyPrice: 1_000_000})
}

func validListing() *model.Listing {
	return &model.Listing{
		Title:       "Beach house in Goa",
		Description: "A quiet two-bedroom house a short walk from the beach.",
		Price:       5000,
		Location:    "goa",
		Country:     "india",
		OwnerID:     "owner-1",
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := newTestValidator().Validate(validListing()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Listing)
		wantMsg string
	}{
		{"missing title", func(l *model.Listing) { l.Title = "" }, "Title is required"},
		{"title too short", func(l *model.Listing) { l.Title = "Hut" }, "Title must be at least 5"},
		{"missing description", func(l *model.Listing) { l.Description = "" }, "Description is required"},
		{"description too short", func(l *model.Listing) { l.Description = "Nice." }, "Description must be at least 20"},
		{"missing price", func(l *model.Listing) { l.Price = 0 }, "Price is required"},
		{"price below band", func(l *model.Listing) { l.Price = 50 }, "nightly price must be between"},
		{"price above band", func(l *model.Listing) { l.Price = 2_000_000 }, "nightly price must be between"},
		{"missing location", func(l *model.Listing) { l.Location = "" }, "Location is required"},
		{"missing country", func(l *model.Listing) { l.Country = "" }, "Country is required"},
		{"missing owner", func(l *model.Listing) { l.OwnerID = "" }, "OwnerID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := validListing()
			tt.mutate(listing)
			err := newTestValidator().Validate(listing)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateUpdate(&model.ListingUpdate{}); err != nil {
		t.Errorf("empty update should be valid, got: %v", err)
	}

	price := int64(8000)
	if err := v.ValidateUpdate(&model.ListingUpdate{Price: &price}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	low := int64(10)
	if err := v.ValidateUpdate(&model.ListingUpdate{Price: &low}); err == nil {
		t.Error("expected price band error, got nil")
	}

	if err := v.ValidateUpdate(&model.ListingUpdate{Title: "Hut"}); err == nil {
		t.Error("expected title length error, got nil")
	}
}
