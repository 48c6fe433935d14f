package testutil

import (
	"time"

	"stayindia/pkg/model"
)

// The suite's canonical callers. IDs only need to be stable and distinct;
// the service trusts whatever the gateway headers carry.
func Host() *Identity {
	return &Identity{ID: "host-0001", Email: "host@example.com", Name: "Asha Host", Role: "user"}
}

func Guest() *Identity {
	return &Identity{ID: "guest-0001", Email: "guest@example.com", Name: "Ravi Guest", Role: "user"}
}

func OtherGuest() *Identity {
	return &Identity{ID: "guest-0002", Email: "other@example.com", Name: "Meera Guest", Role: "user"}
}

func Admin() *Identity {
	return &Identity{ID: "admin-0001", Email: "admin@example.com", Name: "Ops Admin", Role: "admin"}
}

type ListingBuilder struct {
	payload map[string]any
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		payload: map[string]any{
			"title":       "Sea-facing villa in Goa",
			"description": "Three-bedroom villa with a private pool, five minutes from Anjuna beach.",
			"price":       int64(5000),
			"location":    "goa",
			"country":     "india",
		},
	}
}

func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.payload["title"] = title
	return b
}

func (b *ListingBuilder) WithPrice(price int64) *ListingBuilder {
	b.payload["price"] = price
	return b
}

func (b *ListingBuilder) WithLocation(location string) *ListingBuilder {
	b.payload["location"] = location
	return b
}

func (b *ListingBuilder) Build() map[string]any {
	return b.payload
}

// BookingPayload builds a reservation request for a stay starting daysAhead
// days from now and lasting nights nights.
func BookingPayload(listingID string, daysAhead, nights int) map[string]any {
	checkIn := time.Now().UTC().AddDate(0, 0, daysAhead)
	checkOut := checkIn.AddDate(0, 0, nights)
	return map[string]any{
		"listing_id": listingID,
		"check_in":   checkIn.Format(model.BookingDateLayout),
		"check_out":  checkOut.Format(model.BookingDateLayout),
	}
}
