package model

import "time"

// Booking is immutable once admitted: the price is frozen at admission time
// and later listing price changes never affect it.
type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ListingID  string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	GuestID    string    `json:"guest_id" bson:"guest_id" validate:"required"`
	CheckIn    time.Time `json:"check_in" bson:"check_in" validate:"required"`
	CheckOut   time.Time `json:"check_out" bson:"check_out" validate:"required,gtfield=CheckIn"`
	Nights     int       `json:"nights" bson:"nights" validate:"required,min=1"`
	TotalPrice int64     `json:"total_price" bson:"total_price" validate:"required,min=1"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the wire shape of a reservation attempt. Dates are
// calendar days in YYYY-MM-DD form; interpretation is UTC midnight.
type BookingRequest struct {
	ListingID string `json:"listing_id" validate:"required,mongodb"`
	CheckIn   string `json:"check_in" validate:"required"`
	CheckOut  string `json:"check_out" validate:"required"`
}

const BookingDateLayout = "2006-01-02"
