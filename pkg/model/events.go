package model

import "time"

const EventTypeBookingConfirmed = "booking.confirmed"

// BookingConfirmedEvent is published after a booking is admitted. Delivery is
// fire-and-forget from the admission path: the booking stands even if the
// event never reaches the notifications pipeline.
type BookingConfirmedEvent struct {
	BookingID    string    `json:"booking_id"`
	ListingID    string    `json:"listing_id"`
	ListingTitle string    `json:"listing_title"`
	GuestID      string    `json:"guest_id"`
	GuestEmail   string    `json:"guest_email"`
	GuestName    string    `json:"guest_name"`
	CheckIn      time.Time `json:"check_in"`
	CheckOut     time.Time `json:"check_out"`
	Nights       int       `json:"nights"`
	TotalPrice   int64     `json:"total_price"`
	ConfirmedAt  time.Time `json:"confirmed_at"`
}
