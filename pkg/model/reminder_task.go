package model

import "time"

const (
	ReminderStatusPending = "pending"
	ReminderStatusSent    = "sent"
	ReminderStatusFailed  = "failed"
)

// ReminderTask is a durable scheduled notification. It is persisted when a
// booking is confirmed and picked up by the notifications worker once FireAt
// has passed, so reminders survive process restarts.
type ReminderTask struct {
	ID           string     `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID    string     `json:"booking_id" bson:"booking_id"`
	GuestEmail   string     `json:"guest_email" bson:"guest_email"`
	GuestName    string     `json:"guest_name" bson:"guest_name"`
	ListingTitle string     `json:"listing_title" bson:"listing_title"`
	CheckIn      time.Time  `json:"check_in" bson:"check_in"`
	CheckOut     time.Time  `json:"check_out" bson:"check_out"`
	TotalPrice   int64      `json:"total_price" bson:"total_price"`
	FireAt       time.Time  `json:"fire_at" bson:"fire_at"`
	Status       string     `json:"status" bson:"status"`
	LastError    string     `json:"last_error,omitempty" bson:"last_error,omitempty"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	SentAt       *time.Time `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
}
