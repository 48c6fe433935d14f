package model

import "time"

// BookingLock is an advisory lock held while checking a listing's calendar
// for overlaps and inserting the new booking. The _id is derived from the
// listing ID, so concurrent admission attempts on the same listing contend
// on the collection's unique _id index while different listings never block
// each other. ExpiresAt backs a TTL index so a crashed holder cannot wedge
// the listing.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
