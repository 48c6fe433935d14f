package model

import "time"

type Listing struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"required,min=5,max=150"`
	Description string    `json:"description" bson:"description" validate:"required,min=20,max=2000"`
	Price       int64     `json:"price" bson:"price" validate:"required,min=1"`
	Location    string    `json:"location" bson:"location" validate:"required,min=2,max=100"`
	Country     string    `json:"country" bson:"country" validate:"required,min=2,max=60"`
	OwnerID     string    `json:"owner_id" bson:"owner_id" validate:"required"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ListingUpdate struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=5,max=150"`
	Description string `json:"description,omitempty" validate:"omitempty,min=20,max=2000"`
	Price       *int64 `json:"price,omitempty" validate:"omitempty,min=1"`
	Location    string `json:"location,omitempty" validate:"omitempty,min=2,max=100"`
	Country     string `json:"country,omitempty" validate:"omitempty,min=2,max=60"`
}

// ListingSearch carries the public search filters: free-text location match
// and an optional nightly price band.
type ListingSearch struct {
	Location string
	MinPrice *int64
	MaxPrice *int64
}
