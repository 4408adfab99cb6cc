// internal/domain/models/booking.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking kinds: which collection ResourceID points into.
const (
	BookingKindEvent = "event"
	BookingKindVenue = "venue"
)

// Booking statuses.
const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Booking records a traveler's reservation against a publicly visible
// event or venue. Code is a UUID handed to the traveler as their
// confirmation reference.
type Booking struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code string             `bson:"code" json:"code"`

	Kind       string             `bson:"kind" json:"kind"` // event | venue
	ResourceID primitive.ObjectID `bson:"resource_id" json:"resource_id"`
	TravelerID primitive.ObjectID `bson:"traveler_id" json:"traveler_id"`

	Guests int    `bson:"guests" json:"guests"`
	Status string `bson:"status" json:"status"` // confirmed | cancelled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
