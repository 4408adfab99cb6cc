// internal/domain/models/venue.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical venue kind identifiers, stored in Venue.Kind.
const (
	VenueKindHotel      = "hotel"
	VenueKindRestaurant = "restaurant"
	VenueKindGem        = "gem" // "hidden gem" attraction
)

// VenueKinds is the full set of allowed venue kinds.
var VenueKinds = []string{
	VenueKindHotel,
	VenueKindRestaurant,
	VenueKindGem,
}

// IsValidVenueKind reports whether kind is a known venue kind.
func IsValidVenueKind(kind string) bool {
	for _, k := range VenueKinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Venue is a moderable place listing (hotel, restaurant, or hidden gem)
// created by a venue host. It follows the same visibility invariant as Event.
type Venue struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped

	Description string `bson:"description,omitempty" json:"description,omitempty"` // sanitized HTML
	Kind        string `bson:"kind" json:"kind"`

	City    string `bson:"city" json:"city"`
	CityCI  string `bson:"city_ci" json:"-"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`

	PriceCents int64 `bson:"price_cents,omitempty" json:"price_cents,omitempty"` // nightly / per-visit

	HostID primitive.ObjectID `bson:"host_id" json:"host_id"`

	ApprovalStatus  string `bson:"approval_status" json:"approval_status"`
	RejectionReason string `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	Active          bool   `bson:"active" json:"active"`
	Featured        bool   `bson:"featured" json:"featured"`

	Bookings int64 `bson:"bookings" json:"bookings"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PubliclyVisible reports whether the venue satisfies the public visibility
// invariant.
func (v Venue) PubliclyVisible() bool {
	return v.ApprovalStatus == ApprovalApproved && v.Active
}
