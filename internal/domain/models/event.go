// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a moderable marketplace listing created by an organizer.
//
// Visibility invariant: an event appears in public listings if and only if
// ApprovalStatus == "approved" AND Active == true. Events in any other state
// are visible only to their organizer and to admins.
type Event struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped

	Description string `bson:"description,omitempty" json:"description,omitempty"` // sanitized HTML
	Category    string `bson:"category,omitempty" json:"category,omitempty"`       // e.g. "festival", "tour", "concert"

	City   string `bson:"city" json:"city"`
	CityCI string `bson:"city_ci" json:"-"`
	Venue  string `bson:"venue,omitempty" json:"venue,omitempty"` // free-text location name

	StartsAt time.Time `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time `bson:"ends_at,omitempty" json:"ends_at,omitempty"`

	PriceCents int64 `bson:"price_cents" json:"price_cents"`
	Capacity   int   `bson:"capacity,omitempty" json:"capacity,omitempty"`

	OrganizerID primitive.ObjectID `bson:"organizer_id" json:"organizer_id"`

	ApprovalStatus  string `bson:"approval_status" json:"approval_status"`
	RejectionReason string `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"` // set only while rejected
	Active          bool   `bson:"active" json:"active"`
	Featured        bool   `bson:"featured" json:"featured"` // admin-only promotional flag

	Bookings int64 `bson:"bookings" json:"bookings"` // confirmed booking count

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PubliclyVisible reports whether the event satisfies the public visibility
// invariant.
func (e Event) PubliclyVisible() bool {
	return e.ApprovalStatus == ApprovalApproved && e.Active
}
