// internal/domain/models/appointment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a medical consultation booked by a traveler with a doctor.
// Appointments are private to the two parties (and admins); they are never
// subject to moderation or public listing.
type Appointment struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code string             `bson:"code" json:"code"` // UUID reference shared with the traveler

	DoctorID   primitive.ObjectID `bson:"doctor_id" json:"doctor_id"`
	TravelerID primitive.ObjectID `bson:"traveler_id" json:"traveler_id"`

	Reason string    `bson:"reason,omitempty" json:"reason,omitempty"`
	At     time.Time `bson:"at" json:"at"`

	Status string `bson:"status" json:"status"` // scheduled | completed | cancelled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
