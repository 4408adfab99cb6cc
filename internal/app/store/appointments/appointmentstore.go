// internal/app/store/appointments/appointmentstore.go
package appointmentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("appointments")}
}

var (
	// ErrNotScheduled is returned when completing or cancelling an
	// appointment that has already been decided.
	ErrNotScheduled = errors.New("appointment is not scheduled")
	errNoTime       = errors.New("appointment time is required")
	errPastTime     = errors.New("appointment time must be in the future")
)

// Create inserts a scheduled appointment with a fresh confirmation code.
// The caller has already verified the doctor exists and is active.
func (s *Store) Create(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	if a.At.IsZero() {
		return models.Appointment{}, errNoTime
	}
	if a.At.Before(time.Now()) {
		return models.Appointment{}, errPastTime
	}

	a.ID = primitive.NewObjectID()
	a.Code = uuid.NewString()
	a.Reason = strings.TrimSpace(a.Reason)
	a.Status = models.AppointmentScheduled

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}

// GetByID returns an appointment by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Appointment, error) {
	var a models.Appointment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}

// Complete moves a scheduled appointment to completed. The scheduled
// precondition rides in the update filter.
func (s *Store) Complete(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx, id, models.AppointmentCompleted)
}

// Cancel moves a scheduled appointment to cancelled.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID) error {
	return s.transition(ctx, id, models.AppointmentCancelled)
}

func (s *Store) transition(ctx context.Context, id primitive.ObjectID, to string) error {
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.AppointmentScheduled},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now()}})
	if err := res.Err(); err != nil {
		if err != mongo.ErrNoDocuments {
			return err
		}
		lookupErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
		switch lookupErr {
		case nil:
			return ErrNotScheduled
		case mongo.ErrNoDocuments:
			return mongo.ErrNoDocuments
		default:
			return lookupErr
		}
	}
	return nil
}

// ByTraveler returns a traveler's appointments, newest first.
func (s *Store) ByTraveler(ctx context.Context, travelerID primitive.ObjectID) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}})
	return s.Find(ctx, bson.M{"traveler_id": travelerID}, opts)
}

// ByDoctor returns a doctor's appointments in schedule order.
func (s *Store) ByDoctor(ctx context.Context, doctorID primitive.ObjectID) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: 1}})
	return s.Find(ctx, bson.M{"doctor_id": doctorID}, opts)
}

// Find returns appointments matching a caller-built filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Appointment, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// Count returns the number of appointments matching a caller-built filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
