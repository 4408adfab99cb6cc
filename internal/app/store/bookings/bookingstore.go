// internal/app/store/bookings/bookingstore.go
package bookingstore

import (
	"context"
	"errors"
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
	return &Store{c: db.Collection("bookings")}
}

var (
	// ErrAlreadyCancelled is returned when cancelling a booking that is not confirmed.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	errBadKind          = errors.New(`kind must be "event"|"venue"`)
	errBadGuests        = errors.New("guests must be at least 1")
)

// Create inserts a confirmed booking with a fresh confirmation code.
// The caller has already verified the target listing is publicly visible.
func (s *Store) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	if b.Kind != models.BookingKindEvent && b.Kind != models.BookingKindVenue {
		return models.Booking{}, errBadKind
	}
	if b.Guests < 1 {
		return models.Booking{}, errBadGuests
	}

	b.ID = primitive.NewObjectID()
	b.Code = uuid.NewString()
	b.Status = models.BookingConfirmed

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// GetByID returns a booking by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Booking, error) {
	var b models.Booking
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// GetByCode returns a booking by its confirmation code.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Booking, error) {
	var b models.Booking
	if err := s.c.FindOne(ctx, bson.M{"code": code}).Decode(&b); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

// Cancel moves a confirmed booking to cancelled. The confirmed precondition
// rides in the update filter so a double-cancel cannot decrement listing
// counters twice.
func (s *Store) Cancel(ctx context.Context, id primitive.ObjectID) error {
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.BookingConfirmed},
		bson.M{"$set": bson.M{"status": models.BookingCancelled, "updated_at": time.Now()}})
	if err := res.Err(); err != nil {
		if err != mongo.ErrNoDocuments {
			return err
		}
		lookupErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
		switch lookupErr {
		case nil:
			return ErrAlreadyCancelled
		case mongo.ErrNoDocuments:
			return mongo.ErrNoDocuments
		default:
			return lookupErr
		}
	}
	return nil
}

// ByTraveler returns a traveler's bookings, newest first.
func (s *Store) ByTraveler(ctx context.Context, travelerID primitive.ObjectID) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.Find(ctx, bson.M{"traveler_id": travelerID}, opts)
}

// ByResource returns the bookings for one listing, optionally filtered by status.
func (s *Store) ByResource(ctx context.Context, resourceID primitive.ObjectID, status string) ([]models.Booking, error) {
	filter := bson.M{"resource_id": resourceID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.Find(ctx, filter, opts)
}

// Find returns bookings matching a caller-built filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Booking, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// Count returns the number of bookings matching a caller-built filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// RevenueSummary aggregates the confirmed bookings for one listing kind.
// RevenueCents multiplies each booking's guest count by the listing's
// current price, so repricing a listing restates history.
type RevenueSummary struct {
	Kind         string `bson:"-" json:"kind"`
	Bookings     int64  `bson:"bookings" json:"bookings"`
	Guests       int64  `bson:"guests" json:"guests"`
	RevenueCents int64  `bson:"revenue_cents" json:"revenue_cents"`
}

// RevenueByKind sums confirmed bookings against the priced listings they
// reference. Bookings whose listing has been deleted drop out of the join
// and are not counted.
func (s *Store) RevenueByKind(ctx context.Context, kind string) (RevenueSummary, error) {
	var from string
	switch kind {
	case models.BookingKindEvent:
		from = "events"
	case models.BookingKindVenue:
		from = "venues"
	default:
		return RevenueSummary{}, errBadKind
	}

	pipeline := []bson.M{
		{"$match": bson.M{"kind": kind, "status": models.BookingConfirmed}},
		{"$lookup": bson.M{
			"from":         from,
			"localField":   "resource_id",
			"foreignField": "_id",
			"as":           "listing",
		}},
		{"$unwind": "$listing"},
		{"$group": bson.M{
			"_id":      nil,
			"bookings": bson.M{"$sum": 1},
			"guests":   bson.M{"$sum": "$guests"},
			"revenue_cents": bson.M{"$sum": bson.M{
				"$multiply": []interface{}{"$guests", "$listing.price_cents"},
			}},
		}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return RevenueSummary{}, err
	}
	defer cur.Close(ctx)

	summary := RevenueSummary{Kind: kind}
	if cur.Next(ctx) {
		if err := cur.Decode(&summary); err != nil {
			return RevenueSummary{}, err
		}
		summary.Kind = kind
	}
	return summary, cur.Err()
}
