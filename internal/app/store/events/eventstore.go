// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/wayfarehq/wayfare/internal/app/store/moderation"
	"github.com/wayfarehq/wayfare/internal/app/system/htmlsanitize"
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
	return &Store{c: db.Collection("events")}
}

// Collection exposes the underlying collection for the moderation state
// machine and index setup.
func (s *Store) Collection() *mongo.Collection { return s.c }

// ErrEventFull is returned when an increment would push the confirmed
// booking counter past the event's capacity.
var ErrEventFull = errors.New("event is at capacity")

var (
	errEmptyTitle  = errors.New("title is required")
	errEmptyCity   = errors.New("city is required")
	errNoStart     = errors.New("start time is required")
	errBadPrice    = errors.New("price must not be negative")
	errBadCapacity = errors.New("capacity must not be negative")
)

// Create inserts a new event listing. Every listing starts pending and
// active: visible to its organizer and moderators, invisible to the public
// until approved.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID()
	e.Title = strings.TrimSpace(e.Title)
	e.TitleCI = text.Fold(e.Title)
	e.City = strings.TrimSpace(e.City)
	e.CityCI = text.Fold(e.City)
	e.Description = htmlsanitize.Sanitize(e.Description)

	if e.Title == "" {
		return models.Event{}, errEmptyTitle
	}
	if e.City == "" {
		return models.Event{}, errEmptyCity
	}
	if e.StartsAt.IsZero() {
		return models.Event{}, errNoStart
	}
	if e.PriceCents < 0 {
		return models.Event{}, errBadPrice
	}
	if e.Capacity < 0 {
		return models.Event{}, errBadCapacity
	}

	e.ApprovalStatus = models.ApprovalPending
	e.RejectionReason = ""
	e.Active = true
	e.Featured = false
	e.Bookings = 0

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update modifies mutable listing fields with a selective $set and
// refreshes UpdatedAt. Moderation fields are never touched here; those go
// through the moderation package.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Event) error {
	set := bson.M{}
	if strings.TrimSpace(mut.Title) != "" {
		title := strings.TrimSpace(mut.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if strings.TrimSpace(mut.City) != "" {
		city := strings.TrimSpace(mut.City)
		set["city"] = city
		set["city_ci"] = text.Fold(city)
	}
	// Description, category, and venue can be cleared
	set["description"] = htmlsanitize.Sanitize(mut.Description)
	set["category"] = mut.Category
	set["venue"] = mut.Venue
	if !mut.StartsAt.IsZero() {
		set["starts_at"] = mut.StartsAt
	}
	set["ends_at"] = mut.EndsAt
	if mut.PriceCents < 0 {
		return errBadPrice
	}
	set["price_cents"] = mut.PriceCents
	if mut.Capacity < 0 {
		return errBadCapacity
	}
	set["capacity"] = mut.Capacity
	set["updated_at"] = time.Now()

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// GetByID returns an event by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Delete removes an event by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns events matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination,
// sorting, projection); policy scope filters come from eventpolicy.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Count returns the number of events matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Approve moves a pending event to approved.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) error {
	return moderation.Approve(ctx, s.c, id)
}

// Reject moves a pending event to rejected with the given reason.
func (s *Store) Reject(ctx context.Context, id primitive.ObjectID, reason string) error {
	return moderation.Reject(ctx, s.c, id, reason)
}

// SetActive toggles the listing's active flag.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	return moderation.SetActive(ctx, s.c, id, active)
}

// SetFeatured toggles the admin-only featured flag.
func (s *Store) SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error {
	return moderation.SetFeatured(ctx, s.c, id, featured)
}

// IncrementBookings adjusts the confirmed booking counter by delta
// (negative on cancellation). The counter never drops below zero, and a
// positive delta only matches while the event still has room, so two
// concurrent bookings cannot overshoot the capacity. Capacity zero means
// unlimited. Returns ErrEventFull when the event exists but has no room.
func (s *Store) IncrementBookings(ctx context.Context, id primitive.ObjectID, delta int64) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["bookings"] = bson.M{"$gte": -delta}
	}
	if delta > 0 {
		filter["$expr"] = bson.M{"$or": []bson.M{
			{"$lte": []any{"$capacity", 0}},
			{"$lte": []any{bson.M{"$add": []any{"$bookings", delta}}, "$capacity"}},
		}}
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"bookings": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if delta > 0 {
			switch lookupErr := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); lookupErr {
			case nil:
				return ErrEventFull
			case mongo.ErrNoDocuments:
				return mongo.ErrNoDocuments
			default:
				return lookupErr
			}
		}
		return mongo.ErrNoDocuments
	}
	return nil
}
