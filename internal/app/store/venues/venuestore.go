// internal/app/store/venues/venuestore.go
package venuestore

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
	return &Store{c: db.Collection("venues")}
}

// Collection exposes the underlying collection for the moderation state
// machine and index setup.
func (s *Store) Collection() *mongo.Collection { return s.c }

var (
	errEmptyName = errors.New("name is required")
	errEmptyCity = errors.New("city is required")
	errBadKind   = errors.New(`kind must be "hotel"|"restaurant"|"gem"`)
	errBadPrice  = errors.New("price must not be negative")
)

// Create inserts a new venue listing. Listings start pending and active,
// same as events.
func (s *Store) Create(ctx context.Context, v models.Venue) (models.Venue, error) {
	v.ID = primitive.NewObjectID()
	v.Name = strings.TrimSpace(v.Name)
	v.NameCI = text.Fold(v.Name)
	v.City = strings.TrimSpace(v.City)
	v.CityCI = text.Fold(v.City)
	v.Description = htmlsanitize.Sanitize(v.Description)

	if v.Name == "" {
		return models.Venue{}, errEmptyName
	}
	if v.City == "" {
		return models.Venue{}, errEmptyCity
	}
	if !models.IsValidVenueKind(v.Kind) {
		return models.Venue{}, errBadKind
	}
	if v.PriceCents < 0 {
		return models.Venue{}, errBadPrice
	}

	v.ApprovalStatus = models.ApprovalPending
	v.RejectionReason = ""
	v.Active = true
	v.Featured = false
	v.Bookings = 0

	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Venue{}, err
	}
	return v, nil
}

// Update modifies mutable listing fields with a selective $set and
// refreshes UpdatedAt. Moderation fields go through the moderation package.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Venue) error {
	set := bson.M{}
	if strings.TrimSpace(mut.Name) != "" {
		name := strings.TrimSpace(mut.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if strings.TrimSpace(mut.City) != "" {
		city := strings.TrimSpace(mut.City)
		set["city"] = city
		set["city_ci"] = text.Fold(city)
	}
	if mut.Kind != "" {
		if !models.IsValidVenueKind(mut.Kind) {
			return errBadKind
		}
		set["kind"] = mut.Kind
	}
	// Description and address can be cleared
	set["description"] = htmlsanitize.Sanitize(mut.Description)
	set["address"] = mut.Address
	if mut.PriceCents < 0 {
		return errBadPrice
	}
	set["price_cents"] = mut.PriceCents
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

// GetByID returns a venue by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Venue, error) {
	var v models.Venue
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return models.Venue{}, err
	}
	return v, nil
}

// Delete removes a venue by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Find returns venues matching the given filter with optional find options.
// Policy scope filters come from venuepolicy.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Venue, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var venues []models.Venue
	if err := cur.All(ctx, &venues); err != nil {
		return nil, err
	}
	return venues, nil
}

// Count returns the number of venues matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Approve moves a pending venue to approved.
func (s *Store) Approve(ctx context.Context, id primitive.ObjectID) error {
	return moderation.Approve(ctx, s.c, id)
}

// Reject moves a pending venue to rejected with the given reason.
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
// (negative on cancellation). The counter never drops below zero.
func (s *Store) IncrementBookings(ctx context.Context, id primitive.ObjectID, delta int64) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["bookings"] = bson.M{"$gte": -delta}
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"bookings": delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
