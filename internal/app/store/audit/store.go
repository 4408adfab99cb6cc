// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories
const (
	CategoryAuth       = "auth"
	CategoryModeration = "moderation"
	CategoryAdmin      = "admin"
)

// Auth event types
const (
	EventLoginSuccess             = "login_success"
	EventLoginFailedUserNotFound  = "login_failed_user_not_found"
	EventLoginFailedWrongPassword = "login_failed_wrong_password"
	EventLoginFailedUserDisabled  = "login_failed_user_disabled"
	EventLogout                   = "logout"
	EventSignup                   = "signup"
	EventGoogleSignIn             = "google_sign_in"
)

// Moderation event types
const (
	EventEventApproved    = "event_approved"
	EventEventRejected    = "event_rejected"
	EventEventActivated   = "event_activated"
	EventEventDeactivated = "event_deactivated"
	EventEventFeatured    = "event_featured"
	EventEventUnfeatured  = "event_unfeatured"
	EventVenueApproved    = "venue_approved"
	EventVenueRejected    = "venue_rejected"
	EventVenueActivated   = "venue_activated"
	EventVenueDeactivated = "venue_deactivated"
	EventVenueFeatured    = "venue_featured"
	EventVenueUnfeatured  = "venue_unfeatured"
)

// Admin event types
const (
	EventUserDisabled       = "user_disabled"
	EventUserEnabled        = "user_enabled"
	EventPermissionsChanged = "permissions_changed"
	EventAdminCreated       = "admin_created"
)

// Entry represents a single audit record.
type Entry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`

	// Event classification
	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	// Who performed the action and who or what it affected.
	ActorID    *primitive.ObjectID `bson:"actor_id,omitempty"`
	UserID     *primitive.ObjectID `bson:"user_id,omitempty"`
	ResourceID *primitive.ObjectID `bson:"resource_id,omitempty"`

	// Request context
	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	// Outcome
	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	// Additional details (varies by event type)
	Details map[string]string `bson:"details,omitempty"`
}

// QueryFilter defines filters for querying audit entries.
type QueryFilter struct {
	ActorID    *primitive.ObjectID
	UserID     *primitive.ObjectID
	ResourceID *primitive.ObjectID
	Category   string
	EventType  string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

// Store manages audit records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_entries")}
}

// EnsureIndexes creates the indexes used by audit queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Query by time range (most recent first)
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		// Query by actor
		{
			Keys: bson.D{
				{Key: "actor_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		// Query by moderated resource
		{
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
		// Query by event type
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "event_type", Value: 1},
				{Key: "timestamp", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit entry.
func (s *Store) Log(ctx context.Context, entry Entry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.c.InsertOne(ctx, entry)
	return err
}

func (f QueryFilter) query() bson.M {
	query := bson.M{}

	if f.ActorID != nil {
		query["actor_id"] = f.ActorID
	}
	if f.UserID != nil {
		query["user_id"] = f.UserID
	}
	if f.ResourceID != nil {
		query["resource_id"] = f.ResourceID
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.EventType != "" {
		query["event_type"] = f.EventType
	}

	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["timestamp"] = timeQuery
	}

	return query
}

// Query retrieves audit entries matching the given filter.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByFilter returns the count of entries matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetByActor retrieves recent audit entries for a specific actor.
func (s *Store) GetByActor(ctx context.Context, actorID primitive.ObjectID, limit int64) ([]Entry, error) {
	return s.Query(ctx, QueryFilter{
		ActorID: &actorID,
		Limit:   limit,
	})
}

// GetByResource retrieves the moderation history of a specific resource.
func (s *Store) GetByResource(ctx context.Context, resourceID primitive.ObjectID, limit int64) ([]Entry, error) {
	return s.Query(ctx, QueryFilter{
		ResourceID: &resourceID,
		Limit:      limit,
	})
}

// GetRecent retrieves the most recent audit entries.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Entry, error) {
	return s.Query(ctx, QueryFilter{
		Limit: limit,
	})
}

// GetFailedLogins retrieves recent failed login attempts.
func (s *Store) GetFailedLogins(ctx context.Context, since time.Time, limit int64) ([]Entry, error) {
	query := bson.M{
		"category": CategoryAuth,
		"success":  false,
		"event_type": bson.M{
			"$in": []string{
				EventLoginFailedUserNotFound,
				EventLoginFailedWrongPassword,
				EventLoginFailedUserDisabled,
			},
		},
		"timestamp": bson.M{"$gte": since},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
