// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureVenues(ctx, db); err != nil {
		problems = append(problems, "venues: "+err.Error())
	}
	if err := ensureBookings(ctx, db); err != nil {
		problems = append(problems, "bookings: "+err.Error())
	}
	if err := ensureAppointments(ctx, db); err != nil {
		problems = append(problems, "appointments: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// Mongo/DocDB sometimes returns IndexOptionsConflict when an index with the
// same keys already exists under a different name (or options differ).
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}

func loadExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		start := time.Now()
		zap.L().Info("ensuring index",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))

		existing := loadExisting(ctx, coll)

		if ex, ok := existing[desiredSig]; ok {
			// Same key pattern exists already.
			if sameBoolPtr(desiredUnique, ex.Unique) {
				// Name alignment: if the name differs, drop and recreate with the desired name.
				if desiredName != "" && ex.Name != desiredName {
					if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename drop failed: %v", coll.Name(), desiredName, err))
						continue
					}
					if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
						errs = append(errs, fmt.Sprintf("%s(%s): rename create failed: %v", coll.Name(), desiredName, err))
						continue
					}
					zap.L().Info("index renamed",
						zap.String("collection", coll.Name()),
						zap.String("name", desiredName),
						zap.String("keys", desiredSig),
						zap.String("took", time.Since(start).String()))
					continue
				}

				// Names aligned (or we don't care), reuse
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig),
					zap.String("took", time.Since(start).String()))
				continue
			}

			// Options mismatch (e.g. upgrading to unique). Drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
			if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
				if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
					errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
				} else {
					errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
				}
				continue
			}
			zap.L().Info("index dropped and recreated",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.String("took", time.Since(start).String()))
			continue
		}

		// No existing index with the same keys: create it.
		if created, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isOptionsConflictErr(err) {
				// An index with these keys appeared under a different name or
				// options. Drop the conflicting one and try once more.
				if match, ok := loadExisting(ctx, coll)[desiredSig]; ok {
					if _, dropErr := coll.Indexes().DropOne(ctx, match.Name); dropErr != nil {
						zap.L().Warn("failed to drop conflicting index",
							zap.String("collection", coll.Name()),
							zap.String("name", match.Name),
							zap.Error(dropErr))
					}
					if _, retryErr := coll.Indexes().CreateOne(ctx, m); retryErr == nil {
						zap.L().Info("index dropped and recreated (post-conflict)",
							zap.String("collection", coll.Name()),
							zap.String("name", desiredName),
							zap.String("keys", desiredSig),
							zap.String("took", time.Since(start).String()))
						continue
					}
				}
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", desiredSig),
				zap.String("took", time.Since(start).String()),
				zap.Error(err))
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
		} else {
			zap.L().Info("index ensured",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("created_name", created),
				zap.String("keys", desiredSig),
				zap.String("took", time.Since(start).String()))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Email must be unique across all users (case/diacritics folded).
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_emailci"),
		},

		// Admin user lists: filter by role and status, sort by folded name
		// with a stable tiebreak.
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "status", Value: 1},
				{Key: "full_name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_status_fullnameci_id"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Public browse: only approved+active events, sorted by start date
		{
			Keys: bson.D{
				{Key: "approval_status", Value: 1},
				{Key: "active", Value: 1},
				{Key: "starts_at", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_events_approval_active_startsat_id"),
		},

		// Moderation queue: pending listings oldest-first
		{
			Keys: bson.D{
				{Key: "approval_status", Value: 1},
				{Key: "created_at", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_events_approval_createdat_id"),
		},

		// Organizer dashboard: listings by owner, newest first
		{
			Keys: bson.D{
				{Key: "organizer_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_events_organizer_createdat"),
		},

		// Title prefix search + stable sort
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_events_titleci__id"),
		},

		// City browse path
		{
			Keys:    bson.D{{Key: "city_ci", Value: 1}},
			Options: options.Index().SetName("idx_events_cityci"),
		},
	})
}

func ensureVenues(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("venues")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Public browse: approved+active venues by kind (hotel, restaurant, gem)
		{
			Keys: bson.D{
				{Key: "approval_status", Value: 1},
				{Key: "active", Value: 1},
				{Key: "kind", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_venues_approval_active_kind_nameci_id"),
		},

		// Moderation queue: pending listings oldest-first
		{
			Keys: bson.D{
				{Key: "approval_status", Value: 1},
				{Key: "created_at", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_venues_approval_createdat_id"),
		},

		// Host dashboard: listings by owner, newest first
		{
			Keys: bson.D{
				{Key: "host_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_venues_host_createdat"),
		},

		// City browse path
		{
			Keys:    bson.D{{Key: "city_ci", Value: 1}},
			Options: options.Index().SetName("idx_venues_cityci"),
		},
	})
}

func ensureBookings(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("bookings")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Booking confirmation codes are globally unique
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_bookings_code"),
		},

		// Traveler's bookings, newest first
		{
			Keys: bson.D{
				{Key: "traveler_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_bookings_traveler_createdat"),
		},

		// Bookings per event or venue (owner dashboards and counts)
		{
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_bookings_resource_status"),
		},
	})
}

func ensureAppointments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("appointments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Appointment confirmation codes are globally unique
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_appointments_code"),
		},

		// Doctor's schedule (upcoming first)
		{
			Keys: bson.D{
				{Key: "doctor_id", Value: 1},
				{Key: "at", Value: 1},
			},
			Options: options.Index().SetName("idx_appointments_doctor_at"),
		},

		// Traveler's appointments, newest first
		{
			Keys: bson.D{
				{Key: "traveler_id", Value: 1},
				{Key: "at", Value: -1},
			},
			Options: options.Index().SetName("idx_appointments_traveler_at"),
		},
	})
}
