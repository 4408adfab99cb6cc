// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/wayfarehq/wayfare/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	// helper: ensure collection exists (with truthful logging) and then validator (if provided)
	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			// DocumentDB or other deployments may not support collMod/validators.
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("events", eventsSchema())
	ensure("venues", venuesSchema())
	ensure("bookings", bookingsSchema())
	ensure("appointments", appointmentsSchema())

	// Audit entries don't strictly need a validator; we still ensure the collection exists.
	ensure("audit_entries", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func enumOf(vals []string) bson.A {
	out := bson.A{}
	for _, v := range vals {
		out = append(out, v)
	}
	return out
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "role", "status", "auth_method"},
			"properties": bson.M{
				"full_name":    bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"full_name_ci": bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"email":        bson.M{"bsonType": "string", "minLength": 3},
				"email_ci":     bson.M{"bsonType": "string", "minLength": 3},
				"role":         bson.M{"enum": enumOf(models.Roles)},
				"status":       bson.M{"enum": bson.A{"active", "disabled"}},
				"auth_method":  bson.M{"enum": bson.A{"password", "google"}},
				"permissions":  bson.M{"bsonType": "array", "items": bson.M{"enum": enumOf(models.Permissions)}},
			},
		},
	}
}

func eventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "title_ci", "organizer_id", "approval_status"},
			"properties": bson.M{
				"title":            bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"title_ci":         bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"organizer_id":     bson.M{"bsonType": "objectId"},
				"approval_status":  bson.M{"enum": enumOf(models.ApprovalStatuses)},
				"rejection_reason": bson.M{"bsonType": "string"},
				"active":           bson.M{"bsonType": "bool"},
				"featured":         bson.M{"bsonType": "bool"},
				"price_cents":      bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
				"capacity":         bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
				"bookings":         bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 0},
			},
		},
	}
}

func venuesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "kind", "host_id", "approval_status"},
			"properties": bson.M{
				"name":             bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"name_ci":          bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"},
				"kind":             bson.M{"enum": bson.A{"hotel", "restaurant", "gem"}},
				"host_id":          bson.M{"bsonType": "objectId"},
				"approval_status":  bson.M{"enum": enumOf(models.ApprovalStatuses)},
				"rejection_reason": bson.M{"bsonType": "string"},
				"active":           bson.M{"bsonType": "bool"},
			},
		},
	}
}

func bookingsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"code", "kind", "resource_id", "traveler_id", "status"},
			"properties": bson.M{
				"code":        bson.M{"bsonType": "string", "minLength": 1},
				"kind":        bson.M{"enum": bson.A{"event", "venue"}},
				"resource_id": bson.M{"bsonType": "objectId"},
				"traveler_id": bson.M{"bsonType": "objectId"},
				"guests":      bson.M{"bsonType": bson.A{"long", "int"}, "minimum": 1},
				"status":      bson.M{"enum": bson.A{"confirmed", "cancelled"}},
			},
		},
	}
}

func appointmentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"code", "doctor_id", "traveler_id", "at", "status"},
			"properties": bson.M{
				"code":        bson.M{"bsonType": "string", "minLength": 1},
				"doctor_id":   bson.M{"bsonType": "objectId"},
				"traveler_id": bson.M{"bsonType": "objectId"},
				"at":          bson.M{"bsonType": "date"},
				"reason":      bson.M{"bsonType": "string"},
				"status":      bson.M{"enum": bson.A{"scheduled", "completed", "cancelled"}},
			},
		},
	}
}
