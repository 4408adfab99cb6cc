// Package moderation implements the approval state machine shared by event
// and venue listings.
//
// Every listing moves pending -> approved | rejected. Transitions out of
// pending are compare-and-set: the precondition is part of the update filter,
// so two concurrent moderators cannot both win, and an approve can never
// clobber a concurrent reject.
package moderation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when the listing does not exist.
	ErrNotFound = errors.New("listing not found")
	// ErrNotPending is returned when a transition requires the pending state
	// and the listing has already been decided.
	ErrNotPending = errors.New("listing is not pending review")
	// ErrEmptyReason is returned when a rejection has no reason after trimming.
	ErrEmptyReason = errors.New("rejection reason is required")
)

// Approve moves a pending listing to approved and clears any stale
// rejection reason. The pending precondition rides in the update filter.
func Approve(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) error {
	res := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "approval_status": models.ApprovalPending},
		bson.M{
			"$set":   bson.M{"approval_status": models.ApprovalApproved, "updated_at": time.Now()},
			"$unset": bson.M{"rejection_reason": ""},
		})
	return decideErr(ctx, coll, id, res.Err())
}

// Reject moves a pending listing to rejected, recording the reason.
// A blank reason fails before any database write.
func Reject(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}
	res := coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "approval_status": models.ApprovalPending},
		bson.M{"$set": bson.M{
			"approval_status":  models.ApprovalRejected,
			"rejection_reason": reason,
			"updated_at":       time.Now(),
		}})
	return decideErr(ctx, coll, id, res.Err())
}

// SetActive toggles a listing's active flag. There is no approval
// precondition: owners may deactivate a listing in any state, and an
// inactive approved listing simply drops out of public lists.
func SetActive(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, active bool) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetFeatured toggles a listing's featured flag. Callers are expected to
// have already checked moderation permission at the policy layer.
func SetFeatured(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, featured bool) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"featured": featured, "updated_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// decideErr maps a failed CAS update to ErrNotFound or ErrNotPending by
// checking whether the document exists at all.
func decideErr(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, err error) error {
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}
	lookupErr := coll.FindOne(ctx, bson.M{"_id": id}).Err()
	switch lookupErr {
	case nil:
		return ErrNotPending
	case mongo.ErrNoDocuments:
		return ErrNotFound
	default:
		return lookupErr
	}
}
