package moderation_test

import (
	"testing"
	"time"

	"github.com/wayfarehq/wayfare/internal/app/store/moderation"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func insertListing(t *testing.T, coll *mongo.Collection, status, reason string) primitive.ObjectID {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	doc := bson.M{
		"_id":             id,
		"title":           "Jazz Night",
		"approval_status": status,
		"active":          true,
		"updated_at":      time.Now().Add(-time.Hour),
	}
	if reason != "" {
		doc["rejection_reason"] = reason
	}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		t.Fatalf("insert listing: %v", err)
	}
	return id
}

func getListing(t *testing.T, coll *mongo.Collection, id primitive.ObjectID) bson.M {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var doc bson.M
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		t.Fatalf("load listing: %v", err)
	}
	return doc
}

func TestApprove_PendingListing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalPending, "")

	if err := moderation.Approve(ctx, coll, id); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	doc := getListing(t, coll, id)
	if doc["approval_status"] != models.ApprovalApproved {
		t.Errorf("approval_status = %v, want approved", doc["approval_status"])
	}
	if _, present := doc["rejection_reason"]; present {
		t.Error("expected rejection_reason to be cleared")
	}
}

func TestApprove_ClearsStaleReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A listing resubmitted after rejection carries its old reason until
	// the next decision.
	id := insertListing(t, coll, models.ApprovalPending, "blurry photos")

	if err := moderation.Approve(ctx, coll, id); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	doc := getListing(t, coll, id)
	if _, present := doc["rejection_reason"]; present {
		t.Error("expected stale rejection_reason removed on approval")
	}
}

func TestApprove_NonPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalRejected, "duplicate listing")

	if err := moderation.Approve(ctx, coll, id); err != moderation.ErrNotPending {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}

	// Losing transition leaves the document untouched
	doc := getListing(t, coll, id)
	if doc["approval_status"] != models.ApprovalRejected {
		t.Errorf("approval_status = %v, want rejected unchanged", doc["approval_status"])
	}
	if doc["rejection_reason"] != "duplicate listing" {
		t.Errorf("rejection_reason = %v, want unchanged", doc["rejection_reason"])
	}
}

func TestApprove_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := moderation.Approve(ctx, coll, primitive.NewObjectID()); err != moderation.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReject_RecordsReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("venues")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalPending, "")

	if err := moderation.Reject(ctx, coll, id, "  listing violates content policy  "); err != nil {
		t.Fatalf("Reject failed: %v", err)
	}

	doc := getListing(t, coll, id)
	if doc["approval_status"] != models.ApprovalRejected {
		t.Errorf("approval_status = %v, want rejected", doc["approval_status"])
	}
	if doc["rejection_reason"] != "listing violates content policy" {
		t.Errorf("rejection_reason = %v, want trimmed reason", doc["rejection_reason"])
	}
}

func TestReject_BlankReason(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("venues")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalPending, "")

	if err := moderation.Reject(ctx, coll, id, "   "); err != moderation.ErrEmptyReason {
		t.Fatalf("expected ErrEmptyReason, got %v", err)
	}

	// No state change on validation failure
	doc := getListing(t, coll, id)
	if doc["approval_status"] != models.ApprovalPending {
		t.Errorf("approval_status = %v, want pending unchanged", doc["approval_status"])
	}
}

func TestReject_NonPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("venues")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalApproved, "")

	if err := moderation.Reject(ctx, coll, id, "late report"); err != moderation.ErrNotPending {
		t.Fatalf("expected ErrNotPending, got %v", err)
	}
	doc := getListing(t, coll, id)
	if doc["approval_status"] != models.ApprovalApproved {
		t.Errorf("approval_status = %v, want approved unchanged", doc["approval_status"])
	}
}

func TestSetActive_AnyState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalRejected, "spam")

	if err := moderation.SetActive(ctx, coll, id, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	doc := getListing(t, coll, id)
	if doc["active"] != false {
		t.Errorf("active = %v, want false", doc["active"])
	}
	// Approval state untouched by the toggle
	if doc["approval_status"] != models.ApprovalRejected {
		t.Errorf("approval_status = %v, want rejected", doc["approval_status"])
	}

	if err := moderation.SetActive(ctx, coll, primitive.NewObjectID(), true); err != moderation.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetFeatured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalApproved, "")

	if err := moderation.SetFeatured(ctx, coll, id, true); err != nil {
		t.Fatalf("SetFeatured failed: %v", err)
	}
	doc := getListing(t, coll, id)
	if doc["featured"] != true {
		t.Errorf("featured = %v, want true", doc["featured"])
	}

	if err := moderation.SetFeatured(ctx, coll, primitive.NewObjectID(), true); err != moderation.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTransitions_BumpUpdatedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	coll := db.Collection("events")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := insertListing(t, coll, models.ApprovalPending, "")
	before := getListing(t, coll, id)["updated_at"].(primitive.DateTime).Time()

	if err := moderation.Approve(ctx, coll, id); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	after := getListing(t, coll, id)["updated_at"].(primitive.DateTime).Time()
	if !after.After(before) {
		t.Errorf("updated_at not bumped: before=%v after=%v", before, after)
	}
}
