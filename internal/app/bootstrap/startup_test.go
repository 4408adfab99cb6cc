package bootstrap

import (
	"testing"

	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureRootAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureRootAdmin(ctx, deps, "root@wayfare.test", testLogger()); err != nil {
		t.Fatalf("ensureRootAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email_ci": "root@wayfare.test"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	if user.Status != models.StatusActive {
		t.Errorf("expected status active, got %q", user.Status)
	}
	if user.AuthMethod != "google" {
		t.Errorf("expected auth method google, got %q", user.AuthMethod)
	}
	if user.PasswordHash != "" {
		t.Error("expected created root admin to have no password")
	}
	for _, perm := range models.Permissions {
		if !user.HasPermission(perm) {
			t.Errorf("expected root admin to hold %q", perm)
		}
	}
}

func TestEnsureRootAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateOrganizer(ctx, "Lena Root", "lena@wayfare.test")

	deps := DBDeps{MongoDatabase: db}

	if err := ensureRootAdmin(ctx, deps, "LENA@wayfare.test", testLogger()); err != nil {
		t.Fatalf("ensureRootAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected promotion to admin, got %q", user.Role)
	}
	if !user.HasPermission(models.PermManageAdmins) {
		t.Error("expected promoted root admin to hold manage_admins")
	}
	if user.FullName != "Lena Root" {
		t.Errorf("expected name to be preserved, got %q", user.FullName)
	}
}

func TestEnsureRootAdmin_GrantsMissingPermissions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateAdmin(ctx, "Partial Admin", "partial@wayfare.test", models.PermManageEvents)

	deps := DBDeps{MongoDatabase: db}

	if err := ensureRootAdmin(ctx, deps, "partial@wayfare.test", testLogger()); err != nil {
		t.Fatalf("ensureRootAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	for _, perm := range models.Permissions {
		if !user.HasPermission(perm) {
			t.Errorf("expected root admin to hold %q after bootstrap", perm)
		}
	}
}

func TestEnsureRootAdmin_AlreadyComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateAdmin(ctx, "Full Admin", "full@wayfare.test", models.Permissions...)

	var before models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&before); err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	deps := DBDeps{MongoDatabase: db}

	if err := ensureRootAdmin(ctx, deps, "full@wayfare.test", testLogger()); err != nil {
		t.Fatalf("ensureRootAdmin failed: %v", err)
	}

	var after models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&after); err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("expected an already-complete root admin to be left untouched")
	}
}
