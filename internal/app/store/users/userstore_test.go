package userstore_test

import (
	"testing"

	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreate_NormalizesAndFolds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName:   "  José García ",
		Email:      " Jose@Example.COM ",
		Role:       models.RoleOrganizer,
		AuthMethod: "password",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.FullName != "José García" {
		t.Errorf("FullName = %q, want trimmed", created.FullName)
	}
	if created.FullNameCI != "jose garcia" {
		t.Errorf("FullNameCI = %q, want folded", created.FullNameCI)
	}
	if created.Email != "jose@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.Status != models.StatusActive {
		t.Errorf("Status = %q, want active default", created.Status)
	}
}

func TestCreate_RejectsBadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{
		FullName: "Ann Chen",
		Email:    "ann@example.com",
		Role:     "superuser",
	})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCreate_StripsPermissionsForNonAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName:    "Bob Díaz",
		Email:       "bob@example.com",
		Role:        models.RoleTraveler,
		Permissions: []string{models.PermManageEvents},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(created.Permissions) != 0 {
		t.Errorf("expected permissions stripped for traveler, got %v", created.Permissions)
	}
}

func TestGetByEmail_CaseInsensitive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, models.User{
		FullName: "Ann Chen",
		Email:    "ann@example.com",
		Role:     models.RoleTraveler,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	u, err := store.GetByEmail(ctx, "ANN@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if u.FullName != "Ann Chen" {
		t.Errorf("got %q", u.FullName)
	}
}

func TestSetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Ann Chen",
		Email:    "ann@example.com",
		Role:     models.RoleTraveler,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetStatus(ctx, created.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	u, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if u.Status != models.StatusDisabled {
		t.Errorf("Status = %q, want disabled", u.Status)
	}

	if err := store.SetStatus(ctx, primitive.NewObjectID(), models.StatusActive); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for missing user, got %v", err)
	}
	if err := store.SetStatus(ctx, created.ID, "banned"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestSetPermissions_AdminOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin, err := store.Create(ctx, models.User{
		FullName: "Root Admin",
		Email:    "root@example.com",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create admin failed: %v", err)
	}
	traveler, err := store.Create(ctx, models.User{
		FullName: "Ann Chen",
		Email:    "ann@example.com",
		Role:     models.RoleTraveler,
	})
	if err != nil {
		t.Fatalf("Create traveler failed: %v", err)
	}

	if err := store.SetPermissions(ctx, admin.ID, []string{models.PermManageEvents, models.PermManageVenues}); err != nil {
		t.Fatalf("SetPermissions failed: %v", err)
	}
	u, err := store.GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(u.Permissions) != 2 {
		t.Errorf("expected 2 permissions, got %v", u.Permissions)
	}

	// A traveler never matches the admin-scoped update
	if err := store.SetPermissions(ctx, traveler.ID, []string{models.PermManageEvents}); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for non-admin, got %v", err)
	}

	if err := store.SetPermissions(ctx, admin.ID, []string{"launch_rockets"}); err == nil {
		t.Error("expected error for unknown permission")
	}
}

func TestFetcher_DisabledUserReturnsNil(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Ann Chen",
		Email:    "ann@example.com",
		Role:     models.RoleTraveler,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	su, err := fetcher.FetchSessionUser(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su == nil {
		t.Fatal("expected session user for active account")
	}
	if su.Role != models.RoleTraveler {
		t.Errorf("Role = %q", su.Role)
	}

	if err := store.SetStatus(ctx, created.ID, models.StatusDisabled); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	su, err = fetcher.FetchSessionUser(ctx, created.ID.Hex())
	if err != nil {
		t.Fatalf("FetchSessionUser failed: %v", err)
	}
	if su != nil {
		t.Error("expected nil session user for disabled account")
	}
}

func TestFetcher_UnknownAndMalformedIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fetcher := userstore.NewFetcher(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	su, err := fetcher.FetchSessionUser(ctx, primitive.NewObjectID().Hex())
	if err != nil || su != nil {
		t.Errorf("expected (nil, nil) for unknown user, got (%v, %v)", su, err)
	}

	su, err = fetcher.FetchSessionUser(ctx, "not-an-object-id")
	if err != nil || su != nil {
		t.Errorf("expected (nil, nil) for malformed id, got (%v, %v)", su, err)
	}
}
