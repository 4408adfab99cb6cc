package adminusers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wayfarehq/wayfare/internal/app/features/adminusers"
	"github.com/wayfarehq/wayfare/internal/app/store/audit"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/auditlog"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*adminusers.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := adminusers.NewHandler(userstore.New(db),
		httperr.NewErrorLogger(logger),
		auditlog.New(audit.New(db), logger, auditlog.Config{Admin: "db"}),
		logger)
	return h, testutil.NewFixtures(t, db), db
}

func TestServeList_RequiresManageUsers(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Admin with a different permission cannot list accounts.
	admin := fx.CreateAdmin(ctx, "Event Admin", "eadmin@example.com", models.PermManageEvents)

	req := testutil.WithSessionUser(httptest.NewRequest("GET", "/admin/users", nil), admin)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestServeList_FiltersByRole(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "User Admin", "uadmin@example.com", models.PermManageUsers)
	fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	fx.CreateDoctor(ctx, "Dr. Elena Vasquez", "elena@example.com")

	req := testutil.WithSessionUser(httptest.NewRequest("GET", "/admin/users?role=doctor", nil), admin)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var page struct {
		Items []models.User `json:"items"`
	}
	testutil.DecodeJSON(t, rec, &page)
	if len(page.Items) != 1 || page.Items[0].Role != models.RoleDoctor {
		t.Fatalf("items = %+v, want only the doctor", page.Items)
	}
}

func TestHandleSetStatus_DisablesUser(t *testing.T) {
	h, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "User Admin", "uadmin@example.com", models.PermManageUsers)
	target := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")

	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST",
		"/admin/users/"+target.ID.Hex()+"/status", map[string]bool{"disabled": true}), admin)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSetStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got, err := userstore.New(db).GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.StatusDisabled {
		t.Errorf("user status = %q, want disabled", got.Status)
	}
}

func TestHandleSetStatus_CannotDisableSelf(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "User Admin", "uadmin@example.com", models.PermManageUsers)

	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST",
		"/admin/users/"+admin.ID.Hex()+"/status", map[string]bool{"disabled": true}), admin)
	req = testutil.WithChiURLParam(req, "id", admin.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSetStatus(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHandleSetStatus_AdminTargetNeedsManageAdmins(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "User Admin", "uadmin@example.com", models.PermManageUsers)
	target := fx.CreateAdmin(ctx, "Other Admin", "other@example.com", models.PermManageEvents)

	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST",
		"/admin/users/"+target.ID.Hex()+"/status", map[string]bool{"disabled": true}), admin)
	req = testutil.WithChiURLParam(req, "id", target.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSetStatus(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandleSetPermissions_NonAdminTargetIs404(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Root Admin", "root@example.com", models.PermManageAdmins)
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")

	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "PUT",
		"/admin/users/"+traveler.ID.Hex()+"/permissions",
		map[string][]string{"permissions": {models.PermManageEvents}}), admin)
	req = testutil.WithChiURLParam(req, "id", traveler.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleSetPermissions(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleCreateAdmin_GrantsPermissions(t *testing.T) {
	h, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateAdmin(ctx, "Root Admin", "root@example.com", models.PermManageAdmins)

	body := map[string]any{
		"full_name":   "New Moderator",
		"email":       "mod@example.com",
		"password":    "sunny4beach",
		"permissions": []string{models.PermManageEvents, models.PermManageVenues},
	}
	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/admin/users", body), admin)
	rec := httptest.NewRecorder()
	h.HandleCreateAdmin(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.User
	testutil.DecodeJSON(t, rec, &created)
	if created.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", created.Role)
	}

	got, err := userstore.New(db).GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.HasPermission(models.PermManageEvents) || !got.HasPermission(models.PermManageVenues) {
		t.Errorf("permissions = %v", got.Permissions)
	}
}
