package appointments_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/wayfarehq/wayfare/internal/app/features/appointments"
	appointmentstore "github.com/wayfarehq/wayfare/internal/app/store/appointments"
	userstore "github.com/wayfarehq/wayfare/internal/app/store/users"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*appointments.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := appointments.NewHandler(appointmentstore.New(db), userstore.New(db),
		httperr.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db), db
}

func TestHandleCreate_BooksActiveDoctor(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	doctor := fx.CreateDoctor(ctx, "Dr. Elena Vasquez", "elena@example.com")

	body := map[string]any{
		"doctor_id": doctor.ID.Hex(),
		"at":        time.Now().Add(72 * time.Hour).Format(time.RFC3339),
		"reason":    "altitude sickness consult",
	}
	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/appointments", body), traveler)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Appointment
	testutil.DecodeJSON(t, rec, &created)
	if created.Status != models.AppointmentScheduled {
		t.Errorf("status = %q, want scheduled", created.Status)
	}
	if created.Code == "" {
		t.Error("appointment has no reference code")
	}
}

func TestHandleCreate_NonDoctorTargetIs404(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	organizer := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")

	body := map[string]any{
		"doctor_id": organizer.ID.Hex(),
		"at":        time.Now().Add(72 * time.Hour).Format(time.RFC3339),
	}
	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/appointments", body), traveler)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleComplete_TravelerCannotComplete(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	doctor := fx.CreateDoctor(ctx, "Dr. Elena Vasquez", "elena@example.com")
	appt := fx.CreateAppointment(ctx, traveler.ID, doctor.ID)

	req := testutil.WithSessionUser(
		httptest.NewRequest("POST", "/appointments/"+appt.ID.Hex()+"/complete", nil), traveler)
	req = testutil.WithChiURLParam(req, "id", appt.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleComplete(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestHandleComplete_DoctorCompletesOnce(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	doctor := fx.CreateDoctor(ctx, "Dr. Elena Vasquez", "elena@example.com")
	appt := fx.CreateAppointment(ctx, traveler.ID, doctor.ID)

	complete := func() *httptest.ResponseRecorder {
		req := testutil.WithSessionUser(
			httptest.NewRequest("POST", "/appointments/"+appt.ID.Hex()+"/complete", nil), doctor)
		req = testutil.WithChiURLParam(req, "id", appt.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleComplete(rec, req)
		return rec
	}

	if rec := complete(); rec.Code != http.StatusOK {
		t.Fatalf("first complete status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := complete(); rec.Code != http.StatusConflict {
		t.Fatalf("second complete status = %d, want 409", rec.Code)
	}
}

func TestHandleCancel_EitherPartyButNoStranger(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	doctor := fx.CreateDoctor(ctx, "Dr. Elena Vasquez", "elena@example.com")
	stranger := fx.CreateTraveler(ctx, "Drew Smith", "drew@example.com")

	cancelAs := func(u models.User, appt models.Appointment) *httptest.ResponseRecorder {
		req := testutil.WithSessionUser(
			httptest.NewRequest("POST", "/appointments/"+appt.ID.Hex()+"/cancel", nil), u)
		req = testutil.WithChiURLParam(req, "id", appt.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleCancel(rec, req)
		return rec
	}

	first := fx.CreateAppointment(ctx, traveler.ID, doctor.ID)
	if rec := cancelAs(stranger, first); rec.Code != http.StatusNotFound {
		t.Errorf("stranger cancel status = %d, want 404", rec.Code)
	}
	if rec := cancelAs(traveler, first); rec.Code != http.StatusOK {
		t.Errorf("traveler cancel status = %d, want 200", rec.Code)
	}

	second := fx.CreateAppointment(ctx, traveler.ID, doctor.ID)
	if rec := cancelAs(doctor, second); rec.Code != http.StatusOK {
		t.Errorf("doctor cancel status = %d, want 200", rec.Code)
	}
}

func TestServeDoctor_ListsSchedule(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	doctor := fx.CreateDoctor(ctx, "Dr. Elena Vasquez", "elena@example.com")
	otherDoctor := fx.CreateDoctor(ctx, "Dr. Femi Adeyemi", "femi@example.com")
	fx.CreateAppointment(ctx, traveler.ID, doctor.ID)
	fx.CreateAppointment(ctx, traveler.ID, otherDoctor.ID)

	req := testutil.WithSessionUser(httptest.NewRequest("GET", "/appointments/doctor", nil), doctor)
	rec := httptest.NewRecorder()
	h.ServeDoctor(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var rows []models.Appointment
	testutil.DecodeJSON(t, rec, &rows)
	if len(rows) != 1 {
		t.Fatalf("got %d appointments, want only this doctor's 1", len(rows))
	}
	if rows[0].DoctorID != doctor.ID {
		t.Errorf("appointment doctor = %s, want %s", rows[0].DoctorID.Hex(), doctor.ID.Hex())
	}
}
