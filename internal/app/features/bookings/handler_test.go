package bookings_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/wayfarehq/wayfare/internal/app/features/bookings"
	bookingstore "github.com/wayfarehq/wayfare/internal/app/store/bookings"
	eventstore "github.com/wayfarehq/wayfare/internal/app/store/events"
	venuestore "github.com/wayfarehq/wayfare/internal/app/store/venues"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*bookings.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := bookings.NewHandler(bookingstore.New(db), eventstore.New(db), venuestore.New(db),
		httperr.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db), db
}

func TestHandleCreate_BooksVisibleEvent(t *testing.T) {
	h, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	ev := fx.CreateApprovedEvent(ctx, "Fado Evening", org.ID)

	body := map[string]any{"kind": "event", "resource_id": ev.ID.Hex(), "guests": 2}
	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/bookings", body), traveler)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var created models.Booking
	testutil.DecodeJSON(t, rec, &created)
	if created.Code == "" {
		t.Error("booking has no confirmation code")
	}
	if created.Status != models.BookingConfirmed {
		t.Errorf("status = %q, want confirmed", created.Status)
	}

	// The counter on the event advanced.
	got, err := eventstore.New(db).GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Bookings != 1 {
		t.Errorf("event bookings = %d, want 1", got.Bookings)
	}
}

func TestHandleCreate_PendingListingReadsAsNotFound(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	ev := fx.CreateEvent(ctx, "Unreviewed Tour", org.ID)

	body := map[string]any{"kind": "event", "resource_id": ev.ID.Hex(), "guests": 1}
	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/bookings", body), traveler)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandleCreate_FullEventIs409(t *testing.T) {
	h, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	ev := fx.CreateApprovedEvent(ctx, "Tiny Workshop", org.ID)

	// Fill the event to capacity.
	store := eventstore.New(db)
	if err := store.IncrementBookings(ctx, ev.ID, int64(ev.Capacity)); err != nil {
		t.Fatalf("IncrementBookings: %v", err)
	}

	body := map[string]any{"kind": "event", "resource_id": ev.ID.Hex(), "guests": 1}
	req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/bookings", body), traveler)
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHandleCreate_ConcurrentBookingsNeverOvershootCapacity(t *testing.T) {
	h, fx, db := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	ev := fx.CreateApprovedEvent(ctx, "Single-Seat Tasting", org.ID)
	if _, err := db.Collection("events").UpdateByID(ctx, ev.ID,
		bson.M{"$set": bson.M{"capacity": 1}}); err != nil {
		t.Fatalf("shrink capacity: %v", err)
	}

	const travelers = 4
	codes := make(chan int, travelers)
	var wg sync.WaitGroup
	for i := 0; i < travelers; i++ {
		traveler := fx.CreateTraveler(ctx, fmt.Sprintf("Traveler %d", i),
			fmt.Sprintf("traveler%d@example.com", i))
		wg.Add(1)
		go func(u models.User) {
			defer wg.Done()
			body := map[string]any{"kind": "event", "resource_id": ev.ID.Hex(), "guests": 1}
			req := testutil.WithSessionUser(testutil.NewJSONRequest(t, "POST", "/bookings", body), u)
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			codes <- rec.Code
		}(traveler)
	}
	wg.Wait()
	close(codes)

	var created, full int
	for code := range codes {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			full++
		default:
			t.Errorf("unexpected status %d", code)
		}
	}
	if created != 1 || full != travelers-1 {
		t.Fatalf("created = %d, full = %d, want 1 and %d", created, full, travelers-1)
	}

	got, err := eventstore.New(db).GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("reload event: %v", err)
	}
	if got.Bookings != 1 {
		t.Errorf("event bookings = %d, want 1", got.Bookings)
	}
	n, err := bookingstore.New(db).Count(ctx, bson.M{"resource_id": ev.ID})
	if err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if n != 1 {
		t.Errorf("stored bookings = %d, want 1", n)
	}
}

func TestHandleCancel_OnlyOwnBooking(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	other := fx.CreateTraveler(ctx, "Drew Smith", "drew@example.com")
	ev := fx.CreateApprovedEvent(ctx, "Fado Evening", org.ID)
	b := fx.CreateBooking(ctx, traveler.ID, ev.ID, models.BookingKindEvent)

	req := testutil.WithSessionUser(
		httptest.NewRequest("POST", "/bookings/"+b.ID.Hex()+"/cancel", nil), other)
	req = testutil.WithChiURLParam(req, "id", b.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleCancel(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for someone else's booking", rec.Code)
	}
}

func TestHandleCancel_TwiceIs409(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	ev := fx.CreateApprovedEvent(ctx, "Fado Evening", org.ID)
	b := fx.CreateBooking(ctx, traveler.ID, ev.ID, models.BookingKindEvent)

	cancelReq := func() *httptest.ResponseRecorder {
		req := testutil.WithSessionUser(
			httptest.NewRequest("POST", "/bookings/"+b.ID.Hex()+"/cancel", nil), traveler)
		req = testutil.WithChiURLParam(req, "id", b.ID.Hex())
		rec := httptest.NewRecorder()
		h.HandleCancel(rec, req)
		return rec
	}

	if rec := cancelReq(); rec.Code != http.StatusOK {
		t.Fatalf("first cancel status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := cancelReq(); rec.Code != http.StatusConflict {
		t.Fatalf("second cancel status = %d, want 409", rec.Code)
	}
}

func TestServeForResource_OwnerAndAdminOnly(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fx.CreateOrganizer(ctx, "Ana Reyes", "ana@example.com")
	rival := fx.CreateOrganizer(ctx, "Ben Okafor", "ben@example.com")
	admin := fx.CreateAdmin(ctx, "Site Admin", "admin@example.com")
	traveler := fx.CreateTraveler(ctx, "Cary Jones", "cary@example.com")
	ev := fx.CreateApprovedEvent(ctx, "Fado Evening", org.ID)
	fx.CreateBooking(ctx, traveler.ID, ev.ID, models.BookingKindEvent)

	forResource := func(u models.User) *httptest.ResponseRecorder {
		req := testutil.WithSessionUser(
			httptest.NewRequest("GET", "/bookings/for/event/"+ev.ID.Hex(), nil), u)
		req = testutil.WithChiURLParam(req, "kind", "event")
		req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeForResource(rec, req)
		return rec
	}

	if rec := forResource(org); rec.Code != http.StatusOK {
		t.Errorf("owner status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if rec := forResource(admin); rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
	if rec := forResource(rival); rec.Code != http.StatusNotFound {
		t.Errorf("rival organizer status = %d, want 404", rec.Code)
	}
}
