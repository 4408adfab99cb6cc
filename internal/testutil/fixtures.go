package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calling it again adds to the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role. Admin permissions, if
// any, go in perms.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role string, perms ...string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FullName:    fullName,
		FullNameCI:  text.Fold(fullName),
		Email:       email,
		EmailCI:     text.Fold(email),
		AuthMethod:  "password",
		Role:        role,
		Status:      models.StatusActive,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin inserts an admin holding the given permissions.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string, perms ...string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleAdmin, perms...)
}

// CreateTraveler inserts a traveler account.
func (f *Fixtures) CreateTraveler(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleTraveler)
}

// CreateOrganizer inserts an organizer account.
func (f *Fixtures) CreateOrganizer(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleOrganizer)
}

// CreateVenueHost inserts a venue host account.
func (f *Fixtures) CreateVenueHost(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleVenueHost)
}

// CreateDoctor inserts a doctor account.
func (f *Fixtures) CreateDoctor(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, models.RoleDoctor)
}

// CreateDisabledUser inserts a traveler whose account is disabled.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	u := f.CreateTraveler(ctx, fullName, email)
	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID,
		map[string]any{"$set": map[string]any{"status": models.StatusDisabled}})
	if err != nil {
		f.t.Fatalf("failed to disable test user: %v", err)
	}
	u.Status = models.StatusDisabled
	return u
}

// CreateEvent inserts a pending, active event owned by organizerID.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, organizerID primitive.ObjectID) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:             primitive.NewObjectID(),
		Title:          title,
		TitleCI:        text.Fold(title),
		Category:       "tour",
		City:           "Lisbon",
		CityCI:         text.Fold("Lisbon"),
		StartsAt:       now.Add(7 * 24 * time.Hour),
		PriceCents:     2500,
		Capacity:       50,
		OrganizerID:    organizerID,
		ApprovalStatus: models.ApprovalPending,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

// CreateApprovedEvent inserts an approved, active (publicly visible) event.
func (f *Fixtures) CreateApprovedEvent(ctx context.Context, title string, organizerID primitive.ObjectID) models.Event {
	f.t.Helper()

	ev := f.CreateEvent(ctx, title, organizerID)
	_, err := f.db.Collection("events").UpdateByID(ctx, ev.ID,
		map[string]any{"$set": map[string]any{"approval_status": models.ApprovalApproved}})
	if err != nil {
		f.t.Fatalf("failed to approve test event: %v", err)
	}
	ev.ApprovalStatus = models.ApprovalApproved
	return ev
}

// CreateVenue inserts a pending, active venue owned by hostID.
func (f *Fixtures) CreateVenue(ctx context.Context, name, kind string, hostID primitive.ObjectID) models.Venue {
	f.t.Helper()

	now := time.Now().UTC()
	v := models.Venue{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Kind:           kind,
		City:           "Porto",
		CityCI:         text.Fold("Porto"),
		PriceCents:     9900,
		HostID:         hostID,
		ApprovalStatus: models.ApprovalPending,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("venues").InsertOne(ctx, v); err != nil {
		f.t.Fatalf("failed to create test venue: %v", err)
	}
	return v
}

// CreateApprovedVenue inserts an approved, active (publicly visible) venue.
func (f *Fixtures) CreateApprovedVenue(ctx context.Context, name, kind string, hostID primitive.ObjectID) models.Venue {
	f.t.Helper()

	v := f.CreateVenue(ctx, name, kind, hostID)
	_, err := f.db.Collection("venues").UpdateByID(ctx, v.ID,
		map[string]any{"$set": map[string]any{"approval_status": models.ApprovalApproved}})
	if err != nil {
		f.t.Fatalf("failed to approve test venue: %v", err)
	}
	v.ApprovalStatus = models.ApprovalApproved
	return v
}

// CreateBooking inserts a confirmed booking by travelerID on the given
// resource.
func (f *Fixtures) CreateBooking(ctx context.Context, travelerID, resourceID primitive.ObjectID, kind string) models.Booking {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Booking{
		ID:         primitive.NewObjectID(),
		Code:       primitive.NewObjectID().Hex(),
		Kind:       kind,
		ResourceID: resourceID,
		TravelerID: travelerID,
		Guests:     2,
		Status:     models.BookingConfirmed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("bookings").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("failed to create test booking: %v", err)
	}
	return b
}

// CreateAppointment inserts a scheduled appointment between a traveler
// and a doctor.
func (f *Fixtures) CreateAppointment(ctx context.Context, travelerID, doctorID primitive.ObjectID) models.Appointment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Appointment{
		ID:         primitive.NewObjectID(),
		Code:       primitive.NewObjectID().Hex(),
		TravelerID: travelerID,
		DoctorID:   doctorID,
		At:         now.Add(48 * time.Hour),
		Reason:     "travel vaccination",
		Status:     models.AppointmentScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("appointments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test appointment: %v", err)
	}
	return a
}
