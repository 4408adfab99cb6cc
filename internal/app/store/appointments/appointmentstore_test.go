package appointmentstore_test

import (
	"testing"
	"time"

	appointmentstore "github.com/wayfarehq/wayfare/internal/app/store/appointments"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"github.com/wayfarehq/wayfare/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newAppointment() models.Appointment {
	return models.Appointment{
		DoctorID:   primitive.NewObjectID(),
		TravelerID: primitive.NewObjectID(),
		Reason:     "travel vaccination",
		At:         time.Now().Add(48 * time.Hour),
	}
}

func TestCreate_SchedulesWithCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appointmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newAppointment())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Code == "" {
		t.Error("expected confirmation code")
	}
	if created.Status != models.AppointmentScheduled {
		t.Errorf("Status = %q, want scheduled", created.Status)
	}
}

func TestCreate_RejectsPastTime(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appointmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := newAppointment()
	a.At = time.Now().Add(-time.Hour)
	if _, err := store.Create(ctx, a); err == nil {
		t.Error("expected error for past appointment time")
	}

	a = newAppointment()
	a.At = time.Time{}
	if _, err := store.Create(ctx, a); err == nil {
		t.Error("expected error for zero appointment time")
	}
}

func TestCompleteAndCancel_SingleDecision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appointmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, newAppointment())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Complete(ctx, created.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.AppointmentCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}

	// A completed appointment cannot be cancelled
	if err := store.Cancel(ctx, created.ID); err != appointmentstore.ErrNotScheduled {
		t.Errorf("expected ErrNotScheduled, got %v", err)
	}
	if err := store.Complete(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for missing appointment, got %v", err)
	}
}

func TestByDoctor_ScheduleOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := appointmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doctorID := primitive.NewObjectID()
	times := []time.Duration{72 * time.Hour, 24 * time.Hour, 48 * time.Hour}
	for _, d := range times {
		a := newAppointment()
		a.DoctorID = doctorID
		a.At = time.Now().Add(d)
		if _, err := store.Create(ctx, a); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	appts, err := store.ByDoctor(ctx, doctorID)
	if err != nil {
		t.Fatalf("ByDoctor failed: %v", err)
	}
	if len(appts) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i].At.Before(appts[i-1].At) {
			t.Fatal("expected appointments in ascending schedule order")
		}
	}
}
