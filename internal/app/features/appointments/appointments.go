// internal/app/features/appointments/appointments.go
package appointments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	appointmentstore "github.com/wayfarehq/wayfare/internal/app/store/appointments"
	"github.com/wayfarehq/wayfare/internal/app/system/authz"
	"github.com/wayfarehq/wayfare/internal/app/system/gates"
	"github.com/wayfarehq/wayfare/internal/app/system/httperr"
	"github.com/wayfarehq/wayfare/internal/app/system/httpjson"
	"github.com/wayfarehq/wayfare/internal/app/system/timeouts"
	"github.com/wayfarehq/wayfare/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createPayload struct {
	DoctorID string    `json:"doctor_id"`
	At       time.Time `json:"at"`
	Reason   string    `json:"reason"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandleCreate handles POST /appointments. The target must be an active
// doctor account; a missing, disabled, or non-doctor id reads as not found.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	var p createPayload
	if err := httpjson.Decode(r, &p); err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}
	doctorID, err := primitive.ObjectIDFromHex(p.DoctorID)
	if err != nil {
		h.ErrLog.LogValidation(w, r, "doctor_id is not a valid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	doc, err := h.Users.GetByRole(ctx, doctorID, models.RoleDoctor)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "No such doctor.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load doctor failed", err, "Unable to book the appointment.")
		return
	}
	if doc.Status != models.StatusActive {
		httperr.NotFound(w, "No such doctor.")
		return
	}

	created, err := h.Appointments.Create(ctx, models.Appointment{
		DoctorID:   doctorID,
		TravelerID: viewer.ID,
		At:         p.At,
		Reason:     p.Reason,
	})
	if err != nil {
		h.ErrLog.LogValidation(w, r, err.Error())
		return
	}
	httpjson.Created(w, created)
}

// ServeMine handles GET /appointments/mine: the traveler's appointments,
// soonest last.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Appointments.ByTraveler(ctx, viewer.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find own appointments failed", err, "Unable to load your appointments.")
		return
	}
	httpjson.OK(w, rows)
}

// ServeDoctor handles GET /appointments/doctor: the doctor's schedule in
// chronological order.
func (h *Handler) ServeDoctor(w http.ResponseWriter, r *http.Request) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Appointments.ByDoctor(ctx, viewer.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find doctor appointments failed", err, "Unable to load the schedule.")
		return
	}
	httpjson.OK(w, rows)
}

// HandleComplete handles POST /appointments/{id}/complete. Only the
// appointment's doctor may mark it completed, and only from scheduled.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	viewer, appt, ok := h.partyAppointment(w, r)
	if !ok {
		return
	}
	if appt.DoctorID != viewer.ID {
		httperr.Forbidden(w, "Only the doctor can mark an appointment completed.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Appointments.Complete(ctx, appt.ID); err != nil {
		h.writeTransitionErr(w, r, err, "complete appointment")
		return
	}
	httpjson.OK(w, statusResponse{Status: models.AppointmentCompleted})
}

// HandleCancel handles POST /appointments/{id}/cancel. Either party may
// cancel a scheduled appointment.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	_, appt, ok := h.partyAppointment(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Appointments.Cancel(ctx, appt.ID); err != nil {
		h.writeTransitionErr(w, r, err, "cancel appointment")
		return
	}
	httpjson.OK(w, statusResponse{Status: models.AppointmentCancelled})
}

// partyAppointment loads the {id} appointment and hides it from anyone who
// is not one of its two parties.
func (h *Handler) partyAppointment(w http.ResponseWriter, r *http.Request) (authz.Viewer, models.Appointment, bool) {
	viewer, ok := gates.RequireViewer(w, r)
	if !ok {
		return authz.Viewer{}, models.Appointment{}, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httperr.NotFound(w, "")
		return authz.Viewer{}, models.Appointment{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	appt, err := h.Appointments.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httperr.NotFound(w, "")
		return authz.Viewer{}, models.Appointment{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get appointment failed", err, "Unable to load the appointment.")
		return authz.Viewer{}, models.Appointment{}, false
	}
	if appt.TravelerID != viewer.ID && appt.DoctorID != viewer.ID {
		httperr.NotFound(w, "")
		return authz.Viewer{}, models.Appointment{}, false
	}
	return viewer, appt, true
}

func (h *Handler) writeTransitionErr(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, appointmentstore.ErrNotScheduled):
		httperr.InvalidState(w, "This appointment is no longer scheduled.")
	case errors.Is(err, mongo.ErrNoDocuments):
		httperr.NotFound(w, "")
	default:
		h.ErrLog.LogServerError(w, r, op+" failed", err, "Unable to update the appointment.")
	}
}
