package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"campus-events/middleware"
	"campus-events/models"
	"campus-events/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EnrollmentController serves students browsing and joining approved
// events, and organizers listing their own.
type EnrollmentController struct {
	Events      store.EventStore
	Enrollments store.EnrollmentStore
	Log         *zerolog.Logger
}

func NewEnrollmentController(events store.EventStore, enrollments store.EnrollmentStore, log *zerolog.Logger) *EnrollmentController {
	return &EnrollmentController{Events: events, Enrollments: enrollments, Log: log}
}

type enrolledEvent struct {
	Enrollment models.Enrollment `json:"enrollment"`
	BasicInfo  models.BasicInfo  `json:"basicInfo"`
}

func accountID(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := store.ParseID(claims.ID)
	return id, err == nil
}

// ListApproved returns the joined view of approved events only
func (ec *EnrollmentController) ListApproved(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	entries, err := joinEvents(ctx, ec.Events, models.EventFilter{Status: models.StatusApproved})
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error fetching events")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListOrganizerEvents returns the events owned by the calling organizer
func (ec *EnrollmentController) ListOrganizerEvents(w http.ResponseWriter, r *http.Request) {
	owner, ok := accountID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	entries, err := joinEvents(ctx, ec.Events, models.EventFilter{OrganizerID: owner})
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error fetching events")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Enroll signs the calling student up for an approved event
func (ec *EnrollmentController) Enroll(w http.ResponseWriter, r *http.Request) {
	studentID, ok := accountID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	eventID, err := store.ParseID(mux.Vars(r)["eventId"])
	if err != nil {
		writeStoreError(w, ec.Log, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	event, err := ec.Events.FindBasicInfo(ctx, eventID)
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error fetching event")
		return
	}
	if event.Status != models.StatusApproved {
		writeError(w, http.StatusBadRequest, "Event is not open for enrollment")
		return
	}

	id, err := ec.Enrollments.InsertEnrollment(ctx, &models.Enrollment{EventID: eventID, StudentID: studentID})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Already enrolled")
			return
		}
		writeStoreError(w, ec.Log, err, "Error saving enrollment")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "enrollmentId": id.Hex()})
}

// ListMyEnrollments returns the calling student's enrollments with their
// events. Enrollments whose event no longer exists are skipped.
func (ec *EnrollmentController) ListMyEnrollments(w http.ResponseWriter, r *http.Request) {
	studentID, ok := accountID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	enrollments, err := ec.Enrollments.ListEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error fetching enrollments")
		return
	}

	out := make([]enrolledEvent, 0, len(enrollments))
	for _, e := range enrollments {
		event, err := ec.Events.FindBasicInfo(ctx, e.EventID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			writeStoreError(w, ec.Log, err, "Error fetching enrollments")
			return
		}
		out = append(out, enrolledEvent{Enrollment: e, BasicInfo: *event})
	}
	writeJSON(w, http.StatusOK, out)
}
