package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"campus-events/middleware"
	"campus-events/models"
	"campus-events/store"
	"campus-events/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Notifier delivers moderation decisions to the event contact
type Notifier interface {
	NotifyStatusChange(toEmail, eventName, status, reason string) error
}

// ReviewController serves the joined moderation view and status changes
type ReviewController struct {
	Store    store.EventStore
	Notifier Notifier
	Log      *zerolog.Logger
}

func NewReviewController(s store.EventStore, notifier Notifier, log *zerolog.Logger) *ReviewController {
	return &ReviewController{Store: s, Notifier: notifier, Log: log}
}

type statusRequest struct {
	Status          string `json:"status" validate:"required,status"`
	RejectionReason string `json:"rejectionReason"`
}

var emptyDoc = struct{}{}

// joinEvent assembles the review entry for one BasicInfo. A missing
// Registration or Contact becomes an empty object.
func joinEvent(ctx context.Context, s store.EventStore, info models.BasicInfo) (models.ReviewEntry, error) {
	entry := models.ReviewEntry{BasicInfo: info, EventDetails: emptyDoc, ContactInfo: emptyDoc}

	reg, err := s.FindRegistration(ctx, info.ID)
	switch {
	case err == nil:
		entry.EventDetails = reg
	case !errors.Is(err, store.ErrNotFound):
		return entry, err
	}

	contact, err := s.FindContact(ctx, info.ID)
	switch {
	case err == nil:
		entry.ContactInfo = contact
	case !errors.Is(err, store.ErrNotFound):
		return entry, err
	}
	return entry, nil
}

// joinEvents lists events matching filter and joins each one
func joinEvents(ctx context.Context, s store.EventStore, filter models.EventFilter) ([]models.ReviewEntry, error) {
	infos, err := s.ListBasicInfo(ctx, filter)
	if err != nil {
		return nil, err
	}
	entries := make([]models.ReviewEntry, 0, len(infos))
	for _, info := range infos {
		entry, err := joinEvent(ctx, s, info)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListReview returns every event with its details. ?status= and ?stage=
// narrow the list.
func (rc *ReviewController) ListReview(w http.ResponseWriter, r *http.Request) {
	filter := models.EventFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Stage:  strings.TrimSpace(r.URL.Query().Get("stage")),
	}
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		writeError(w, http.StatusBadRequest, "status must be one of pending, approved, rejected")
		return
	}
	if filter.Stage != "" && !models.ValidStage(filter.Stage) {
		writeError(w, http.StatusBadRequest, "stage must be one of basicInfo, registration, submitted")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	entries, err := joinEvents(ctx, rc.Store, filter)
	if err != nil {
		writeStoreError(w, rc.Log, err, "Error fetching events")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetReview returns the joined view of a single event
func (rc *ReviewController) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(mux.Vars(r)["eventId"])
	if err != nil {
		writeStoreError(w, rc.Log, err, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	info, err := rc.Store.FindBasicInfo(ctx, id)
	if err != nil {
		writeStoreError(w, rc.Log, err, "Error fetching event")
		return
	}
	entry, err := joinEvent(ctx, rc.Store, *info)
	if err != nil {
		writeStoreError(w, rc.Log, err, "Error fetching event")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// UpdateStatus moves an event between pending, approved and rejected.
// Any transition is allowed.
func (rc *ReviewController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseID(mux.Vars(r)["eventId"])
	if err != nil {
		writeStoreError(w, rc.Log, err, "")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reason := ""
	if req.Status == models.StatusRejected {
		reason = strings.TrimSpace(req.RejectionReason)
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	event, err := rc.Store.UpdateStatus(ctx, id, req.Status, reason)
	if err != nil {
		writeStoreError(w, rc.Log, err, "Error updating event status")
		return
	}

	logEvt := rc.Log.Info().Str("eventId", id.Hex()).Str("status", event.Status)
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		logEvt = logEvt.Str("by", claims.Email)
	}
	logEvt.Msg("event status updated")

	if rc.Notifier != nil {
		go rc.notify(*event)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "event": event})
}

// notify runs after the response is written. Failures are only logged.
func (rc *ReviewController) notify(event models.BasicInfo) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	contact, err := rc.Store.FindContact(ctx, event.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			rc.Log.Error().Err(err).Str("eventId", event.ID.Hex()).Msg("notification lookup failed")
		}
		return
	}
	err = rc.Notifier.NotifyStatusChange(contact.Email, event.EventName, event.Status, event.RejectionReason)
	if err != nil {
		rc.Log.Error().Err(err).Str("eventId", event.ID.Hex()).Str("to", contact.Email).Msg("failed to send status notification")
	}
}
