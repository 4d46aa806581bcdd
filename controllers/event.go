package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"campus-events/middleware"
	"campus-events/models"
	"campus-events/store"
	"campus-events/utils"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventController runs the three-step event submission wizard
type EventController struct {
	Store store.EventStore
	Log   *zerolog.Logger
}

func NewEventController(s store.EventStore, log *zerolog.Logger) *EventController {
	return &EventController{Store: s, Log: log}
}

type basicInfoRequest struct {
	EventName   string `json:"eventName" validate:"required,notblank"`
	Dept        string `json:"dept" validate:"required,notblank"`
	EventType   string `json:"eventType"`
	Description string `json:"description" validate:"required,notblank"`
	Poster      string `json:"poster"`
	Image       string `json:"image"`
	OrganizerID string `json:"organizerId"`
}

type registrationRequest struct {
	EventID      string   `json:"eventId" validate:"required,notblank"`
	StartDate    string   `json:"startDate" validate:"required,notblank"`
	EndDate      string   `json:"endDate" validate:"required,notblank"`
	StartTime    string   `json:"startTime" validate:"required,notblank"`
	EndTime      string   `json:"endTime" validate:"required,notblank"`
	IsFreeEvent  *bool    `json:"isFreeEvent"`
	Price        string   `json:"price"`
	IsAllDept    *bool    `json:"isAllDept"`
	SelectedDept []string `json:"selectedDept"`
	Venue        string   `json:"venue" validate:"required,notblank"`
	Participants string   `json:"participants"`
	OrganizerID  string   `json:"organizerId"`
}

type contactRequest struct {
	EventID     string                `json:"eventId" validate:"required,notblank"`
	Name        string                `json:"name" validate:"required,notblank"`
	Phone       string                `json:"phone" validate:"required,notblank"`
	Email       string                `json:"email" validate:"required,notblank,email"`
	Highlights  []models.Highlight    `json:"highlights"`
	Schedule    []models.ScheduleItem `json:"schedule"`
	OrganizerID string                `json:"organizerId"`
}

// organizerID prefers the authenticated organizer over the payload tag
func organizerID(r *http.Request, fromBody string) (primitive.ObjectID, error) {
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok && claims.Role == models.RoleOrganizer {
		if id, err := store.ParseID(claims.ID); err == nil {
			return id, nil
		}
	}
	if strings.TrimSpace(fromBody) == "" {
		return primitive.NilObjectID, nil
	}
	id, err := store.ParseID(strings.TrimSpace(fromBody))
	if err != nil {
		return primitive.NilObjectID, errors.New("Invalid organizer ID format")
	}
	return id, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// AddBasicInfo handles the first wizard step
func (ec *EventController) AddBasicInfo(w http.ResponseWriter, r *http.Request) {
	var req basicInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	owner, err := organizerID(r, req.OrganizerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info := &models.BasicInfo{
		OrganizerID: owner,
		EventName:   strings.TrimSpace(req.EventName),
		Dept:        strings.TrimSpace(req.Dept),
		EventType:   req.EventType,
		Description: req.Description,
		Poster:      req.Poster,
		Status:      models.StatusPending,
		Stage:       models.StageBasicInfo,
	}
	if info.EventType == "" {
		info.EventType = models.DefaultEventType
	}
	if info.Poster == "" {
		info.Poster = req.Image
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	id, err := ec.Store.InsertBasicInfo(ctx, info)
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error saving basic info")
		return
	}

	ec.Log.Info().Str("eventId", id.Hex()).Str("eventName", info.EventName).Msg("basic info created")
	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "eventId": id.Hex()})
}

// CreateRegistration handles the second wizard step. The referenced event
// is not required to exist.
func (ec *EventController) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	eventID, err := store.ParseID(strings.TrimSpace(req.EventID))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID format")
		return
	}
	owner, err := organizerID(r, req.OrganizerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	selected := req.SelectedDept
	if selected == nil {
		selected = []string{}
	}
	reg := &models.Registration{
		EventID:      eventID,
		OrganizerID:  owner,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsFreeEvent:  boolOr(req.IsFreeEvent, true),
		Price:        req.Price,
		IsAllDept:    boolOr(req.IsAllDept, true),
		SelectedDept: selected,
		Venue:        strings.TrimSpace(req.Venue),
		Participants: req.Participants,
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	id, err := ec.Store.InsertRegistration(ctx, reg)
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error saving registration details")
		return
	}
	ec.advance(ctx, eventID, models.StageRegistration)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "registrationId": id.Hex()})
}

// CreateContact handles the last wizard step, after which the event is
// awaiting moderation.
func (ec *EventController) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := utils.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	eventID, err := store.ParseID(strings.TrimSpace(req.EventID))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event ID format")
		return
	}
	owner, err := organizerID(r, req.OrganizerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contact := &models.Contact{
		EventID:     eventID,
		OrganizerID: owner,
		Name:        strings.TrimSpace(req.Name),
		Phone:       strings.TrimSpace(req.Phone),
		Email:       strings.TrimSpace(req.Email),
		Highlights:  req.Highlights,
		Schedule:    req.Schedule,
	}
	if contact.Highlights == nil {
		contact.Highlights = []models.Highlight{}
	}
	if contact.Schedule == nil {
		contact.Schedule = []models.ScheduleItem{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	id, err := ec.Store.InsertContact(ctx, contact)
	if err != nil {
		writeStoreError(w, ec.Log, err, "Error saving contact details")
		return
	}
	ec.advance(ctx, eventID, models.StageSubmitted)

	writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "contactId": id.Hex()})
}

// advance records wizard progress. The write it follows has already
// committed, so failures here are logged and not reported to the client.
func (ec *EventController) advance(ctx context.Context, eventID primitive.ObjectID, stage string) {
	err := ec.Store.AdvanceStage(ctx, eventID, stage)
	switch {
	case errors.Is(err, store.ErrNotFound):
		ec.Log.Warn().Str("eventId", eventID.Hex()).Str("stage", stage).Msg("step references unknown event")
	case err != nil:
		ec.Log.Error().Err(err).Str("eventId", eventID.Hex()).Msg("failed to advance stage")
	}
}
