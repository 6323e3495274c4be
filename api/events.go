package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

type EventsHandler struct {
	eventRepo repository.EventRepo
}

func NewEventsHandler(er repository.EventRepo) *EventsHandler {
	return &EventsHandler{eventRepo: er}
}

// normalizeDate accepts an RFC3339 instant or a bare date and returns the
// canonical RFC3339 UTC form stored in the date column.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC().Format(time.RFC3339), true
	}

	return "", false
}

func eventIDFromRequest(r *http.Request) (int64, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List is public: every event, soonest first.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventRepo.ListEvents(r.Context())
	if err != nil {
		writeError(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, events, http.StatusOK)
}

// Mine lists only the calling admin's events.
func (h *EventsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventRepo.ListEventsByCreator(r.Context(), callerID(r))
	if err != nil {
		writeError(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, events, http.StatusOK)
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromRequest(r)
	if !ok {
		writeError(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	event, err := h.eventRepo.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if event == nil {
		writeError(w, "Event not found", http.StatusNotFound)
		return
	}

	writeJSON(w, event, http.StatusOK)
}

type createEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	TechStack   []string `json:"tech_stack"`
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if req.Title == "" || req.Date == "" || req.Location == "" {
		writeError(w, "Please add all required fields", http.StatusBadRequest)
		return
	}

	date, ok := normalizeDate(req.Date)
	if !ok {
		writeError(w, "Invalid date", http.StatusBadRequest)
		return
	}

	event := &models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        date,
		TechStack:   req.TechStack,
		CreatedBy:   callerID(r),
	}

	id, err := h.eventRepo.CreateEvent(r.Context(), event)
	if err != nil {
		writeError(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	created, err := h.eventRepo.GetEvent(r.Context(), id)
	if err != nil || created == nil {
		writeError(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

type updateEventRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	TechStack   *[]string `json:"tech_stack"`
}

// Update mutates an event. Mutation is creator-scoped: an admin may only
// change events they created.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromRequest(r)
	if !ok {
		writeError(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	var req updateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	event, err := h.eventRepo.GetEvent(ctx, id)
	if err != nil {
		writeError(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if event == nil {
		writeError(w, "Event not found", http.StatusNotFound)
		return
	}
	if event.CreatedBy != callerID(r) {
		writeError(w, "Not authorized to modify this event", http.StatusForbidden)
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			writeError(w, "Title cannot be empty", http.StatusBadRequest)
			return
		}
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Location != nil {
		if strings.TrimSpace(*req.Location) == "" {
			writeError(w, "Location cannot be empty", http.StatusBadRequest)
			return
		}
		event.Location = strings.TrimSpace(*req.Location)
	}
	if req.Date != nil {
		date, ok := normalizeDate(*req.Date)
		if !ok {
			writeError(w, "Invalid date", http.StatusBadRequest)
			return
		}
		event.Date = date
	}
	if req.TechStack != nil {
		event.TechStack = *req.TechStack
	}

	if err := h.eventRepo.UpdateEvent(ctx, event); err != nil {
		writeError(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	updated, err := h.eventRepo.GetEvent(ctx, id)
	if err != nil || updated == nil {
		writeError(w, "Failed to update event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, updated, http.StatusOK)
}

// Delete removes an event; creator-scoped like Update.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventIDFromRequest(r)
	if !ok {
		writeError(w, "Invalid event id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	event, err := h.eventRepo.GetEvent(ctx, id)
	if err != nil {
		writeError(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if event == nil {
		writeError(w, "Event not found", http.StatusNotFound)
		return
	}
	if event.CreatedBy != callerID(r) {
		writeError(w, "Not authorized to modify this event", http.StatusForbidden)
		return
	}

	if err := h.eventRepo.DeleteEvent(ctx, id); err != nil {
		writeError(w, "Failed to delete event", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]int64{"id": id}, http.StatusOK)
}
