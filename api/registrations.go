package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

type RegistrationsHandler struct {
	regRepo   repository.RegistrationRepo
	eventRepo repository.EventRepo
}

func NewRegistrationsHandler(rr repository.RegistrationRepo, er repository.EventRepo) *RegistrationsHandler {
	return &RegistrationsHandler{regRepo: rr, eventRepo: er}
}

type registerRequest struct {
	EventID int64 `json:"eventId"`
}

// Register creates a registration for the caller. The (user, event) pair is
// unique: a pre-check catches the common case, the store's unique index
// catches concurrent attempts.
func (h *RegistrationsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.EventID <= 0 {
		writeError(w, "Event ID is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	userID := callerID(r)

	event, err := h.eventRepo.GetEvent(ctx, req.EventID)
	if err != nil {
		writeError(w, "Failed to load event", http.StatusInternalServerError)
		return
	}
	if event == nil {
		writeError(w, "Event not found", http.StatusNotFound)
		return
	}

	existing, err := h.regRepo.GetRegistration(ctx, userID, req.EventID)
	if err != nil {
		writeError(w, "Failed to check registration", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		writeError(w, "Already registered for this event", http.StatusBadRequest)
		return
	}

	reg := &models.Registration{UserID: userID, EventID: req.EventID}
	if _, err := h.regRepo.CreateRegistration(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, "Already registered for this event", http.StatusBadRequest)
			return
		}
		writeError(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	created, err := h.regRepo.GetRegistration(ctx, userID, req.EventID)
	if err != nil || created == nil {
		writeError(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	writeJSON(w, created, http.StatusCreated)
}

// List returns the caller's registrations. Admins passing ?all=true get every
// registration joined with event and a credential-free user projection; an
// admin without the flag falls back to their own registrations.
func (h *RegistrationsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if callerRole(r) == models.RoleAdmin && r.URL.Query().Get("all") == "true" {
		regs, err := h.regRepo.ListAllRegistrations(ctx)
		if err != nil {
			writeError(w, "Failed to list registrations", http.StatusInternalServerError)
			return
		}

		writeJSON(w, regs, http.StatusOK)
		return
	}

	regs, err := h.regRepo.ListRegistrationsByUser(ctx, callerID(r))
	if err != nil {
		writeError(w, "Failed to list registrations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, regs, http.StatusOK)
}
