package api

import (
	"net/http"

	"github.com/uday132/hackhub/pkg/repository"
)

// AdminHandler serves the admin dashboard endpoints. All aggregation is
// scoped to events created by the calling admin.
type AdminHandler struct {
	statsRepo repository.StatsRepo
}

func NewAdminHandler(sr repository.StatsRepo) *AdminHandler {
	return &AdminHandler{statsRepo: sr}
}

// Users lists the distinct users registered for the caller's events, newest
// accounts first, without credentials.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.statsRepo.ListParticipants(r.Context(), callerID(r))
	if err != nil {
		writeError(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, users, http.StatusOK)
}

// Stats returns totals and the five most recent participants for the caller's
// events. An admin with no events gets zeros and an empty list.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsRepo.AdminStats(r.Context(), callerID(r))
	if err != nil {
		writeError(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats, http.StatusOK)
}
