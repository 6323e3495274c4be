package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uday132/hackhub/internal/ai"
	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

// RoadmapGenerator produces a validated month plan for a user profile;
// *ai.Engine satisfies it.
type RoadmapGenerator interface {
	GenerateRoadmap(ctx context.Context, user *models.User) ([]models.Month, error)
}

type PathfinderHandler struct {
	userRepo    repository.UserRepo
	roadmapRepo repository.RoadmapRepo
	generator   RoadmapGenerator
}

func NewPathfinderHandler(ur repository.UserRepo, rr repository.RoadmapRepo, gen RoadmapGenerator) *PathfinderHandler {
	return &PathfinderHandler{userRepo: ur, roadmapRepo: rr, generator: gen}
}

type generateRequest struct {
	CareerGoal    string `json:"careerGoal"`
	SkillLevel    string `json:"skillLevel"`
	TargetOutcome string `json:"targetOutcome"`
	Availability  int64  `json:"availability"`
}

// Generate persists any profile overrides onto the user, asks the model for a
// roadmap, and stores the validated result. Nothing is persisted when the
// model's output cannot be parsed or fails schema validation.
func (h *PathfinderHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.Body != nil && r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	ctx := r.Context()
	user, err := h.userRepo.GetUserByID(ctx, callerID(r))
	if err != nil {
		writeError(w, "Error loading user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	if req.CareerGoal != "" {
		user.CareerGoal = req.CareerGoal
	}
	if req.SkillLevel != "" {
		user.SkillLevel = req.SkillLevel
	}
	if req.TargetOutcome != "" {
		user.TargetOutcome = req.TargetOutcome
	}
	if req.Availability > 0 {
		user.Availability = req.Availability
	}
	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		writeError(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	months, err := h.generator.GenerateRoadmap(ctx, user)
	if err != nil {
		var perr *ai.ParseError
		var verr *ai.ValidationError
		switch {
		case errors.Is(err, ai.ErrNotConfigured):
			writeError(w, "Roadmap generation is not configured", http.StatusInternalServerError)
		case errors.As(err, &perr):
			writeJSON(w, map[string]string{"message": "Failed to parse AI response", "raw": perr.Raw}, http.StatusInternalServerError)
		case errors.As(err, &verr):
			writeJSON(w, map[string]string{"message": verr.Error(), "raw": verr.Raw}, http.StatusInternalServerError)
		default:
			writeError(w, "Error generating roadmap: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	rm := &models.Roadmap{UserID: user.ID, Goal: user.CareerGoal, Months: months}
	id, err := h.roadmapRepo.CreateRoadmap(ctx, rm)
	if err != nil {
		writeError(w, "Failed to save roadmap", http.StatusInternalServerError)
		return
	}

	saved, err := h.roadmapRepo.GetRoadmap(ctx, id)
	if err != nil || saved == nil {
		writeError(w, "Failed to save roadmap", http.StatusInternalServerError)
		return
	}

	writeJSON(w, saved, http.StatusOK)
}

// List returns the caller's roadmaps, newest first.
func (h *PathfinderHandler) List(w http.ResponseWriter, r *http.Request) {
	roadmaps, err := h.roadmapRepo.ListRoadmapsByUser(r.Context(), callerID(r))
	if err != nil {
		writeError(w, "Failed to list roadmaps", http.StatusInternalServerError)
		return
	}

	writeJSON(w, roadmaps, http.StatusOK)
}

// ToggleTopic flips one topic's completion flag on a roadmap the caller owns.
// The months document is rewritten whole; roadmaps are single-owner so a
// read-modify-write without version checks is enough.
func (h *PathfinderHandler) ToggleTopic(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "Invalid roadmap id", http.StatusBadRequest)
		return
	}
	topicID := vars["topicID"]
	if topicID == "" {
		writeError(w, "Topic id is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	rm, err := h.roadmapRepo.GetRoadmap(ctx, id)
	if err != nil {
		writeError(w, "Failed to load roadmap", http.StatusInternalServerError)
		return
	}
	if rm == nil {
		writeError(w, "Roadmap not found", http.StatusNotFound)
		return
	}
	if rm.UserID != callerID(r) {
		writeError(w, "Not authorized to modify this roadmap", http.StatusForbidden)
		return
	}

	found := false
	for i := range rm.Months {
		for j := range rm.Months[i].Topics {
			if rm.Months[i].Topics[j].ID == topicID {
				rm.Months[i].Topics[j].Completed = !rm.Months[i].Topics[j].Completed
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		writeError(w, "Topic not found", http.StatusNotFound)
		return
	}

	if err := h.roadmapRepo.UpdateRoadmapMonths(ctx, rm.ID, rm.Months); err != nil {
		writeError(w, "Failed to update roadmap", http.StatusInternalServerError)
		return
	}

	writeJSON(w, rm, http.StatusOK)
}
