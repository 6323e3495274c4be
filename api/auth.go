package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/uday132/hackhub/internal/models"
	"github.com/uday132/hackhub/pkg/repository"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) signToken(u *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"role":    string(u.Role),
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})

	return token.SignedString([]byte(h.jwtSecret))
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, "Please add all required fields", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}

	id, err := h.userRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, "Email already in use", http.StatusBadRequest)
			return
		}
		writeError(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	created, err := h.userRepo.GetUserByID(ctx, id)
	if err != nil || created == nil {
		writeError(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	tokenStr, err := h.signToken(created)
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, User: created}, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, "Please add all required fields", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetUserByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	tokenStr, err := h.signToken(user)
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, User: user}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; signout is client-side (just delete the token).
	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}

// Me returns the calling user's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetUserByID(r.Context(), callerID(r))
	if err != nil {
		writeError(w, "Error loading user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

type profileUpdateRequest struct {
	Name          *string `json:"name"`
	Avatar        *string `json:"avatar"`
	CareerGoal    *string `json:"careerGoal"`
	SkillLevel    *string `json:"skillLevel"`
	TargetOutcome *string `json:"targetOutcome"`
	Availability  *int64  `json:"availability"`
}

// UpdateProfile applies self-service profile edits to the calling user.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
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

	if req.Name != nil && *req.Name != "" {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.CareerGoal != nil {
		user.CareerGoal = *req.CareerGoal
	}
	if req.SkillLevel != nil {
		user.SkillLevel = *req.SkillLevel
	}
	if req.TargetOutcome != nil {
		user.TargetOutcome = *req.TargetOutcome
	}
	if req.Availability != nil && *req.Availability > 0 {
		user.Availability = *req.Availability
	}

	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		writeError(w, "Error updating profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
