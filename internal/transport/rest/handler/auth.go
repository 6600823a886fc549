package handler

import (
	"carsurvey/internal/model"
	"carsurvey/internal/service"
	"encoding/json"
	"log"
	"net/http"
)

// AuthHandler signs in the survey owner. Respondents never log in; they get
// a session token from POST /v1/sessions instead.
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates the survey owner login handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /v1/auth/login and returns the host token used by the
// statistics, responses and dashboard endpoints
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.authSvc.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Survey owner login rejected for %q", req.Username)
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	log.Printf("Survey owner signed in as %s", resp.HostID)

	writeJSON(w, http.StatusOK, resp)
}

// JSON helpers shared by the survey handlers
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
