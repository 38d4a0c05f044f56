package handler

import (
	"net/http"

	"github.com/msomdec/eventsphere/internal/auth"
	"github.com/msomdec/eventsphere/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth    *service.AuthService
	metrics Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, metrics Recorder) *AuthHandler {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &AuthHandler{auth: auth, metrics: metrics}
}

// HandleRegister creates an account. It does not log the user in.
// POST /api/auth/register
// Request:  {"name":"...","email":"...","password":"...","photoURL":"..."}
// Response: 201 {"message":"..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "register", err)
		return
	}

	if _, err := h.auth.Register(r.Context(), req); err != nil {
		h.metrics.AuthAttempt("register", false)
		writeServiceError(w, "register user", err)
		return
	}

	h.metrics.AuthAttempt("register", true)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

// HandleLogin exchanges credentials for a bearer token.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"token":"...","user":{"name":"...","email":"...","photoURL":"..."}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeServiceError(w, "login", err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.AuthAttempt("login", false)
		writeServiceError(w, "login user", err)
		return
	}

	h.metrics.AuthAttempt("login", true)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": res.Token,
		"user":  toUserDTO(res.User),
	})
}

// HandleMe returns the identity carried by the caller's token.
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": toIdentityDTO(id)})
}
