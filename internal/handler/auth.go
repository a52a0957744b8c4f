package handler

import (
	"errors"
	"net/http"

	"github.com/msomdec/shoplist/internal/domain"
	"github.com/msomdec/shoplist/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister processes a JSON registration request.
// POST /auth/register
// Request:  {"username":"...","email":"...","password":"..."}
// Response: 201 {"token":"...","user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token, user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, "register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// HandleLogin processes a JSON login request. Either username or email
// identifies the account.
// POST /auth/login
// Request:  {"username":"..." | "email":"...","password":"..."}
// Response: {"token":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	token, user, err := h.auth.Login(r.Context(), identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials.")
			return
		}
		writeServiceError(w, r, "login user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserDTO(user),
	})
}

// HandleChangePassword replaces the signed-in user's password.
// PUT /api/user/password
// Request:  {"currentPassword":"...","newPassword":"..."}
// Response: {"message":"..."}
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.auth.ChangePassword(r.Context(), UserIDFromContext(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, "change password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated."})
}
