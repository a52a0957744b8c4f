package handler

import (
	"net/http"

	"github.com/msomdec/shoplist/internal/service"
)

// AccountHandler serves the signed-in user's profile and API key settings.
type AccountHandler struct {
	accounts   *service.AccountService
	categories *service.CategoryService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *service.AccountService, categories *service.CategoryService) *AccountHandler {
	return &AccountHandler{accounts: accounts, categories: categories}
}

// HandleProfile returns the user with custom categories and key status.
// GET /api/user/me
func (h *AccountHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.Profile(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleCategories lists the user's custom categories.
// GET /api/user/categories
func (h *AccountHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.categories.ListCustom(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "list categories", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": names})
}

// HandleAPIKeyStatus reports whether a key is stored. The key is never returned.
// GET /api/user/api-key/status
// Response: {"hasApiKey": bool}
func (h *AccountHandler) HandleAPIKeyStatus(w http.ResponseWriter, r *http.Request) {
	has, err := h.accounts.HasAPIKey(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "api key status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasApiKey": has})
}

// HandleSetAPIKey encrypts and stores the user's key.
// PUT /api/user/api-key
// Request: {"apiKey":"..."}
func (h *AccountHandler) HandleSetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.accounts.SetAPIKey(r.Context(), UserIDFromContext(r.Context()), req.APIKey); err != nil {
		writeServiceError(w, r, "set api key", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "API key saved.", "hasApiKey": true})
}

// HandleClearAPIKey removes the stored key.
// DELETE /api/user/api-key
func (h *AccountHandler) HandleClearAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.ClearAPIKey(r.Context(), UserIDFromContext(r.Context())); err != nil {
		writeServiceError(w, r, "clear api key", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "API key removed.", "hasApiKey": false})
}
