package handler

import (
	"net/http"

	"github.com/msomdec/shoplist/internal/service"
)

// SuggestionHandler proxies suggestion requests to the configured provider.
type SuggestionHandler struct {
	suggestions *service.SuggestionService
}

// NewSuggestionHandler creates a new SuggestionHandler.
func NewSuggestionHandler(suggestions *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// HandleSuggest asks for new items for a list.
// POST /api/suggestions
// Request:  {"listId":"...","hint":"..."}
// Response: {"suggestions":["...", ...]}
func (h *SuggestionHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListID string `json:"listId"`
		Hint   string `json:"hint"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	names, err := h.suggestions.Suggest(r.Context(), UserIDFromContext(r.Context()), req.ListID, req.Hint)
	if err != nil {
		writeServiceError(w, r, "suggest items", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": names})
}
