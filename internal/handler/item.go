package handler

import (
	"net/http"

	"github.com/msomdec/shoplist/internal/service"
)

// ItemHandler handles standalone item routes that are not scoped to a list.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// HandleList returns all of the user's items.
// GET /api/items
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.ListForUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "list items", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTOs(items))
}

// HandleCreate creates an item that is not on any list.
// POST /api/items
func (h *ItemHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	item, err := h.items.Create(r.Context(), UserIDFromContext(r.Context()), req.input())
	if err != nil {
		writeServiceError(w, r, "create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// HandleUpdate applies a partial update.
// PUT /api/items/{id}
func (h *ItemHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req itemPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	item, err := h.items.Update(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id"), req.patch())
	if err != nil {
		writeServiceError(w, r, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleDelete deletes an item.
// DELETE /api/items/{id}
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), UserIDFromContext(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted."})
}

// HandleDeleteChecked deletes every completed item the user owns.
// DELETE /api/items/checked
func (h *ItemHandler) HandleDeleteChecked(w http.ResponseWriter, r *http.Request) {
	n, err := h.items.DeleteCompleted(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "delete checked items", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Checked items deleted.", "deletedCount": n})
}

// HandleDeleteCategory deletes every item the user owns in a category.
// DELETE /api/items/category/{category}
func (h *ItemHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	n, err := h.items.DeleteByCategory(r.Context(), UserIDFromContext(r.Context()), r.PathValue("category"))
	if err != nil {
		writeServiceError(w, r, "delete items by category", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Items deleted.", "deletedCount": n})
}
