package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/msomdec/shoplist/internal/service"
)

// ListHandler handles shopping lists and the items reached through them.
type ListHandler struct {
	lists    *service.ListService
	transfer *service.TransferService
}

// NewListHandler creates a new ListHandler.
func NewListHandler(lists *service.ListService, transfer *service.TransferService) *ListHandler {
	return &ListHandler{lists: lists, transfer: transfer}
}

// HandleList returns the user's lists, most recently updated first.
// GET /api/shopping-lists
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.ListForUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, "list shopping lists", err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTOs(lists))
}

// HandleCreate creates an empty list.
// POST /api/shopping-lists
// Request: {"name":"..."}
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	list, err := h.lists.Create(r.Context(), UserIDFromContext(r.Context()), req.Name)
	if err != nil {
		writeServiceError(w, r, "create shopping list", err)
		return
	}
	writeJSON(w, http.StatusCreated, toListDTO(list))
}

// HandleGet returns one list with its items.
// GET /api/shopping-lists/{listId}
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	list, err := h.lists.Get(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"))
	if err != nil {
		writeServiceError(w, r, "get shopping list", err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(list))
}

// HandleRename changes a list's name.
// PUT /api/shopping-lists/{listId}
// Request: {"name":"..."}
func (h *ListHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	list, err := h.lists.Rename(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"), req.Name)
	if err != nil {
		writeServiceError(w, r, "rename shopping list", err)
		return
	}
	writeJSON(w, http.StatusOK, toListDTO(list))
}

// HandleDelete deletes a list and every item on it.
// DELETE /api/shopping-lists/{listId}
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.lists.Delete(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId")); err != nil {
		writeServiceError(w, r, "delete shopping list", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Shopping list deleted."})
}

// HandleAddItem creates an item on the list.
// POST /api/shopping-lists/{listId}/items
func (h *ListHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	item, err := h.lists.AddItem(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"), req.input())
	if err != nil {
		writeServiceError(w, r, "add list item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// HandleUpdateItem applies a partial update to an item on the list.
// PUT /api/shopping-lists/{listId}/items/{itemId}
func (h *ListHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	item, err := h.lists.UpdateItem(r.Context(), UserIDFromContext(r.Context()),
		r.PathValue("listId"), r.PathValue("itemId"), req.patch())
	if err != nil {
		writeServiceError(w, r, "update list item", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// HandleRemoveItem deletes an item from the list.
// DELETE /api/shopping-lists/{listId}/items/{itemId}
func (h *ListHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	err := h.lists.RemoveItem(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"), r.PathValue("itemId"))
	if err != nil {
		writeServiceError(w, r, "remove list item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed."})
}

// HandleDeleteCategory deletes the list's items in one category.
// DELETE /api/shopping-lists/{listId}/items/category/{category}
func (h *ListHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	n, err := h.lists.DeleteItemsInCategory(r.Context(), UserIDFromContext(r.Context()),
		r.PathValue("listId"), r.PathValue("category"))
	if err != nil {
		writeServiceError(w, r, "delete list category", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Items deleted.", "deletedCount": n})
}

// HandleDeleteCompleted deletes the list's completed items.
// DELETE /api/shopping-lists/{listId}/items/completed
func (h *ListHandler) HandleDeleteCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.lists.DeleteCompletedItems(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"))
	if err != nil {
		writeServiceError(w, r, "delete completed list items", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Completed items deleted.", "deletedCount": n})
}

// HandleExport returns the list's items for download.
// GET /api/shopping-lists/{listId}/export
func (h *ListHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	items, err := h.transfer.Export(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"))
	if err != nil {
		writeServiceError(w, r, "export list", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toItemDTOs(items)})
}

// HandleImport adds every record as a new item on the list.
// POST /api/shopping-lists/{listId}/import
// Request: {"items":[{...}, ...]}
func (h *ListHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []itemRequest `json:"items"`
	}
	if err := readJSON(w, r, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		var sizeErr *http.MaxBytesError
		switch {
		case errors.As(err, &sizeErr):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large.")
		case errors.As(err, &typeErr) && typeErr.Field == "items":
			writeError(w, http.StatusBadRequest, "items must be an array of item objects.")
		default:
			writeError(w, http.StatusBadRequest, "Invalid request body.")
		}
		return
	}

	items, err := h.transfer.Import(r.Context(), UserIDFromContext(r.Context()), r.PathValue("listId"), itemInputs(req.Items))
	if err != nil {
		writeServiceError(w, r, "import list", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"items": toItemDTOs(items), "importedCount": len(items)})
}
