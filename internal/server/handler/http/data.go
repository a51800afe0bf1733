package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/atinyakov/datavault/internal/middleware"
	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/repository"
	"github.com/go-chi/chi/v5"
)

// DataService defines the data item operations required by the HTTP
// handlers.
type DataService interface {
	List(ctx context.Context, ownerID int64) ([]models.DataItem, error)
	Get(ctx context.Context, id, ownerID int64) (*models.DataItem, error)
	Create(ctx context.Context, item models.DataItem) (*models.DataItem, error)
	Update(ctx context.Context, id, ownerID int64, patch models.DataItemPatch) (*models.DataItem, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

// DataHandler handles HTTP requests for data item CRUD.
type DataHandler struct {
	DataService DataService
}

// dataItemView is the API shape of a data item: the stored extra_data
// value is exposed as "metadata".
type dataItemView struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Title     string          `json:"title"`
	Content   *string         `json:"content"`
	DataType  *string         `json:"data_type"`
	Metadata  json.RawMessage `json:"metadata"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func newDataItemView(item models.DataItem) dataItemView {
	return dataItemView{
		ID:        item.ID,
		UserID:    item.UserID,
		Title:     item.Title,
		Content:   item.Content,
		DataType:  item.DataType,
		Metadata:  item.Metadata,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List handles GET /api/data.
func (h *DataHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	items, err := h.DataService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]dataItemView, 0, len(items))
	for _, item := range items {
		views = append(views, newDataItemView(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data_items": views})
}

// Create handles POST /api/data. An empty object is no data at all;
// title is required and non-empty; all other fields pass through
// verbatim.
func (h *DataHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req models.DataItemPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if !req.Title.Valid || req.Title.Value == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	item := models.DataItem{
		UserID:   userID,
		Title:    req.Title.Value,
		Content:  req.Content.Ptr(),
		DataType: req.DataType.Ptr(),
	}
	if req.Metadata.Valid {
		item.Metadata = req.Metadata.Value
	}

	created, err := h.DataService.Create(r.Context(), item)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Data item created successfully",
		"data_item": newDataItemView(*created),
	})
}

// Get handles GET /api/data/{id}. A non-owned id reads as not-found.
func (h *DataHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Data item not found")
		return
	}

	item, err := h.DataService.Get(r.Context(), id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Data item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data_item": newDataItemView(*item)})
}

// Update handles PUT /api/data/{id}. Only keys present in the payload are
// overwritten.
func (h *DataHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Data item not found")
		return
	}

	var patch models.DataItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	// Title stays required: an explicit null would otherwise be stored as
	// the empty string.
	if patch.Title.Set && !patch.Title.Valid {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	item, err := h.DataService.Update(r.Context(), id, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Data item not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Data item updated successfully",
		"data_item": newDataItemView(*item),
	})
}

// Delete handles DELETE /api/data/{id}. The existence check runs first so
// a missing or non-owned id responds 404.
func (h *DataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Data item not found")
		return
	}

	if _, err := h.DataService.Get(r.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Data item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.DataService.Delete(r.Context(), id, userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Data item deleted successfully"})
}
