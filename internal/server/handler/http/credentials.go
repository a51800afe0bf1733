package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/datavault/internal/middleware"
	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/repository"
)

// CredentialService defines the credential operations required by the
// HTTP handlers.
type CredentialService interface {
	List(ctx context.Context, ownerID int64) ([]models.Credential, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Credential, error)
	Create(ctx context.Context, cred models.Credential) (*models.Credential, error)
	Update(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

// CredentialHandler handles HTTP requests for credential CRUD.
type CredentialHandler struct {
	CredentialService CredentialService
}

// List handles GET /api/credentials.
func (h *CredentialHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	creds, err := h.CredentialService.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credentials": creds})
}

// Create handles POST /api/credentials. An empty object is no data at
// all; service name is required; the request's "password" field is
// stored under encrypted_password.
func (h *CredentialHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req models.CredentialPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if req.Empty() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if !req.ServiceName.Valid || req.ServiceName.Value == "" {
		writeError(w, http.StatusBadRequest, "Service name is required")
		return
	}

	cred, err := h.CredentialService.Create(r.Context(), models.Credential{
		UserID:      userID,
		ServiceName: req.ServiceName.Value,
		Username:    req.Username.Ptr(),
		Email:       req.Email.Ptr(),
		Password:    req.Password.Ptr(),
		APIKey:      req.APIKey.Ptr(),
		Notes:       req.Notes.Ptr(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Credential created successfully",
		"credential": cred,
	})
}

// Get handles GET /api/credentials/{id}. A non-owned id reads as not-found.
func (h *CredentialHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Credential not found")
		return
	}

	cred, err := h.CredentialService.Get(r.Context(), id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Credential not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"credential": cred})
}

// Update handles PUT /api/credentials/{id}.
func (h *CredentialHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Credential not found")
		return
	}

	var patch models.CredentialPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "No data provided")
		return
	}
	// Service name stays required: an explicit null would otherwise be
	// stored as the empty string.
	if patch.ServiceName.Set && !patch.ServiceName.Valid {
		writeError(w, http.StatusBadRequest, "Service name is required")
		return
	}

	cred, err := h.CredentialService.Update(r.Context(), id, userID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Credential not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Credential updated successfully",
		"credential": cred,
	})
}

// Delete handles DELETE /api/credentials/{id}.
func (h *CredentialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "Credential not found")
		return
	}

	if _, err := h.CredentialService.Get(r.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Credential not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.CredentialService.Delete(r.Context(), id, userID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Credential deleted successfully"})
}
