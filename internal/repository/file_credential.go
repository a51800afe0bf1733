package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/store"
)

const credentialsKind = "credentials"

// FileCredentials implements Credentials over the JSON file store.
type FileCredentials struct {
	store *store.Store
}

// NewFileCredentials creates a FileCredentials backed by the given store.
func NewFileCredentials(s *store.Store) *FileCredentials {
	return &FileCredentials{store: s}
}

func (r *FileCredentials) load() ([]models.Credential, error) {
	var creds []models.Credential
	if err := r.store.Load(credentialsKind, &creds); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return creds, nil
}

// List returns all credentials owned by ownerID in store order.
func (r *FileCredentials) List(ctx context.Context, ownerID int64) ([]models.Credential, error) {
	creds, err := r.load()
	if err != nil {
		return nil, err
	}
	owned := make([]models.Credential, 0, len(creds))
	for _, c := range creds {
		if c.UserID == ownerID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

// Get returns the credential only if both id and owner match.
func (r *FileCredentials) Get(ctx context.Context, id, ownerID int64) (*models.Credential, error) {
	creds, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, c := range creds {
		if c.ID == id && c.UserID == ownerID {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns the next id and timestamps, then persists the collection.
func (r *FileCredentials) Create(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	creds, err := r.load()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	cred.ID = store.NextID(creds)
	cred.CreatedAt = now
	cred.UpdatedAt = now
	creds = append(creds, cred)
	if err := r.store.Save(credentialsKind, creds); err != nil {
		return nil, fmt.Errorf("save credentials: %w", err)
	}
	return &cred, nil
}

// Update overwrites only the fields present in the patch, replacing the
// record in place. On no match the store is left untouched.
func (r *FileCredentials) Update(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error) {
	creds, err := r.load()
	if err != nil {
		return nil, err
	}
	for i, c := range creds {
		if c.ID != id || c.UserID != ownerID {
			continue
		}
		if patch.ServiceName.Set {
			c.ServiceName = patch.ServiceName.Value
		}
		if patch.Username.Set {
			c.Username = patch.Username.Ptr()
		}
		if patch.Email.Set {
			c.Email = patch.Email.Ptr()
		}
		if patch.Password.Set {
			c.Password = patch.Password.Ptr()
		}
		if patch.APIKey.Set {
			c.APIKey = patch.APIKey.Ptr()
		}
		if patch.Notes.Set {
			c.Notes = patch.Notes.Ptr()
		}
		c.UpdatedAt = time.Now().UTC()
		creds[i] = c
		if err := r.store.Save(credentialsKind, creds); err != nil {
			return nil, fmt.Errorf("save credentials: %w", err)
		}
		return &c, nil
	}
	return nil, ErrNotFound
}

// Delete removes the matching record and persists the remainder. A miss
// is a no-op success.
func (r *FileCredentials) Delete(ctx context.Context, id, ownerID int64) error {
	creds, err := r.load()
	if err != nil {
		return err
	}
	kept := creds[:0]
	for _, c := range creds {
		if c.ID == id && c.UserID == ownerID {
			continue
		}
		kept = append(kept, c)
	}
	if err := r.store.Save(credentialsKind, kept); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}
