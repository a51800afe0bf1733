// Package repository provides persistence implementations for users, data
// items, and credentials, backed either by the JSON file store or by
// PostgreSQL.
package repository

import (
	"context"
	"errors"

	"github.com/atinyakov/datavault/internal/models"
)

// ErrNotFound is returned when no record matches both the id and the
// owner id. A record owned by someone else is indistinguishable from a
// missing one.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateUsername is returned when registering a username that is
// already taken (case-sensitive exact match).
var ErrDuplicateUsername = errors.New("username already exists")

// Users is the persistence contract for user records.
type Users interface {
	// Create stores a new user with the given username and password hash,
	// assigning the next id and timestamps. Fails with
	// ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	// ByUsername returns the user with the exact username, or ErrNotFound.
	ByUsername(ctx context.Context, username string) (*models.User, error)
	// ByID returns the user with the given id, or ErrNotFound.
	ByID(ctx context.Context, id int64) (*models.User, error)
}

// DataItems is the persistence contract for data item records. Every
// operation is owner-scoped.
type DataItems interface {
	List(ctx context.Context, ownerID int64) ([]models.DataItem, error)
	Get(ctx context.Context, id, ownerID int64) (*models.DataItem, error)
	Create(ctx context.Context, item models.DataItem) (*models.DataItem, error)
	Update(ctx context.Context, id, ownerID int64, patch models.DataItemPatch) (*models.DataItem, error)
	// Delete removes the matching record. Deleting a missing or non-owned
	// id is a no-op that still reports success.
	Delete(ctx context.Context, id, ownerID int64) error
}

// Credentials is the persistence contract for credential records. Every
// operation is owner-scoped.
type Credentials interface {
	List(ctx context.Context, ownerID int64) ([]models.Credential, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Credential, error)
	Create(ctx context.Context, cred models.Credential) (*models.Credential, error)
	Update(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error)
	Delete(ctx context.Context, id, ownerID int64) error
}
