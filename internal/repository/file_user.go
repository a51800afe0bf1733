package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/store"
)

const usersKind = "users"

// FileUsers implements Users over the JSON file store.
type FileUsers struct {
	store *store.Store
}

// NewFileUsers creates a FileUsers backed by the given store.
func NewFileUsers(s *store.Store) *FileUsers {
	return &FileUsers{store: s}
}

func (r *FileUsers) load() ([]models.User, error) {
	var users []models.User
	if err := r.store.Load(usersKind, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

// Create stores a new user record. The username check is a linear scan
// over the whole collection, exact match.
func (r *FileUsers) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return nil, ErrDuplicateUsername
		}
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           store.NextID(users),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	users = append(users, user)
	if err := r.store.Save(usersKind, users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	return &user, nil
}

// ByUsername returns the first user with the exact username.
func (r *FileUsers) ByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// ByID returns the user with the given id.
func (r *FileUsers) ByID(ctx context.Context, id int64) (*models.User, error) {
	users, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}
