// Package models defines the core data structures for users, data items,
// and stored credentials.
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `json:"id"`
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// PasswordHash is the hashed password of the user. Never exposed to clients.
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordID returns the record identifier for store id assignment.
func (u User) RecordID() int64 { return u.ID }

// PublicUser is the client-facing projection of a User, without the
// password hash.
type PublicUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Public projects the user for API responses.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// DataItem is a free-form content record owned by a user.
type DataItem struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	// Title is required and non-empty on creation.
	Title   string  `json:"title"`
	Content *string `json:"content"`
	// DataType is a free-form tag ("note", "document", "json", ...).
	DataType *string `json:"data_type"`
	// Metadata is an arbitrary structured value. Persisted under
	// extra_data, exposed to clients as "metadata".
	Metadata  json.RawMessage `json:"extra_data"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RecordID returns the record identifier for store id assignment.
func (d DataItem) RecordID() int64 { return d.ID }

// Credential is a per-service secret record owned by a user.
// Password and APIKey pass through the configured at-rest cipher;
// with the plaintext cipher they are stored and returned as-is.
type Credential struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ServiceName string    `json:"service_name"`
	Username    *string   `json:"username"`
	Email       *string   `json:"email"`
	Password    *string   `json:"encrypted_password"`
	APIKey      *string   `json:"api_key"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RecordID returns the record identifier for store id assignment.
func (c Credential) RecordID() int64 { return c.ID }

// Field carries the tri-state of a partial-update payload member:
// absent from the payload, explicitly null, or set to a value.
// The zero value means "absent".
type Field[T any] struct {
	// Set reports whether the key was present in the payload.
	Set bool
	// Valid reports whether the value is non-null. Meaningless unless Set.
	Valid bool
	// Value is the decoded value when Set and Valid.
	Value T
}

var nullLiteral = []byte("null")

// UnmarshalJSON is only invoked for keys present in the payload, which is
// what distinguishes "absent" from "null".
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(data, nullLiteral) {
		f.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// Ptr returns the value as a nullable pointer: nil when null, the decoded
// value otherwise. Only meaningful when Set.
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// DataItemPatch is the partial-update payload for a data item. Only keys
// present in the request body are applied.
type DataItemPatch struct {
	Title    Field[string]          `json:"title"`
	Content  Field[string]          `json:"content"`
	DataType Field[string]          `json:"data_type"`
	Metadata Field[json.RawMessage] `json:"metadata"`
}

// Empty reports whether no known key was present in the payload.
func (p DataItemPatch) Empty() bool {
	return !p.Title.Set && !p.Content.Set && !p.DataType.Set && !p.Metadata.Set
}

// CredentialPatch is the partial-update payload for a credential.
type CredentialPatch struct {
	ServiceName Field[string] `json:"service_name"`
	Username    Field[string] `json:"username"`
	Email       Field[string] `json:"email"`
	Password    Field[string] `json:"password"`
	APIKey      Field[string] `json:"api_key"`
	Notes       Field[string] `json:"notes"`
}

// Empty reports whether no known key was present in the payload.
func (p CredentialPatch) Empty() bool {
	return !p.ServiceName.Set && !p.Username.Set && !p.Email.Set &&
		!p.Password.Set && !p.APIKey.Set && !p.Notes.Set
}
