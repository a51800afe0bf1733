package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/lib/pq"
)

// PostgresUsers implements Users against a PostgreSQL database.
type PostgresUsers struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUsers creates a PostgresUsers with the given database connection.
func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{DB: db}
}

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

// Create inserts a new user row. A unique violation on the username maps
// to ErrDuplicateUsername.
func (r *PostgresUsers) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $3) RETURNING id
	`, username, passwordHash, now).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &user, nil
}

// ByUsername returns the user with the exact username.
func (r *PostgresUsers) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users WHERE username = $1
	`, username))
}

// ByID returns the user with the given id.
func (r *PostgresUsers) ByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`, id))
}

func (r *PostgresUsers) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
