package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/datavault/internal/models"
)

// PostgresCredentials implements Credentials against a PostgreSQL database.
type PostgresCredentials struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCredentials creates a PostgresCredentials with the given connection.
func NewPostgresCredentials(db *sql.DB) *PostgresCredentials {
	return &PostgresCredentials{DB: db}
}

const credentialColumns = "id, user_id, service_name, username, email, encrypted_password, api_key, notes, created_at, updated_at"

// List returns all credentials owned by ownerID in insertion order.
func (r *PostgresCredentials) List(ctx context.Context, ownerID int64) ([]models.Credential, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+credentialColumns+` FROM credentials WHERE user_id = $1 ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	creds := make([]models.Credential, 0)
	for rows.Next() {
		cred, err := scanCredential(rows.Scan)
		if err != nil {
			return nil, err
		}
		creds = append(creds, *cred)
	}
	return creds, rows.Err()
}

// Get returns the credential only if both id and owner match.
func (r *PostgresCredentials) Get(ctx context.Context, id, ownerID int64) (*models.Credential, error) {
	cred, err := scanCredential(r.DB.QueryRowContext(ctx, `
		SELECT `+credentialColumns+` FROM credentials WHERE id = $1 AND user_id = $2
	`, id, ownerID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cred, err
}

// Create inserts a new row; the id comes from the table sequence.
func (r *PostgresCredentials) Create(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	now := time.Now().UTC()
	cred.CreatedAt = now
	cred.UpdatedAt = now
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO credentials (user_id, service_name, username, email, encrypted_password, api_key, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id
	`, cred.UserID, cred.ServiceName, cred.Username, cred.Email, cred.Password, cred.APIKey, cred.Notes, now).Scan(&cred.ID)
	if err != nil {
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return &cred, nil
}

// Update applies only the fields present in the patch; an unmatched
// (id, owner) pair updates nothing and maps to ErrNotFound.
func (r *PostgresCredentials) Update(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 9)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ServiceName.Set {
		add("service_name", patch.ServiceName.Value)
	}
	if patch.Username.Set {
		add("username", patch.Username.Ptr())
	}
	if patch.Email.Set {
		add("email", patch.Email.Ptr())
	}
	if patch.Password.Set {
		add("encrypted_password", patch.Password.Ptr())
	}
	if patch.APIKey.Set {
		add("api_key", patch.APIKey.Ptr())
	}
	if patch.Notes.Set {
		add("notes", patch.Notes.Ptr())
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`
		UPDATE credentials SET %s WHERE id = $%d AND user_id = $%d
		RETURNING `+credentialColumns,
		strings.Join(set, ", "), len(args)-1, len(args))

	cred, err := scanCredential(r.DB.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cred, err
}

// Delete removes the matching row. A miss is a no-op success.
func (r *PostgresCredentials) Delete(ctx context.Context, id, ownerID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM credentials WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func scanCredential(scan func(...any) error) (*models.Credential, error) {
	var c models.Credential
	err := scan(&c.ID, &c.UserID, &c.ServiceName, &c.Username, &c.Email,
		&c.Password, &c.APIKey, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan credential: %w", err)
	}
	return &c, nil
}
