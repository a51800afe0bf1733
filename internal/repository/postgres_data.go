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

// PostgresDataItems implements DataItems against a PostgreSQL database.
type PostgresDataItems struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDataItems creates a PostgresDataItems with the given connection.
func NewPostgresDataItems(db *sql.DB) *PostgresDataItems {
	return &PostgresDataItems{DB: db}
}

const dataItemColumns = "id, user_id, title, content, data_type, extra_data, created_at, updated_at"

// List returns all items owned by ownerID in insertion order.
func (r *PostgresDataItems) List(ctx context.Context, ownerID int64) ([]models.DataItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+dataItemColumns+` FROM data_items WHERE user_id = $1 ORDER BY id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list data items: %w", err)
	}
	defer rows.Close()

	items := make([]models.DataItem, 0)
	for rows.Next() {
		item, err := scanDataItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Get returns the item only if both id and owner match.
func (r *PostgresDataItems) Get(ctx context.Context, id, ownerID int64) (*models.DataItem, error) {
	item, err := scanDataItem(r.DB.QueryRowContext(ctx, `
		SELECT `+dataItemColumns+` FROM data_items WHERE id = $1 AND user_id = $2
	`, id, ownerID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// Create inserts a new row; the id comes from the table sequence, so ids
// are never reused even after deletion.
func (r *PostgresDataItems) Create(ctx context.Context, item models.DataItem) (*models.DataItem, error) {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO data_items (user_id, title, content, data_type, extra_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id
	`, item.UserID, item.Title, item.Content, item.DataType, []byte(item.Metadata), now).Scan(&item.ID)
	if err != nil {
		return nil, fmt.Errorf("insert data item: %w", err)
	}
	return &item, nil
}

// Update applies only the fields present in the patch in a single
// statement; an unmatched (id, owner) pair updates nothing and maps to
// ErrNotFound.
func (r *PostgresDataItems) Update(ctx context.Context, id, ownerID int64, patch models.DataItemPatch) (*models.DataItem, error) {
	set := make([]string, 0, 5)
	args := make([]any, 0, 7)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title.Set {
		add("title", patch.Title.Value)
	}
	if patch.Content.Set {
		add("content", patch.Content.Ptr())
	}
	if patch.DataType.Set {
		add("data_type", patch.DataType.Ptr())
	}
	if patch.Metadata.Set {
		var meta []byte
		if patch.Metadata.Valid {
			meta = []byte(patch.Metadata.Value)
		}
		add("extra_data", meta)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id, ownerID)
	query := fmt.Sprintf(`
		UPDATE data_items SET %s WHERE id = $%d AND user_id = $%d
		RETURNING `+dataItemColumns,
		strings.Join(set, ", "), len(args)-1, len(args))

	item, err := scanDataItem(r.DB.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// Delete removes the matching row. A miss is a no-op success.
func (r *PostgresDataItems) Delete(ctx context.Context, id, ownerID int64) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM data_items WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete data item: %w", err)
	}
	return nil
}

func scanDataItem(scan func(...any) error) (*models.DataItem, error) {
	var item models.DataItem
	var meta []byte
	err := scan(&item.ID, &item.UserID, &item.Title, &item.Content, &item.DataType,
		&meta, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan data item: %w", err)
	}
	item.Metadata = meta
	return &item, nil
}
