package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/store"
)

const dataItemsKind = "data_items"

// FileDataItems implements DataItems over the JSON file store.
type FileDataItems struct {
	store *store.Store
}

// NewFileDataItems creates a FileDataItems backed by the given store.
func NewFileDataItems(s *store.Store) *FileDataItems {
	return &FileDataItems{store: s}
}

func (r *FileDataItems) load() ([]models.DataItem, error) {
	var items []models.DataItem
	if err := r.store.Load(dataItemsKind, &items); err != nil {
		return nil, fmt.Errorf("load data items: %w", err)
	}
	return items, nil
}

// List returns all items owned by ownerID in store order.
func (r *FileDataItems) List(ctx context.Context, ownerID int64) ([]models.DataItem, error) {
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	owned := make([]models.DataItem, 0, len(items))
	for _, it := range items {
		if it.UserID == ownerID {
			owned = append(owned, it)
		}
	}
	return owned, nil
}

// Get returns the item only if both id and owner match.
func (r *FileDataItems) Get(ctx context.Context, id, ownerID int64) (*models.DataItem, error) {
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id && it.UserID == ownerID {
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

// Create assigns the next id and timestamps, then persists the collection.
func (r *FileDataItems) Create(ctx context.Context, item models.DataItem) (*models.DataItem, error) {
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item.ID = store.NextID(items)
	item.CreatedAt = now
	item.UpdatedAt = now
	items = append(items, item)
	if err := r.store.Save(dataItemsKind, items); err != nil {
		return nil, fmt.Errorf("save data items: %w", err)
	}
	return &item, nil
}

// Update overwrites only the fields present in the patch, replacing the
// record in place so store order is preserved. On no match the store is
// left untouched.
func (r *FileDataItems) Update(ctx context.Context, id, ownerID int64, patch models.DataItemPatch) (*models.DataItem, error) {
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for i, it := range items {
		if it.ID != id || it.UserID != ownerID {
			continue
		}
		if patch.Title.Set {
			it.Title = patch.Title.Value
		}
		if patch.Content.Set {
			it.Content = patch.Content.Ptr()
		}
		if patch.DataType.Set {
			it.DataType = patch.DataType.Ptr()
		}
		if patch.Metadata.Set {
			if patch.Metadata.Valid {
				it.Metadata = patch.Metadata.Value
			} else {
				it.Metadata = nil
			}
		}
		it.UpdatedAt = time.Now().UTC()
		items[i] = it
		if err := r.store.Save(dataItemsKind, items); err != nil {
			return nil, fmt.Errorf("save data items: %w", err)
		}
		return &it, nil
	}
	return nil, ErrNotFound
}

// Delete removes the matching record and persists the remainder. A miss
// is a no-op success.
func (r *FileDataItems) Delete(ctx context.Context, id, ownerID int64) error {
	items, err := r.load()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID == id && it.UserID == ownerID {
			continue
		}
		kept = append(kept, it)
	}
	if err := r.store.Save(dataItemsKind, kept); err != nil {
		return fmt.Errorf("save data items: %w", err)
	}
	return nil
}
