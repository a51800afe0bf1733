package service

import (
	"context"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/repository"
)

// DataItems implements data item operations by delegating to a
// DataItems repository.
type DataItems struct {
	repo repository.DataItems
}

// NewDataItems constructs a DataItems service using the provided repository.
func NewDataItems(repo repository.DataItems) *DataItems {
	return &DataItems{repo: repo}
}

// List returns all items owned by ownerID.
func (s *DataItems) List(ctx context.Context, ownerID int64) ([]models.DataItem, error) {
	return s.repo.List(ctx, ownerID)
}

// Get returns a single owned item.
func (s *DataItems) Get(ctx context.Context, id, ownerID int64) (*models.DataItem, error) {
	return s.repo.Get(ctx, id, ownerID)
}

// Create stores a new item for its owner.
func (s *DataItems) Create(ctx context.Context, item models.DataItem) (*models.DataItem, error) {
	return s.repo.Create(ctx, item)
}

// Update applies a partial update to an owned item.
func (s *DataItems) Update(ctx context.Context, id, ownerID int64, patch models.DataItemPatch) (*models.DataItem, error) {
	return s.repo.Update(ctx, id, ownerID, patch)
}

// Delete removes an owned item.
func (s *DataItems) Delete(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}
