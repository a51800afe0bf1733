package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCredentialsRoundTrip(t *testing.T) {
	repo := NewFileCredentials(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Credential{
		UserID:      1,
		ServiceName: "GitHub",
		Username:    strPtr("octocat"),
		Password:    strPtr("hunter2"),
		Notes:       strPtr("work account"),
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "GitHub", got.ServiceName)
	require.NotNil(t, got.Username)
	assert.Equal(t, "octocat", *got.Username)
	require.NotNil(t, got.Password)
	assert.Equal(t, "hunter2", *got.Password)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "work account", *got.Notes)

	// Omitted optional fields stay null.
	assert.Nil(t, got.Email)
	assert.Nil(t, got.APIKey)
}

func TestFileCredentialsOwnershipScoping(t *testing.T) {
	repo := NewFileCredentials(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Credential{UserID: 1, ServiceName: "AWS"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, created.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	creds, err := repo.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestFileCredentialsPartialUpdate(t *testing.T) {
	repo := NewFileCredentials(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Credential{
		UserID:      1,
		ServiceName: "GitHub",
		Username:    strPtr("octocat"),
		APIKey:      strPtr("old-key"),
	})
	require.NoError(t, err)

	var patch models.CredentialPatch
	require.NoError(t, json.Unmarshal([]byte(`{"api_key":"new-key","email":null}`), &patch))

	updated, err := repo.Update(ctx, created.ID, 1, patch)
	require.NoError(t, err)
	require.NotNil(t, updated.APIKey)
	assert.Equal(t, "new-key", *updated.APIKey)
	assert.Equal(t, "GitHub", updated.ServiceName)
	require.NotNil(t, updated.Username)
	assert.Equal(t, "octocat", *updated.Username)
	assert.Nil(t, updated.Email)
}

func TestFileCredentialsDeleteMissIsNoOp(t *testing.T) {
	repo := NewFileCredentials(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Credential{UserID: 1, ServiceName: "AWS"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, 999, 1))

	require.NoError(t, repo.Delete(ctx, created.ID, 1))
	_, err = repo.Get(ctx, created.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again still succeeds.
	require.NoError(t, repo.Delete(ctx, created.ID, 1))
}
