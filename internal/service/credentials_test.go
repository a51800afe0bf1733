package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/secret"
	"github.com/atinyakov/datavault/internal/service"
)

type mockCredentials struct {
	CreateFunc func(ctx context.Context, cred models.Credential) (*models.Credential, error)
	GetFunc    func(ctx context.Context, id, ownerID int64) (*models.Credential, error)
	ListFunc   func(ctx context.Context, ownerID int64) ([]models.Credential, error)
	UpdateFunc func(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error)
	DeleteFunc func(ctx context.Context, id, ownerID int64) error
}

func (m *mockCredentials) Create(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	return m.CreateFunc(ctx, cred)
}
func (m *mockCredentials) Get(ctx context.Context, id, ownerID int64) (*models.Credential, error) {
	return m.GetFunc(ctx, id, ownerID)
}
func (m *mockCredentials) List(ctx context.Context, ownerID int64) ([]models.Credential, error) {
	return m.ListFunc(ctx, ownerID)
}
func (m *mockCredentials) Update(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error) {
	return m.UpdateFunc(ctx, id, ownerID, patch)
}
func (m *mockCredentials) Delete(ctx context.Context, id, ownerID int64) error {
	return m.DeleteFunc(ctx, id, ownerID)
}

func strPtr(s string) *string { return &s }

// With the AES cipher the repository only ever sees ciphertext, while the
// service's responses carry the original values.
func TestCredentialsCreate_EncryptsAtRest(t *testing.T) {
	cipher, err := secret.NewAESGCM("test-key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	var atRest models.Credential
	repo := &mockCredentials{
		CreateFunc: func(ctx context.Context, cred models.Credential) (*models.Credential, error) {
			atRest = cred
			stored := cred
			stored.ID = 1
			return &stored, nil
		},
	}
	svc := service.NewCredentials(repo, cipher)

	created, err := svc.Create(context.Background(), models.Credential{
		UserID:      1,
		ServiceName: "GitHub",
		Password:    strPtr("hunter2"),
		APIKey:      strPtr("key-123"),
		Notes:       strPtr("plain notes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atRest.Password == nil || *atRest.Password == "hunter2" {
		t.Error("password reached the repository unencrypted")
	}
	if atRest.APIKey == nil || *atRest.APIKey == "key-123" {
		t.Error("api key reached the repository unencrypted")
	}
	if atRest.Notes == nil || *atRest.Notes != "plain notes" {
		t.Error("notes are not a secret field and must pass through")
	}

	if created.Password == nil || *created.Password != "hunter2" {
		t.Errorf("response password = %v; want decrypted original", created.Password)
	}
	if created.APIKey == nil || *created.APIKey != "key-123" {
		t.Errorf("response api key = %v; want decrypted original", created.APIKey)
	}
}

func TestCredentialsPlaintextCipherKeepsReferenceBehavior(t *testing.T) {
	repo := &mockCredentials{
		CreateFunc: func(ctx context.Context, cred models.Credential) (*models.Credential, error) {
			if cred.Password == nil || *cred.Password != "hunter2" {
				t.Errorf("at rest password = %v; want plaintext hunter2", cred.Password)
			}
			stored := cred
			stored.ID = 1
			return &stored, nil
		},
	}
	svc := service.NewCredentials(repo, secret.Plaintext{})

	created, err := svc.Create(context.Background(), models.Credential{
		UserID:      1,
		ServiceName: "GitHub",
		Password:    strPtr("hunter2"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Password == nil || *created.Password != "hunter2" {
		t.Errorf("password = %v; want hunter2", created.Password)
	}
}

func TestCredentialsUpdate_EncryptsPatchedSecrets(t *testing.T) {
	cipher, err := secret.NewAESGCM("test-key")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	var patched models.CredentialPatch
	repo := &mockCredentials{
		UpdateFunc: func(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error) {
			patched = patch
			return &models.Credential{ID: id, UserID: ownerID, ServiceName: "GitHub", Password: patch.Password.Ptr()}, nil
		},
	}
	svc := service.NewCredentials(repo, cipher)

	var patch models.CredentialPatch
	if err := json.Unmarshal([]byte(`{"password":"new-pass","username":"octocat"}`), &patch); err != nil {
		t.Fatalf("unmarshal patch: %v", err)
	}

	updated, err := svc.Update(context.Background(), 1, 1, patch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patched.Password.Value == "new-pass" {
		t.Error("patched password reached the repository unencrypted")
	}
	if patched.Username.Value != "octocat" {
		t.Error("username is not a secret field and must pass through")
	}
	if updated.Password == nil || *updated.Password != "new-pass" {
		t.Errorf("response password = %v; want decrypted original", updated.Password)
	}
}
