package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/repository"
	"github.com/atinyakov/datavault/internal/secret"
)

// Credentials implements credential operations, running the secret fields
// (password, api_key) through the at-rest cipher on every read and write.
type Credentials struct {
	repo   repository.Credentials
	cipher secret.Cipher
}

// NewCredentials constructs a Credentials service using the provided
// repository and cipher.
func NewCredentials(repo repository.Credentials, cipher secret.Cipher) *Credentials {
	return &Credentials{repo: repo, cipher: cipher}
}

// List returns all credentials owned by ownerID with secrets decrypted.
func (s *Credentials) List(ctx context.Context, ownerID int64) ([]models.Credential, error) {
	creds, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range creds {
		if err := s.open(&creds[i]); err != nil {
			return nil, err
		}
	}
	return creds, nil
}

// Get returns a single owned credential with secrets decrypted.
func (s *Credentials) Get(ctx context.Context, id, ownerID int64) (*models.Credential, error) {
	cred, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.open(cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Create encrypts the secret fields and stores a new credential.
func (s *Credentials) Create(ctx context.Context, cred models.Credential) (*models.Credential, error) {
	if err := s.seal(&cred); err != nil {
		return nil, err
	}
	stored, err := s.repo.Create(ctx, cred)
	if err != nil {
		return nil, err
	}
	if err := s.open(stored); err != nil {
		return nil, err
	}
	return stored, nil
}

// Update encrypts any secret fields present in the patch and applies it.
func (s *Credentials) Update(ctx context.Context, id, ownerID int64, patch models.CredentialPatch) (*models.Credential, error) {
	if patch.Password.Set && patch.Password.Valid {
		enc, err := s.cipher.Encrypt(patch.Password.Value)
		if err != nil {
			return nil, fmt.Errorf("encrypt password: %w", err)
		}
		patch.Password.Value = enc
	}
	if patch.APIKey.Set && patch.APIKey.Valid {
		enc, err := s.cipher.Encrypt(patch.APIKey.Value)
		if err != nil {
			return nil, fmt.Errorf("encrypt api key: %w", err)
		}
		patch.APIKey.Value = enc
	}
	updated, err := s.repo.Update(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	if err := s.open(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an owned credential.
func (s *Credentials) Delete(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}

// seal encrypts the secret fields in place.
func (s *Credentials) seal(cred *models.Credential) error {
	if cred.Password != nil {
		enc, err := s.cipher.Encrypt(*cred.Password)
		if err != nil {
			return fmt.Errorf("encrypt password: %w", err)
		}
		cred.Password = &enc
	}
	if cred.APIKey != nil {
		enc, err := s.cipher.Encrypt(*cred.APIKey)
		if err != nil {
			return fmt.Errorf("encrypt api key: %w", err)
		}
		cred.APIKey = &enc
	}
	return nil
}

// open decrypts the secret fields in place.
func (s *Credentials) open(cred *models.Credential) error {
	if cred.Password != nil {
		plain, err := s.cipher.Decrypt(*cred.Password)
		if err != nil {
			return fmt.Errorf("decrypt password: %w", err)
		}
		cred.Password = &plain
	}
	if cred.APIKey != nil {
		plain, err := s.cipher.Decrypt(*cred.APIKey)
		if err != nil {
			return fmt.Errorf("decrypt api key: %w", err)
		}
		cred.APIKey = &plain
	}
	return nil
}
