package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/repository"
	"github.com/atinyakov/datavault/internal/service"
	"golang.org/x/crypto/bcrypt"
)

type mockUsers struct {
	CreateFunc     func(ctx context.Context, username, passwordHash string) (*models.User, error)
	ByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	ByIDFunc       func(ctx context.Context, id int64) (*models.User, error)
}

func (m *mockUsers) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	return m.CreateFunc(ctx, username, passwordHash)
}
func (m *mockUsers) ByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.ByUsernameFunc(ctx, username)
}
func (m *mockUsers) ByID(ctx context.Context, id int64) (*models.User, error) {
	return m.ByIDFunc(ctx, id)
}

func TestRegister_HashesPassword(t *testing.T) {
	var storedHash string
	users := &mockUsers{
		CreateFunc: func(ctx context.Context, username, passwordHash string) (*models.User, error) {
			storedHash = passwordHash
			return &models.User{ID: 1, Username: username, PasswordHash: passwordHash}, nil
		},
	}
	svc := service.NewAuth(users)

	user, err := svc.Register(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("id = %d; want 1", user.ID)
	}
	if storedHash == "secret1" {
		t.Fatal("password stored without hashing")
	}
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret1")) != nil {
		t.Error("stored hash does not verify against the original password")
	}
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret2")) == nil {
		t.Error("stored hash verifies against a different password")
	}
}

func TestRegister_DuplicatePropagates(t *testing.T) {
	users := &mockUsers{
		CreateFunc: func(context.Context, string, string) (*models.User, error) {
			return nil, repository.ErrDuplicateUsername
		},
	}
	svc := service.NewAuth(users)

	_, err := svc.Register(context.Background(), "alice", "secret1")
	if !errors.Is(err, repository.ErrDuplicateUsername) {
		t.Errorf("error = %v; want ErrDuplicateUsername", err)
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	alice := &models.User{ID: 1, Username: "alice", PasswordHash: string(hash)}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "correct password", username: "alice", password: "secret1"},
		{name: "wrong password", username: "alice", password: "secret2", wantErr: service.ErrInvalidCredentials},
		{name: "unknown user", username: "bob", password: "secret1", wantErr: service.ErrInvalidCredentials},
	}

	users := &mockUsers{
		ByUsernameFunc: func(ctx context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return alice, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	svc := service.NewAuth(users)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v; want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.ID != alice.ID {
				t.Errorf("user id = %d; want %d", user.ID, alice.ID)
			}
		})
	}
}

func TestUserByID_NotFound(t *testing.T) {
	users := &mockUsers{
		ByIDFunc: func(context.Context, int64) (*models.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := service.NewAuth(users)

	_, err := svc.UserByID(context.Background(), 42)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("error = %v; want ErrNotFound", err)
	}
}

func TestTokensIssueParse(t *testing.T) {
	tokens := service.NewTokens("test-secret", time.Hour)

	raw, err := tokens.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if userID != 7 {
		t.Errorf("userID = %d; want 7", userID)
	}
}

func TestTokensParse_WrongSecret(t *testing.T) {
	issuer := service.NewTokens("secret-a", time.Hour)
	parser := service.NewTokens("secret-b", time.Hour)

	raw, err := issuer.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := parser.Parse(raw); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("error = %v; want ErrInvalidToken", err)
	}
}

func TestTokensParse_Expired(t *testing.T) {
	tokens := service.NewTokens("test-secret", -time.Minute)

	raw, err := tokens.Issue(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Parse(raw); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("error = %v; want ErrInvalidToken", err)
	}
}

func TestTokensParse_Garbage(t *testing.T) {
	tokens := service.NewTokens("test-secret", time.Hour)
	if _, err := tokens.Parse("not.a.token"); !errors.Is(err, service.ErrInvalidToken) {
		t.Errorf("error = %v; want ErrInvalidToken", err)
	}
}
