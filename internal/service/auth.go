package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/atinyakov/datavault/internal/models"
	"github.com/atinyakov/datavault/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when login fails, without revealing
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Auth implements registration and login on top of a user repository.
type Auth struct {
	users repository.Users
}

// NewAuth constructs an Auth using the provided repository.
func NewAuth(users repository.Users) *Auth {
	return &Auth{users: users}
}

// Register hashes the password and stores a new user. Propagates
// repository.ErrDuplicateUsername for taken usernames.
func (a *Auth) Register(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return a.users.Create(ctx, username, string(hash))
}

// Login verifies the username/password pair. Both an unknown username and
// a wrong password yield ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.users.ByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UserByID returns the user with the given id.
func (a *Auth) UserByID(ctx context.Context, id int64) (*models.User, error) {
	return a.users.ByID(ctx, id)
}
