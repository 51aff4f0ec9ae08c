package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/user"
)

var ErrWeakPassword = errors.New("password must be at least 8 characters")

// UserAccounts handles registration and credential checks. Token minting
// lives in the API layer; this service only establishes identity.
type UserAccounts struct {
	users UserStore
	clock clock.Clock
}

func NewUserAccounts(users UserStore, clk clock.Clock) *UserAccounts {
	return &UserAccounts{users: users, clock: clk}
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// Register creates an ArtPassenger account. Username and email must both be
// unused.
func (s *UserAccounts) Register(ctx context.Context, params RegisterParams) (user.User, error) {
	if len(params.Password) < 8 {
		return user.User{}, ErrWeakPassword
	}
	if _, ok, err := s.users.FindByUsername(ctx, params.Username); err != nil {
		return user.User{}, fmt.Errorf("check username: %w", err)
	} else if ok {
		return user.User{}, user.ErrUsernameTaken
	}
	if _, ok, err := s.users.FindByEmail(ctx, params.Email); err != nil {
		return user.User{}, fmt.Errorf("check email: %w", err)
	} else if ok {
		return user.User{}, user.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.NewPassenger(uuid.New().String(), params.Username, params.Email, string(hash), s.clock.Now())
	if err := s.users.Upsert(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("persist user: %w", err)
	}
	return u, nil
}

// Login verifies the password against the stored hash. A missing user and a
// wrong password both map to ErrInvalidCredentials.
func (s *UserAccounts) Login(ctx context.Context, username, password string) (user.User, error) {
	u, ok, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return user.User{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return user.User{}, user.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.User{}, user.ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserAccounts) Get(ctx context.Context, userID string) (user.User, error) {
	u, ok, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("load user: %w", err)
	}
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
