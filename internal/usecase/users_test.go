package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dchgoh/SWE30003-ART-System/internal/clock"
	"github.com/dchgoh/SWE30003-ART-System/internal/domain/user"
	"github.com/dchgoh/SWE30003-ART-System/internal/storage/jsonstore"
)

func newAccounts(t *testing.T) *UserAccounts {
	t.Helper()
	store := jsonstore.NewStore(t.TempDir())
	clk := clock.NewFixed(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	return NewUserAccounts(store.Users, clk)
}

func TestUserAccountsRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("registers a passenger", func(t *testing.T) {
		accounts := newAccounts(t)
		u, err := accounts.Register(ctx, RegisterParams{Username: "alex", Email: "alex@example.com", Password: "supersecret"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if u.Type != user.TypePassenger || u.Passenger == nil {
			t.Fatalf("expected passenger account, got %+v", u)
		}
		if u.PasswordHash == "supersecret" || u.PasswordHash == "" {
			t.Fatalf("password must be stored hashed")
		}
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		accounts := newAccounts(t)
		_, err := accounts.Register(ctx, RegisterParams{Username: "alex", Email: "a@example.com", Password: "short"})
		if !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("rejects duplicate username and email", func(t *testing.T) {
		accounts := newAccounts(t)
		if _, err := accounts.Register(ctx, RegisterParams{Username: "alex", Email: "alex@example.com", Password: "supersecret"}); err != nil {
			t.Fatalf("seed register: %v", err)
		}
		_, err := accounts.Register(ctx, RegisterParams{Username: "alex", Email: "other@example.com", Password: "supersecret"})
		if !errors.Is(err, user.ErrUsernameTaken) {
			t.Fatalf("expected ErrUsernameTaken, got %v", err)
		}
		_, err = accounts.Register(ctx, RegisterParams{Username: "sam", Email: "alex@example.com", Password: "supersecret"})
		if !errors.Is(err, user.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestUserAccountsLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	accounts := newAccounts(t)
	registered, err := accounts.Register(ctx, RegisterParams{Username: "alex", Email: "alex@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		u, err := accounts.Login(ctx, "alex", "supersecret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if u.ID != registered.ID {
			t.Fatalf("expected user %s, got %s", registered.ID, u.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := accounts.Login(ctx, "alex", "wrong-password"); !errors.Is(err, user.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user maps to the same error", func(t *testing.T) {
		if _, err := accounts.Login(ctx, "ghost", "supersecret"); !errors.Is(err, user.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
