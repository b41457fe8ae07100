package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/divvyhq/divvy/internal/models"
	"github.com/divvyhq/divvy/internal/storage/sqlite"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
		t.Errorf("claims = %s/%s, want user-1/alice@example.com", claims.UserID, claims.Email)
	}

	t.Run("garbage token rejected", func(t *testing.T) {
		if _, err := manager.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token signed with another key rejected", func(t *testing.T) {
		other := NewJWTManager("a-completely-different-secret-key", time.Hour)
		otherToken, err := other.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(otherToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-32-bytes-long!!!", -time.Minute)
		token, err := expired.Generate(user)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestPasswordAuthenticator(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	authenticator := NewPasswordAuthenticator(store)
	ctx := context.Background()

	user, err := authenticator.Register(ctx, "alice@example.com", "Alice", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" {
		t.Error("Expected user ID to be generated")
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("Password must not be stored in plain text")
	}

	t.Run("weak password rejected", func(t *testing.T) {
		if _, err := authenticator.Register(ctx, "bob@example.com", "Bob", "short"); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Register error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		if _, err := authenticator.Register(ctx, "alice@example.com", "Alice 2", "correct-horse"); !errors.Is(err, ErrEmailExists) {
			t.Errorf("Register error = %v, want ErrEmailExists", err)
		}
	})

	t.Run("authenticate with correct password", func(t *testing.T) {
		got, err := authenticator.Authenticate(ctx, "alice@example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID = %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		if _, err := authenticator.Authenticate(ctx, "alice@example.com", "wrong-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email rejected", func(t *testing.T) {
		if _, err := authenticator.Authenticate(ctx, "nobody@example.com", "correct-horse"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate error = %v, want ErrInvalidCredentials", err)
		}
	})
}
