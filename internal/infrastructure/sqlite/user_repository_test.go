package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JulHeg/LeRobotPanorama/internal/core/domain"
	"github.com/JulHeg/LeRobotPanorama/internal/core/repository"
)

func newTestUserRepo(t *testing.T) repository.UserRepository {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(db)
}

func TestUserRepository(t *testing.T) {
	repo := newTestUserRepo(t)

	user := domain.NewUser("operator", "$2a$10$fakehash")
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("find by username", func(t *testing.T) {
		got, err := repo.FindByUsername(context.Background(), "operator")
		if err != nil {
			t.Fatalf("FindByUsername failed: %v", err)
		}
		if got.Password != user.Password {
			t.Errorf("expected stored hash %s, got %s", user.Password, got.Password)
		}
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		_, err := repo.FindByUsername(context.Background(), "nobody")
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("update changes the hash and touches updated_at", func(t *testing.T) {
		user.Password = "$2a$10$otherhash"
		user.Touch()
		if err := repo.Update(context.Background(), user); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := repo.FindByUsername(context.Background(), "operator")
		if err != nil {
			t.Fatalf("FindByUsername failed: %v", err)
		}
		if got.Password != "$2a$10$otherhash" {
			t.Errorf("expected updated hash, got %s", got.Password)
		}
		if !got.UpdatedAt.After(got.CreatedAt) {
			t.Error("expected updated_at after created_at")
		}
	})

	t.Run("update of missing user errors", func(t *testing.T) {
		ghost := domain.NewUser("ghost", "$2a$10$x")
		err := repo.Update(context.Background(), ghost)
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})

	t.Run("list is ordered by username", func(t *testing.T) {
		if err := repo.Create(context.Background(), domain.NewUser("admin", "$2a$10$y")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		users, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(users))
		}
		if users[0].Username != "admin" || users[1].Username != "operator" {
			t.Errorf("expected admin before operator, got %s, %s", users[0].Username, users[1].Username)
		}
	})

	t.Run("delete removes the user", func(t *testing.T) {
		if err := repo.Delete(context.Background(), "admin"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.FindByUsername(context.Background(), "admin"); err == nil {
			t.Error("expected deleted user to be gone")
		}
		if err := repo.Delete(context.Background(), "admin"); err == nil {
			t.Error("expected second delete to error")
		}
	})
}
