package repository

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/auth/domain"
	"github.com/speaklab/speaklab/pkg/db"
)

func newTestRepo(t *testing.T) domain.Repository {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo, _ := New(conn)
	return repo
}

func TestCreateDuplicateEmailHitsUniqueIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, &domain.User{
		ID:         snowflake.ID(1),
		ExternalID: "ext-1",
		Email:      "alice@example.com",
	}); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	// Insert straight through the repository so the unique index, not the
	// service pre-check, rejects the duplicate.
	err := repo.Create(ctx, &domain.User{
		ID:         snowflake.ID(2),
		ExternalID: "ext-2",
		Email:      "alice@example.com",
	})
	if err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := repo.FindByEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("expected original user to survive, got %v", err)
	}
}
