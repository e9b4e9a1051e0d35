package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/page/domain"
	"github.com/speaklab/speaklab/internal/page/repository"
	"github.com/speaklab/speaklab/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Page{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(conn),
	})
}

func TestGetBySlugRendersMarkdown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		Title:   "About Us",
		Content: "# Hello\n\nSome **bold** text.",
	})
	assert.NoError(t, err)

	page, err := svc.GetBySlug(ctx, "about-us")
	assert.NoError(t, err)
	assert.Equal(t, "About Us", page.Title)
	assert.Contains(t, page.HTML, "<h1>Hello</h1>")
	assert.Contains(t, page.HTML, "<strong>bold</strong>")
}

func TestGetBySlugSkipsInactivePages(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	inactive := false
	_, err := svc.Create(ctx, domain.CreateRequest{
		Title:    "Draft",
		IsActive: &inactive,
	})
	assert.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "draft")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)

	_, err = svc.GetBySlug(ctx, "never-created")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Title: "FAQ"})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{Title: "Other", Slug: "faq"})
	assert.ErrorIs(t, err, domain.ErrPageExists)
}

func TestHomeIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Home(ctx)
	assert.NoError(t, err)
	assert.Equal(t, domain.HomeSlug, first.Slug)
	assert.NotEmpty(t, first.HTML)

	second, err := svc.Home(ctx)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	pages, err := svc.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestHomeStaysHiddenWhenDeactivated(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Home(ctx)
	assert.NoError(t, err)

	inactive := false
	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{IsActive: &inactive})
	assert.NoError(t, err)

	// The deactivated row keeps its slug, so Home must not resurrect it
	// with a fresh placeholder.
	_, err = svc.Home(ctx)
	assert.ErrorIs(t, err, domain.ErrPageNotFound)

	pages, err := svc.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, pages, 1)
	assert.Equal(t, created.ID, pages[0].ID)
	assert.False(t, pages[0].IsActive)
}

func TestUpdateTogglesVisibility(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Title: "Terms", Content: "body"})
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	inactive := false
	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{IsActive: &inactive})
	assert.NoError(t, err)

	_, err = svc.GetBySlug(ctx, "terms")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)

	active := true
	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{IsActive: &active})
	assert.NoError(t, err)

	page, err := svc.GetBySlug(ctx, "terms")
	assert.NoError(t, err)
	assert.Equal(t, "Terms", page.Title)
}

func TestDeletePage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Title: "Old"})
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	assert.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrPageNotFound)
}
