package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/clock"
	"github.com/speaklab/speaklab/internal/notification/domain"
	"github.com/speaklab/speaklab/internal/notification/repository"
	"github.com/speaklab/speaklab/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&domain.Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	clk := clock.NewFakeClock(time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC))
	svc := New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(conn),
	})
	return svc, clk
}

func TestActiveFiltersWindowAndFlag(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	now := clk.Now()

	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)
	ended := now.Add(-time.Hour)
	inactive := false

	mustCreate := func(req domain.CreateRequest) {
		t.Helper()
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("failed to create notification: %v", err)
		}
	}

	mustCreate(domain.CreateRequest{Title: "Open", Message: "running now", StartDate: &past})
	mustCreate(domain.CreateRequest{Title: "Upcoming", Message: "not yet", StartDate: &future})
	mustCreate(domain.CreateRequest{Title: "Closed", Message: "over", StartDate: &past, EndDate: &ended})
	mustCreate(domain.CreateRequest{Title: "Disabled", Message: "off", StartDate: &past, IsActive: &inactive})

	active, err := svc.Active(ctx)
	assert.NoError(t, err)
	if assert.Len(t, active, 1) {
		assert.Equal(t, "Open", active[0].Title)
	}
}

func TestActiveWindowEdgesAreInclusive(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	now := clk.Now()

	if _, err := svc.Create(ctx, domain.CreateRequest{
		Title:     "Edge",
		Message:   "starts and ends right now",
		StartDate: &now,
		EndDate:   &now,
	}); err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}

	active, err := svc.Active(ctx)
	assert.NoError(t, err)
	assert.Len(t, active, 1)

	clk.Advance(time.Second)
	active, err = svc.Active(ctx)
	assert.NoError(t, err)
	assert.Len(t, active, 0)
}

func TestActiveOrdersNewestWindowFirst(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	now := clk.Now()

	older := now.Add(-72 * time.Hour)
	newer := now.Add(-time.Hour)

	if _, err := svc.Create(ctx, domain.CreateRequest{Title: "Older", Message: "m", StartDate: &older}); err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}
	if _, err := svc.Create(ctx, domain.CreateRequest{Title: "Newer", Message: "m", StartDate: &newer}); err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}

	active, err := svc.Active(ctx)
	assert.NoError(t, err)
	if assert.Len(t, active, 2) {
		assert.Equal(t, "Newer", active[0].Title)
		assert.Equal(t, "Older", active[1].Title)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	now := clk.Now()
	before := now.Add(-time.Hour)

	_, err := svc.Create(ctx, domain.CreateRequest{Title: "", Message: "m"})
	assert.ErrorIs(t, err, domain.ErrInvalidNotification)

	_, err = svc.Create(ctx, domain.CreateRequest{Title: "t", Message: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidNotification)

	_, err = svc.Create(ctx, domain.CreateRequest{Title: "t", Message: "m", MessageType: "shout"})
	assert.ErrorIs(t, err, domain.ErrInvalidNotification)

	_, err = svc.Create(ctx, domain.CreateRequest{Title: "t", Message: "m", StartDate: &now, EndDate: &before})
	assert.ErrorIs(t, err, domain.ErrInvalidNotification)
}

func TestUpdateReopensClosedWindow(t *testing.T) {
	svc, clk := newTestService(t)
	ctx := context.Background()
	now := clk.Now()

	past := now.Add(-48 * time.Hour)
	ended := now.Add(-time.Hour)
	created, err := svc.Create(ctx, domain.CreateRequest{
		Title: "Maintenance", Message: "m", StartDate: &past, EndDate: &ended,
	})
	if err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}

	active, err := svc.Active(ctx)
	assert.NoError(t, err)
	assert.Len(t, active, 0)

	later := now.Add(24 * time.Hour)
	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{EndDate: &later})
	assert.NoError(t, err)

	active, err = svc.Active(ctx)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestDeleteNotification(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Title: "Gone", Message: "m"})
	if err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}

	assert.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), domain.ErrNotificationNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "bogus"), domain.ErrNotificationNotFound)
}
