package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/apikey/domain"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"github.com/speaklab/speaklab/internal/policy/repository"
	"github.com/speaklab/speaklab/pkg/db"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) policydomain.Service {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := conn.AutoMigrate(&policydomain.ExpirationPolicy{}, &domain.KeyRecord{}); err != nil {
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

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []policydomain.CreateRequest{
		{Name: "", TypeID: "t1", ValidDays: 30},
		{Name: "basic", TypeID: "", ValidDays: 30},
		{Name: "basic", TypeID: "t1", ValidDays: 0},
		{Name: "basic", TypeID: "t1", ValidDays: -5},
	}
	for _, req := range cases {
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, policydomain.ErrInvalidPolicy)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, policydomain.CreateRequest{Name: "basic", TypeID: "t1", ValidDays: 30})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, policydomain.CreateRequest{Name: "basic", TypeID: "t2", ValidDays: 60})
	assert.ErrorIs(t, err, policydomain.ErrPolicyExists)
}

func TestUpdatePolicy(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, policydomain.CreateRequest{Name: "basic", TypeID: "t1", ValidDays: 30})
	if err != nil {
		t.Fatalf("failed to create policy: %v", err)
	}

	days := 90
	updated, err := svc.Update(ctx, created.ID, policydomain.UpdateRequest{ValidDays: &days})
	assert.NoError(t, err)
	assert.Equal(t, 90, updated.ValidDays)
	assert.Equal(t, "t1", updated.TypeID)

	// Existing records keep the expiry they were created with; only new
	// bindings see the updated window. Nothing to assert here beyond the
	// policy row itself, the apikey service owns that behavior.
	fetched, err := svc.GetByName(ctx, "basic")
	assert.NoError(t, err)
	assert.Equal(t, 90, fetched.ValidDays)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, policydomain.CreateRequest{Name: "basic", TypeID: "t1", ValidDays: 30})
	if err != nil {
		t.Fatalf("failed to create policy: %v", err)
	}

	zero := 0
	_, err = svc.Update(ctx, created.ID, policydomain.UpdateRequest{ValidDays: &zero})
	assert.ErrorIs(t, err, policydomain.ErrInvalidPolicy)

	empty := "  "
	_, err = svc.Update(ctx, created.ID, policydomain.UpdateRequest{TypeID: &empty})
	assert.ErrorIs(t, err, policydomain.ErrInvalidPolicy)
}

func TestDeleteUnknownPolicy(t *testing.T) {
	svc := newTestService(t)

	err := svc.Delete(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, policydomain.ErrPolicyNotFound)

	err = svc.Delete(context.Background(), snowflake.ID(123456789).String())
	assert.ErrorIs(t, err, policydomain.ErrPolicyNotFound)
}

func TestDefaultPolicy(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Default(ctx)
	assert.ErrorIs(t, err, policydomain.ErrNoPolicyConfigured)

	if _, err := svc.Create(ctx, policydomain.CreateRequest{Name: "starter", TypeID: "t1", ValidDays: 14}); err != nil {
		t.Fatalf("failed to create policy: %v", err)
	}
	if _, err := svc.Create(ctx, policydomain.CreateRequest{Name: "pro", TypeID: "t2", ValidDays: 90}); err != nil {
		t.Fatalf("failed to create policy: %v", err)
	}

	def, err := svc.Default(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "starter", def.Name)
}
