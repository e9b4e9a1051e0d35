package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/api2d"
	"github.com/speaklab/speaklab/internal/apikey/domain"
	"github.com/speaklab/speaklab/internal/clock"
	policydomain "github.com/speaklab/speaklab/internal/policy/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Policies policydomain.Service
	Remote   api2d.Client
}

// Service orchestrates the key lifecycle: one record per user, expiry
// derived from the bound policy, remote state validated before binding.
type Service struct {
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	policies policydomain.Service
	remote   api2d.Client
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("apikey.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		policies: p.Policies,
		remote:   p.Remote,
	}
}

func (s *Service) Get(ctx context.Context, userID snowflake.ID) (*domain.Response, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(record), nil
}

func (s *Service) Bind(ctx context.Context, userID snowflake.ID, key string) (*domain.Response, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrInvalidKey
	}

	// Pre-checks give friendly errors before the remote round trip; the
	// unique constraints in Insert remain the authority under races.
	if _, err := s.repo.FindByUser(ctx, userID); err == nil {
		return nil, domain.ErrDuplicateOwner
	} else if !errors.Is(err, domain.ErrNoKey) {
		return nil, err
	}
	if _, err := s.repo.FindByKey(ctx, key); err == nil {
		return nil, domain.ErrDuplicateKey
	} else if !errors.Is(err, domain.ErrNoKey) {
		return nil, err
	}

	descriptor, err := s.remote.Resolve(ctx, key)
	if err != nil {
		return nil, err
	}

	record := &domain.KeyRecord{
		ID:     s.genID.Generate(),
		Key:    key,
		UserID: userID,
	}

	// The record keeps the remote creation time so the validity window
	// starts when the key was issued, not when it was bound.
	record.CreatedAt = descriptor.CreatedAt
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.clock.Now()
	}

	// A missing tier mapping does not block binding; the record simply
	// carries no policy and no expiry.
	policy, err := s.policies.GetByTypeID(ctx, descriptor.TypeID)
	switch {
	case err == nil:
		record.PolicyID = &policy.ID
		record.Policy = policy
		record.ApplyPolicyExpiry(policy.ValidDays)
	case errors.Is(err, policydomain.ErrPolicyNotFound):
		s.log.Warn("no policy for remote key type",
			zap.String("type_id", descriptor.TypeID),
		)
	default:
		return nil, err
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("key bound",
		zap.String("user_id", userID.String()),
		zap.String("type_id", descriptor.TypeID),
	)
	return toResponse(record), nil
}

func (s *Service) Provision(ctx context.Context, userID snowflake.ID) (*domain.Response, error) {
	if _, err := s.repo.FindByUser(ctx, userID); err == nil {
		return nil, domain.ErrDuplicateOwner
	} else if !errors.Is(err, domain.ErrNoKey) {
		return nil, err
	}

	// Unlike Bind there is nothing to issue without a tier, so an empty
	// policy table is fatal here.
	policy, err := s.policies.Default(ctx)
	if err != nil {
		return nil, err
	}

	descriptors, err := s.remote.Issue(ctx, policy.TypeID, 1)
	if err != nil {
		return nil, err
	}
	if len(descriptors) == 0 {
		return nil, api2d.ErrRemoteUnavailable
	}

	record := &domain.KeyRecord{
		ID:        s.genID.Generate(),
		Key:       descriptors[0].Key,
		UserID:    userID,
		PolicyID:  &policy.ID,
		Policy:    policy,
		CreatedAt: s.clock.Now(),
	}
	record.ApplyPolicyExpiry(policy.ValidDays)

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("key provisioned",
		zap.String("user_id", userID.String()),
		zap.String("policy", policy.Name),
	)
	return toResponse(record), nil
}

func (s *Service) Delete(ctx context.Context, userID snowflake.ID) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info("key deleted", zap.String("user_id", userID.String()))
	return nil
}

func (s *Service) Access(ctx context.Context, userID snowflake.ID) (*domain.Grant, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record.Expired(s.clock.Now()) {
		return nil, domain.ErrKeyExpired
	}
	return &domain.Grant{Key: record.Key, ExpiresAt: record.ExpiresAt}, nil
}

func toResponse(record *domain.KeyRecord) *domain.Response {
	resp := &domain.Response{
		Key:       record.Key,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}
	if record.Policy != nil {
		name := record.Policy.Name
		resp.PolicyName = &name
	}
	return resp
}
