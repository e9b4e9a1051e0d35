package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/policy/domain"
	"github.com/speaklab/speaklab/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("policy.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	typeID := strings.TrimSpace(req.TypeID)
	if name == "" || typeID == "" || req.ValidDays <= 0 {
		return nil, domain.ErrInvalidPolicy
	}

	now := time.Now().UTC()
	policy := &domain.ExpirationPolicy{
		ID:        s.genID.Generate(),
		Name:      name,
		TypeID:    typeID,
		ValidDays: req.ValidDays,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, policy); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPolicyExists
		}
		return nil, err
	}

	s.log.Info("policy created",
		zap.String("name", policy.Name),
		zap.String("type_id", policy.TypeID),
		zap.Int("valid_days", policy.ValidDays),
	)

	resp := toResponse(policy)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	policy, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TypeID != nil {
		typeID := strings.TrimSpace(*req.TypeID)
		if typeID == "" {
			return nil, domain.ErrInvalidPolicy
		}
		policy.TypeID = typeID
	}
	if req.ValidDays != nil {
		if *req.ValidDays <= 0 {
			return nil, domain.ErrInvalidPolicy
		}
		policy.ValidDays = *req.ValidDays
	}
	policy.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, err
	}

	resp := toResponse(policy)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	policy, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, policy); err != nil {
		return err
	}

	s.log.Info("policy deleted", zap.String("name", policy.Name))
	return nil
}

func (s *Service) GetByName(ctx context.Context, name string) (*domain.ExpirationPolicy, error) {
	return s.repo.FindByName(ctx, strings.TrimSpace(name))
}

func (s *Service) GetByTypeID(ctx context.Context, typeID string) (*domain.ExpirationPolicy, error) {
	return s.repo.FindByTypeID(ctx, strings.TrimSpace(typeID))
}

func (s *Service) Default(ctx context.Context) (*domain.ExpirationPolicy, error) {
	return s.repo.First(ctx)
}

func (s *Service) findByID(ctx context.Context, id string) (*domain.ExpirationPolicy, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrPolicyNotFound
	}
	policy, err := s.repo.FindByID(ctx, parsed.Int64())
	if err != nil {
		if errors.Is(err, domain.ErrPolicyNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}
	return policy, nil
}

func toResponse(policy *domain.ExpirationPolicy) domain.Response {
	return domain.Response{
		ID:        policy.ID.String(),
		Name:      policy.Name,
		TypeID:    policy.TypeID,
		ValidDays: policy.ValidDays,
		CreatedAt: policy.CreatedAt,
		UpdatedAt: policy.UpdatedAt,
	}
}
