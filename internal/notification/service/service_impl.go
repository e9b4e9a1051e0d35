package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/speaklab/speaklab/internal/clock"
	"github.com/speaklab/speaklab/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("notification.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Active(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.Active(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, domain.ErrInvalidNotification
	}

	messageType := strings.TrimSpace(req.MessageType)
	if messageType == "" {
		messageType = domain.MessageTypeInfo
	}
	if !validMessageType(messageType) {
		return nil, domain.ErrInvalidNotification
	}

	now := s.clock.Now()
	start := now
	if req.StartDate != nil {
		start = req.StartDate.UTC()
	}
	if req.EndDate != nil && req.EndDate.Before(start) {
		return nil, domain.ErrInvalidNotification
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	notification := &domain.Notification{
		ID:          s.genID.Generate(),
		Title:       title,
		Message:     message,
		MessageType: messageType,
		IsActive:    active,
		StartDate:   start,
		EndDate:     req.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, notification); err != nil {
		return nil, err
	}

	s.log.Info("notification created",
		zap.String("title", notification.Title),
		zap.Time("start_date", notification.StartDate),
	)

	resp := toResponse(notification)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	notification, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidNotification
		}
		notification.Title = title
	}
	if req.Message != nil {
		message := strings.TrimSpace(*req.Message)
		if message == "" {
			return nil, domain.ErrInvalidNotification
		}
		notification.Message = message
	}
	if req.MessageType != nil {
		if !validMessageType(*req.MessageType) {
			return nil, domain.ErrInvalidNotification
		}
		notification.MessageType = *req.MessageType
	}
	if req.IsActive != nil {
		notification.IsActive = *req.IsActive
	}
	if req.StartDate != nil {
		notification.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		notification.EndDate = req.EndDate
	}
	if notification.EndDate != nil && notification.EndDate.Before(notification.StartDate) {
		return nil, domain.ErrInvalidNotification
	}
	notification.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, notification); err != nil {
		return nil, err
	}

	resp := toResponse(notification)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	notification, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, notification)
}

func (s *Service) findByID(ctx context.Context, id string) (*domain.Notification, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotificationNotFound
	}
	return s.repo.FindByID(ctx, parsed.Int64())
}

func validMessageType(messageType string) bool {
	switch messageType {
	case domain.MessageTypeInfo, domain.MessageTypeWarning,
		domain.MessageTypeSuccess, domain.MessageTypeDanger:
		return true
	}
	return false
}

func toResponse(notification *domain.Notification) domain.Response {
	return domain.Response{
		ID:          notification.ID.String(),
		Title:       notification.Title,
		Message:     notification.Message,
		MessageType: notification.MessageType,
		IsActive:    notification.IsActive,
		StartDate:   notification.StartDate,
		EndDate:     notification.EndDate,
		CreatedAt:   notification.CreatedAt,
		UpdatedAt:   notification.UpdatedAt,
	}
}

func toResponses(items []domain.Notification) []domain.Response {
	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp
}
