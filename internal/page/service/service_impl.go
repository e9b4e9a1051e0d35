package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gosimpleslug "github.com/gosimple/slug"
	"github.com/speaklab/speaklab/internal/page/domain"
	"github.com/speaklab/speaklab/pkg/db"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const homePlaceholder = "# Welcome\n\nThis page has not been written yet."

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	genID    *snowflake.Node
	markdown goldmark.Markdown
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("page.service"),
		repo:  p.Repo,
		genID: p.GenID,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Response, error) {
	page, err := s.repo.FindActiveBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	return s.toResponse(page), nil
}

func (s *Service) Home(ctx context.Context) (*domain.Response, error) {
	page, err := s.repo.FindActiveBySlug(ctx, domain.HomeSlug)
	if err == nil {
		return s.toResponse(page), nil
	}
	if !errors.Is(err, domain.ErrPageNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	page = &domain.Page{
		ID:        s.genID.Generate(),
		Title:     "Home",
		Slug:      domain.HomeSlug,
		Content:   homePlaceholder,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, page); err != nil {
		// Lost the race against a concurrent first request; the winner's
		// row is the one to serve. A deactivated home row also lands here
		// and stays hidden until an administrator reactivates it.
		if db.IsDuplicateKeyErr(err) {
			existing, ferr := s.repo.FindActiveBySlug(ctx, domain.HomeSlug)
			if ferr != nil {
				return nil, ferr
			}
			return s.toResponse(existing), nil
		}
		return nil, err
	}

	s.log.Info("home page created", zap.String("slug", page.Slug))
	return s.toResponse(page), nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	pages, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(pages))
	for i := range pages {
		resp = append(resp, *s.toResponse(&pages[i]))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidPage
	}

	pageSlug := strings.TrimSpace(req.Slug)
	if pageSlug == "" {
		pageSlug = gosimpleslug.Make(title)
	}
	if pageSlug == "" {
		return nil, domain.ErrInvalidPage
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	now := time.Now().UTC()
	page := &domain.Page{
		ID:        s.genID.Generate(),
		Title:     title,
		Slug:      pageSlug,
		Content:   req.Content,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, page); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPageExists
		}
		return nil, err
	}

	s.log.Info("page created", zap.String("slug", page.Slug))
	return s.toResponse(page), nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	page, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidPage
		}
		page.Title = title
	}
	if req.Content != nil {
		page.Content = *req.Content
	}
	if req.IsActive != nil {
		page.IsActive = *req.IsActive
	}
	page.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, page); err != nil {
		return nil, err
	}
	return s.toResponse(page), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	page, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, page); err != nil {
		return err
	}

	s.log.Info("page deleted", zap.String("slug", page.Slug))
	return nil
}

func (s *Service) findByID(ctx context.Context, id string) (*domain.Page, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrPageNotFound
	}
	return s.repo.FindByID(ctx, parsed.Int64())
}

func (s *Service) toResponse(page *domain.Page) *domain.Response {
	return &domain.Response{
		ID:        page.ID.String(),
		Title:     page.Title,
		Slug:      page.Slug,
		Content:   page.Content,
		HTML:      s.renderHTML(page.Content),
		IsActive:  page.IsActive,
		CreatedAt: page.CreatedAt,
		UpdatedAt: page.UpdatedAt,
	}
}

func (s *Service) renderHTML(content string) string {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(content), &buf); err != nil {
		s.log.Warn("markdown render failed", zap.Error(err))
		return ""
	}
	return buf.String()
}
