package articles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/blulupo/portfolio/internal/app/models"
)

var _ ArticlesService = (*ArticlesServiceImpl)(nil)

const (
	tracerName          = "portfolio"
	defaultArticlePhoto = "default.jpg"
	maxTitleLength      = 255
)

type ArticlesService interface {
	CreateArticle(ctx context.Context, title, content, photo string, authorID uuid.UUID) (*models.Article, error)
	GetArticle(ctx context.Context, id int) (*models.Article, error)
	// GetPublishedArticle is GetArticle restricted to the public site:
	// drafts read as not found.
	GetPublishedArticle(ctx context.Context, id int) (*models.Article, error)
	ListPublished(ctx context.Context) ([]models.Article, error)
	ListAll(ctx context.Context) ([]models.Article, error)
	SetPublishStatus(ctx context.Context, id int, published bool) error
	DeleteArticle(ctx context.Context, id int) error
}

type ArticlesServiceImpl struct {
	logger *slog.Logger
	repo   ArticlesRepo
}

func NewArticlesService(repo ArticlesRepo, logger *slog.Logger) *ArticlesServiceImpl {
	return &ArticlesServiceImpl{logger: logger, repo: repo}
}

func (s *ArticlesServiceImpl) CreateArticle(ctx context.Context, title, content, photo string, authorID uuid.UUID) (*models.Article, error) {
	l := s.logger.With(slog.String("method", "CreateArticle"))

	ctx, span := otel.Tracer(tracerName).Start(ctx, "ArticlesService.CreateArticle")
	defer span.End()

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("title and content are required: %w", models.ErrValidation)
	}
	if len(title) > maxTitleLength {
		return nil, fmt.Errorf("title exceeds %d characters: %w", maxTitleLength, models.ErrValidation)
	}
	if photo == "" {
		photo = defaultArticlePhoto
	}

	id, err := s.repo.CreateArticle(ctx, title, content, photo, authorID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create article", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, err
	}

	l.InfoContext(ctx, "Article created", slog.Int("articleID", id), slog.String("authorID", authorID.String()))
	return s.repo.GetArticleByID(ctx, id)
}

func (s *ArticlesServiceImpl) GetArticle(ctx context.Context, id int) (*models.Article, error) {
	return s.repo.GetArticleByID(ctx, id)
}

func (s *ArticlesServiceImpl) GetPublishedArticle(ctx context.Context, id int) (*models.Article, error) {
	article, err := s.repo.GetArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.PublishStatus {
		return nil, fmt.Errorf("article %d: %w", id, models.ErrNotFound)
	}
	return article, nil
}

func (s *ArticlesServiceImpl) ListPublished(ctx context.Context) ([]models.Article, error) {
	return s.repo.ListPublished(ctx)
}

func (s *ArticlesServiceImpl) ListAll(ctx context.Context) ([]models.Article, error) {
	return s.repo.ListAll(ctx)
}

func (s *ArticlesServiceImpl) SetPublishStatus(ctx context.Context, id int, published bool) error {
	if err := s.repo.SetPublishStatus(ctx, id, published); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Article publish status changed",
		slog.Int("articleID", id), slog.Bool("published", published))
	return nil
}

func (s *ArticlesServiceImpl) DeleteArticle(ctx context.Context, id int) error {
	if err := s.repo.DeleteArticle(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Article deleted", slog.Int("articleID", id))
	return nil
}
