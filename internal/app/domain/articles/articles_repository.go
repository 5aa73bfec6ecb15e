package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/blulupo/portfolio/internal/app/models"
	database "github.com/blulupo/portfolio/internal/db"
)

var _ ArticlesRepo = (*PostgresArticlesRepo)(nil)

type ArticlesRepo interface {
	CreateArticle(ctx context.Context, title, content, photo string, authorID uuid.UUID) (int, error)
	GetArticleByID(ctx context.Context, id int) (*models.Article, error)
	// ListPublished returns published articles newest first, with the
	// author's username joined in.
	ListPublished(ctx context.Context) ([]models.Article, error)
	// ListAll returns every article regardless of publish status, for the
	// admin dashboard.
	ListAll(ctx context.Context) ([]models.Article, error)
	SetPublishStatus(ctx context.Context, id int, published bool) error
	DeleteArticle(ctx context.Context, id int) error
}

type PostgresArticlesRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresArticlesRepo(db database.Querier, logger *slog.Logger) *PostgresArticlesRepo {
	return &PostgresArticlesRepo{logger: logger, db: db}
}

const articleColumns = `a.id, a.title, a.content, a.photo_article, a.publish_status, a.author_id, u.username, a.created_at, a.updated_at`

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.PhotoArticle, &a.PublishStatus, &a.AuthorID, &a.AuthorName, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresArticlesRepo) CreateArticle(ctx context.Context, title, content, photo string, authorID uuid.UUID) (int, error) {
	var id int
	query := `
		INSERT INTO articles (title, content, photo_article, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRow(ctx, query, title, content, photo, authorID).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating article", slog.Any("error", err))
		return 0, fmt.Errorf("database error creating article: %w", err)
	}
	return id, nil
}

func (r *PostgresArticlesRepo) GetArticleByID(ctx context.Context, id int) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`, articleColumns)
	article, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("article %d: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching article", slog.Any("error", err), slog.Int("id", id))
		return nil, fmt.Errorf("database error fetching article: %w", err)
	}
	return article, nil
}

func (r *PostgresArticlesRepo) ListPublished(ctx context.Context) ([]models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.publish_status = TRUE
		ORDER BY a.created_at DESC`, articleColumns)
	return r.listArticles(ctx, query)
}

func (r *PostgresArticlesRepo) ListAll(ctx context.Context) ([]models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM articles a
		JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC`, articleColumns)
	return r.listArticles(ctx, query)
}

func (r *PostgresArticlesRepo) listArticles(ctx context.Context, query string) ([]models.Article, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing articles", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing articles: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning article row: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return articles, nil
}

func (r *PostgresArticlesRepo) SetPublishStatus(ctx context.Context, id int, published bool) error {
	query := `UPDATE articles SET publish_status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, published, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating article publish status", slog.Any("error", err), slog.Int("id", id))
		return fmt.Errorf("database error updating article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresArticlesRepo) DeleteArticle(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting article", slog.Any("error", err), slog.Int("id", id))
		return fmt.Errorf("database error deleting article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %d: %w", id, models.ErrNotFound)
	}
	return nil
}
