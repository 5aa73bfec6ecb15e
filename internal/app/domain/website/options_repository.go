package website

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/blulupo/portfolio/internal/app/models"
	database "github.com/blulupo/portfolio/internal/db"
)

var _ OptionsRepo = (*PostgresOptionsRepo)(nil)

// OptionsRepo reads and mutates the singleton website_options row.
type OptionsRepo interface {
	GetOptions(ctx context.Context) (*models.WebsiteOptions, error)
	UpdateOptions(ctx context.Context, enableLogin, enableRegister bool) error
}

// The options live in a single fixed row; there is nothing to key on.
const optionsRowID = 1

type PostgresOptionsRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresOptionsRepo(db database.Querier, logger *slog.Logger) *PostgresOptionsRepo {
	return &PostgresOptionsRepo{logger: logger, db: db}
}

func (r *PostgresOptionsRepo) GetOptions(ctx context.Context) (*models.WebsiteOptions, error) {
	var opts models.WebsiteOptions
	query := `SELECT id, enable_login, enable_register FROM website_options WHERE id = $1`
	err := r.db.QueryRow(ctx, query, optionsRowID).Scan(&opts.ID, &opts.EnableLogin, &opts.EnableRegister)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("website options row missing: %w", models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching website options", slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching website options: %w", err)
	}
	return &opts, nil
}

func (r *PostgresOptionsRepo) UpdateOptions(ctx context.Context, enableLogin, enableRegister bool) error {
	query := `UPDATE website_options SET enable_login = $1, enable_register = $2 WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, enableLogin, enableRegister, optionsRowID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating website options", slog.Any("error", err))
		return fmt.Errorf("database error updating website options: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("website options row missing: %w", models.ErrNotFound)
	}
	r.logger.InfoContext(ctx, "Website options updated",
		slog.Bool("enable_login", enableLogin),
		slog.Bool("enable_register", enableRegister))
	return nil
}
