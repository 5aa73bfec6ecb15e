package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/blulupo/portfolio/internal/db"

	"github.com/blulupo/portfolio/internal/app/models"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the credential store contract consumed by the authenticator
// and the admin guard.
type AuthRepo interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreateUser stores a new user with a HASHED password. Returns the new id.
	CreateUser(ctx context.Context, username, email, hashedPassword, role string) (uuid.UUID, error)
	UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error
	// UpdatePassword replaces the stored HASHED password.
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error
	// RecordLogin stamps last_login; callers treat failures as non-fatal.
	RecordLogin(ctx context.Context, userID uuid.UUID) error
	CountUsers(ctx context.Context) (int, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresAuthRepo(db database.Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

const userColumns = `id, username, email, password_hash, role, is_active, created_at, updated_at, last_login`

func (r *PostgresAuthRepo) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLogin)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s not found: %w", userID, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by ID", slog.Any("error", err), slog.String("userID", userID.String()))
		return nil, fmt.Errorf("database error fetching user by ID: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND is_active = TRUE`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %q not found: %w", username, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by username", slog.Any("error", err), slog.String("username", username))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active = TRUE`
	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s not found: %w", email, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching user by email", slog.Any("error", err), slog.String("email", email))
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, username, email, hashedPassword, role string) (uuid.UUID, error) {
	var userID uuid.UUID
	query := `INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRow(ctx, query, username, email, hashedPassword, role).Scan(&userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return uuid.Nil, fmt.Errorf("username or email already exists: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error inserting user", slog.Any("error", err), slog.String("email", email))
		return uuid.Nil, fmt.Errorf("database error creating user: %w", err)
	}
	r.logger.InfoContext(ctx, "User created", slog.String("userID", userID.String()))
	return userID, nil
}

func (r *PostgresAuthRepo) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error {
	query := `UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, username, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("username already taken: %w", models.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Error updating username", slog.Any("error", err), slog.String("userID", userID.String()))
		return fmt.Errorf("database error updating username: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND is_active = TRUE`
	tag, err := r.db.Exec(ctx, query, hashedPassword, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating password hash", slog.Any("error", err), slog.String("userID", userID.String()))
		return fmt.Errorf("database error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %w", models.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET last_login = NOW() WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		r.logger.WarnContext(ctx, "Error recording login timestamp", slog.Any("error", err), slog.String("userID", userID.String()))
		return fmt.Errorf("database error recording login: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) CountUsers(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE is_active = TRUE`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Error counting users", slog.Any("error", err))
		return 0, fmt.Errorf("database error counting users: %w", err)
	}
	return count, nil
}
