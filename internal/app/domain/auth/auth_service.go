package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/blulupo/portfolio/internal/app/models"
	"github.com/blulupo/portfolio/internal/app/observability/metrics"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the authentication business logic contract.
//
// Authenticate and Register are the only entry points that ever see a
// plaintext password; both report every failure as the same
// models.ErrUnauthenticated / models.ErrValidation sentinel so callers
// cannot tell a missing user from a wrong password.
type AuthService interface {
	// Authenticate resolves the identifier (username first, then email)
	// and verifies the password. Returns the user on success, an
	// ErrUnauthenticated-wrapped error otherwise.
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
	Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
}

func NewAuthService(repo AuthRepo, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{logger: logger, repo: repo}
}

// Authenticate implements the username-before-email lookup order observed
// in every site version. When one string matches user A's username and
// user B's email, A wins. There is deliberately no lockout or throttling
// here; the original never had any.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	l := s.logger.With(slog.String("method", "Authenticate"))
	l.DebugContext(ctx, "Attempting login")

	ctx, span := otel.Tracer(tracerName).Start(ctx, "AuthService.Authenticate")
	defer span.End()

	user, err := s.repo.GetUserByUsername(ctx, identifier)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			l.ErrorContext(ctx, "Credential store lookup failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Store lookup failed")
			return nil, fmt.Errorf("credential store unavailable: %w", err)
		}
		user, err = s.repo.GetUserByEmail(ctx, identifier)
		if err != nil {
			if !errors.Is(err, models.ErrNotFound) {
				l.ErrorContext(ctx, "Credential store lookup failed", slog.Any("error", err))
				span.RecordError(err)
				span.SetStatus(codes.Error, "Store lookup failed")
				return nil, fmt.Errorf("credential store unavailable: %w", err)
			}
			// Don't reveal whether the user exists or the password is wrong
			l.WarnContext(ctx, "Login failed: unknown identifier")
			metrics.Get().AuthFailuresTotal.Add(ctx, 1)
			span.SetStatus(codes.Ok, "Rejected")
			return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
		}
	}

	if !user.IsActive || !CheckPassword(password, user.PasswordHash) {
		l.WarnContext(ctx, "Login failed: password mismatch or inactive user", slog.String("userID", user.ID.String()))
		metrics.Get().AuthFailuresTotal.Add(ctx, 1)
		span.SetStatus(codes.Ok, "Rejected")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	// Best effort: a failed timestamp write must never fail the login.
	if err := s.repo.RecordLogin(ctx, user.ID); err != nil {
		l.WarnContext(ctx, "Failed to record login timestamp", slog.Any("error", err), slog.String("userID", user.ID.String()))
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", user.ID.String()))
	metrics.Get().AuthLoginsTotal.Add(ctx, 1)
	span.SetStatus(codes.Ok, "Authenticated")
	return user, nil
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("email", email))
	l.DebugContext(ctx, "Attempting registration")

	ctx, span := otel.Tracer(tracerName).Start(ctx, "AuthService.Register", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()

	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if password != confirmPassword {
		return nil, fmt.Errorf("passwords do not match: %w", models.ErrValidation)
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, fmt.Errorf("could not process password")
	}

	// First user can be manually promoted to admin; self-service signup
	// never grants the admin role.
	userID, err := s.repo.CreateUser(ctx, username, email, hashedPassword, models.RoleUser)
	if err != nil {
		l.WarnContext(ctx, "Repository registration failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository registration failed")
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	l.InfoContext(ctx, "Registration successful", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (s *AuthServiceImpl) ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error {
	l := s.logger.With(slog.String("method", "ChangeUsername"), slog.String("userID", userID.String()))

	if err := ValidateUsername(newUsername); err != nil {
		return err
	}
	if err := s.repo.UpdateUsername(ctx, userID, newUsername); err != nil {
		l.WarnContext(ctx, "Username update failed", slog.Any("error", err))
		return err
	}
	l.InfoContext(ctx, "Username updated", slog.String("username", newUsername))
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))
	l.DebugContext(ctx, "Attempting password update")

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	if !CheckPassword(oldPassword, user.PasswordHash) {
		l.WarnContext(ctx, "Old password verification failed")
		return fmt.Errorf("incorrect old password: %w", models.ErrUnauthenticated)
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		l.ErrorContext(ctx, "Failed to hash new password", slog.Any("error", err))
		return fmt.Errorf("could not process new password")
	}
	if err := s.repo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		l.ErrorContext(ctx, "Repository password update failed", slog.Any("error", err))
		return fmt.Errorf("failed to update password: %w", err)
	}

	l.InfoContext(ctx, "Password updated successfully")
	return nil
}

const tracerName = "portfolio"
