package website

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/blulupo/portfolio/internal/app/models"
)

var _ OptionsService = (*OptionsServiceImpl)(nil)

// OptionsService gates the public auth endpoints on the admin-controlled
// site flags.
type OptionsService interface {
	Options(ctx context.Context) (*models.WebsiteOptions, error)
	SetOptions(ctx context.Context, enableLogin, enableRegister bool) error
	// LoginAllowed and RegisterAllowed fail closed: if the options row
	// cannot be read, the endpoint stays disabled.
	LoginAllowed(ctx context.Context) (bool, error)
	RegisterAllowed(ctx context.Context) (bool, error)
}

type OptionsServiceImpl struct {
	logger *slog.Logger
	repo   OptionsRepo
}

func NewOptionsService(repo OptionsRepo, logger *slog.Logger) *OptionsServiceImpl {
	return &OptionsServiceImpl{logger: logger, repo: repo}
}

func (s *OptionsServiceImpl) Options(ctx context.Context) (*models.WebsiteOptions, error) {
	return s.repo.GetOptions(ctx)
}

func (s *OptionsServiceImpl) SetOptions(ctx context.Context, enableLogin, enableRegister bool) error {
	if err := s.repo.UpdateOptions(ctx, enableLogin, enableRegister); err != nil {
		return fmt.Errorf("failed to update website options: %w", err)
	}
	return nil
}

func (s *OptionsServiceImpl) LoginAllowed(ctx context.Context) (bool, error) {
	opts, err := s.repo.GetOptions(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return opts.EnableLogin, nil
}

func (s *OptionsServiceImpl) RegisterAllowed(ctx context.Context) (bool, error) {
	opts, err := s.repo.GetOptions(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return opts.EnableRegister, nil
}
