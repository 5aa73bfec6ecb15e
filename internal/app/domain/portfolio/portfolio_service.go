package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/blulupo/portfolio/internal/app/models"
)

var _ PortfolioService = (*PortfolioServiceImpl)(nil)

type PortfolioService interface {
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error

	Skills(ctx context.Context, activeOnly bool) ([]models.Skill, error)
	CreateSkill(ctx context.Context, s *models.Skill) (*models.Skill, error)
	UpdateSkill(ctx context.Context, s *models.Skill) error
	DeleteSkill(ctx context.Context, id int) error

	Projects(ctx context.Context, publishedOnly bool) ([]models.Project, error)
	Project(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id int) error

	SocialLinks(ctx context.Context, activeOnly bool) ([]models.SocialLink, error)
	CreateSocialLink(ctx context.Context, l *models.SocialLink) (*models.SocialLink, error)
	UpdateSocialLink(ctx context.Context, l *models.SocialLink) error
	DeleteSocialLink(ctx context.Context, id int) error

	Stats(ctx context.Context) (*models.DashboardStats, error)
}

type PortfolioServiceImpl struct {
	logger *slog.Logger
	repo   PortfolioRepo
}

func NewPortfolioService(repo PortfolioRepo, logger *slog.Logger) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{logger: logger, repo: repo}
}

// validateURL accepts empty values (all URL fields are optional) and
// otherwise requires an absolute http(s) URL.
func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL: %w", field, models.ErrValidation)
	}
	return nil
}

func (s *PortfolioServiceImpl) Profile(ctx context.Context) (*models.Profile, error) {
	return s.repo.GetProfile(ctx)
}

func (s *PortfolioServiceImpl) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("profile title is required: %w", models.ErrValidation)
	}
	if p.YearsExperience < 0 {
		return fmt.Errorf("years of experience cannot be negative: %w", models.ErrValidation)
	}
	if err := validateURL("cv_url", p.CVURL); err != nil {
		return err
	}
	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Profile updated")
	return nil
}

func (s *PortfolioServiceImpl) Skills(ctx context.Context, activeOnly bool) ([]models.Skill, error) {
	return s.repo.ListSkills(ctx, activeOnly)
}

func validateSkill(sk *models.Skill) error {
	if strings.TrimSpace(sk.Name) == "" {
		return fmt.Errorf("skill name is required: %w", models.ErrValidation)
	}
	if sk.ProficiencyLevel < 0 || sk.ProficiencyLevel > 100 {
		return fmt.Errorf("proficiency level must be between 0 and 100: %w", models.ErrValidation)
	}
	return nil
}

func (s *PortfolioServiceImpl) CreateSkill(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	if err := validateSkill(sk); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateSkill(ctx, sk)
	if err != nil {
		return nil, err
	}
	sk.ID = id
	s.logger.InfoContext(ctx, "Skill created", slog.Int("skillID", id), slog.String("name", sk.Name))
	return sk, nil
}

func (s *PortfolioServiceImpl) UpdateSkill(ctx context.Context, sk *models.Skill) error {
	if err := validateSkill(sk); err != nil {
		return err
	}
	return s.repo.UpdateSkill(ctx, sk)
}

func (s *PortfolioServiceImpl) DeleteSkill(ctx context.Context, id int) error {
	return s.repo.DeleteSkill(ctx, id)
}

func (s *PortfolioServiceImpl) Projects(ctx context.Context, publishedOnly bool) ([]models.Project, error) {
	return s.repo.ListProjects(ctx, publishedOnly)
}

func (s *PortfolioServiceImpl) Project(ctx context.Context, id int) (*models.Project, error) {
	return s.repo.GetProjectByID(ctx, id)
}

func validateProject(p *models.Project) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("project title is required: %w", models.ErrValidation)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("project description is required: %w", models.ErrValidation)
	}
	for _, check := range []struct{ field, value string }{
		{"image_url", p.ImageURL},
		{"demo_url", p.DemoURL},
		{"github_url", p.GithubURL},
	} {
		if err := validateURL(check.field, check.value); err != nil {
			return err
		}
	}
	for _, t := range p.Tags {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("project tag name is required: %w", models.ErrValidation)
		}
	}
	return nil
}

func (s *PortfolioServiceImpl) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if err := validateProject(p); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Project created", slog.Int("projectID", id), slog.String("title", p.Title))
	return s.repo.GetProjectByID(ctx, id)
}

func (s *PortfolioServiceImpl) UpdateProject(ctx context.Context, p *models.Project) error {
	if err := validateProject(p); err != nil {
		return err
	}
	return s.repo.UpdateProject(ctx, p)
}

func (s *PortfolioServiceImpl) DeleteProject(ctx context.Context, id int) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Project deleted", slog.Int("projectID", id))
	return nil
}

func (s *PortfolioServiceImpl) SocialLinks(ctx context.Context, activeOnly bool) ([]models.SocialLink, error) {
	return s.repo.ListSocialLinks(ctx, activeOnly)
}

func validateSocialLink(l *models.SocialLink) error {
	if strings.TrimSpace(l.PlatformName) == "" {
		return fmt.Errorf("platform name is required: %w", models.ErrValidation)
	}
	if l.URL == "" {
		return fmt.Errorf("url is required: %w", models.ErrValidation)
	}
	return validateURL("url", l.URL)
}

func (s *PortfolioServiceImpl) CreateSocialLink(ctx context.Context, l *models.SocialLink) (*models.SocialLink, error) {
	if err := validateSocialLink(l); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateSocialLink(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	s.logger.InfoContext(ctx, "Social link created", slog.Int("linkID", id), slog.String("platform", l.PlatformName))
	return l, nil
}

func (s *PortfolioServiceImpl) UpdateSocialLink(ctx context.Context, l *models.SocialLink) error {
	if err := validateSocialLink(l); err != nil {
		return err
	}
	return s.repo.UpdateSocialLink(ctx, l)
}

func (s *PortfolioServiceImpl) DeleteSocialLink(ctx context.Context, id int) error {
	return s.repo.DeleteSocialLink(ctx, id)
}

func (s *PortfolioServiceImpl) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return s.repo.GetStats(ctx)
}
