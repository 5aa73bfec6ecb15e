package portfolio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/blulupo/portfolio/internal/app/models"
	database "github.com/blulupo/portfolio/internal/db"
)

var _ PortfolioRepo = (*PostgresPortfolioRepo)(nil)

// PortfolioRepo persists the portfolio content blocks rendered on the
// home page: the profile hero, skills, projects with their tags and the
// social links.
type PortfolioRepo interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p *models.Profile) error

	ListSkills(ctx context.Context, activeOnly bool) ([]models.Skill, error)
	CreateSkill(ctx context.Context, s *models.Skill) (int, error)
	UpdateSkill(ctx context.Context, s *models.Skill) error
	DeleteSkill(ctx context.Context, id int) error

	ListProjects(ctx context.Context, publishedOnly bool) ([]models.Project, error)
	GetProjectByID(ctx context.Context, id int) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (int, error)
	UpdateProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id int) error

	ListSocialLinks(ctx context.Context, activeOnly bool) ([]models.SocialLink, error)
	CreateSocialLink(ctx context.Context, l *models.SocialLink) (int, error)
	UpdateSocialLink(ctx context.Context, l *models.SocialLink) error
	DeleteSocialLink(ctx context.Context, id int) error

	GetStats(ctx context.Context) (*models.DashboardStats, error)
}

// The profile is a singleton row like website_options.
const profileRowID = 1

type PostgresPortfolioRepo struct {
	logger *slog.Logger
	db     database.Querier
}

func NewPostgresPortfolioRepo(db database.Querier, logger *slog.Logger) *PostgresPortfolioRepo {
	return &PostgresPortfolioRepo{logger: logger, db: db}
}

func (r *PostgresPortfolioRepo) GetProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	query := `
		SELECT id, title, lead_text, description_1, description_2, years_experience, cv_url, profile_image, created_at, updated_at
		FROM profile WHERE id = $1`
	err := r.db.QueryRow(ctx, query, profileRowID).Scan(
		&p.ID, &p.Title, &p.LeadText, &p.Description1, &p.Description2,
		&p.YearsExperience, &p.CVURL, &p.ProfileImage, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile row missing: %w", models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching profile", slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresPortfolioRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profile
		SET title = $1, lead_text = $2, description_1 = $3, description_2 = $4,
		    years_experience = $5, cv_url = $6, profile_image = $7, updated_at = NOW()
		WHERE id = $8`
	tag, err := r.db.Exec(ctx, query,
		p.Title, p.LeadText, p.Description1, p.Description2,
		p.YearsExperience, p.CVURL, p.ProfileImage, profileRowID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating profile", slog.Any("error", err))
		return fmt.Errorf("database error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile row missing: %w", models.ErrNotFound)
	}
	return nil
}

func (r *PostgresPortfolioRepo) ListSkills(ctx context.Context, activeOnly bool) ([]models.Skill, error) {
	query := `
		SELECT id, name, icon_class, category, proficiency_level, display_order, is_active
		FROM skills`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing skills", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.IconClass, &s.Category, &s.ProficiencyLevel, &s.DisplayOrder, &s.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning skill row: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}
	return skills, nil
}

func (r *PostgresPortfolioRepo) CreateSkill(ctx context.Context, s *models.Skill) (int, error) {
	var id int
	query := `
		INSERT INTO skills (name, icon_class, category, proficiency_level, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRow(ctx, query, s.Name, s.IconClass, s.Category, s.ProficiencyLevel, s.DisplayOrder, s.IsActive).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating skill", slog.Any("error", err))
		return 0, fmt.Errorf("database error creating skill: %w", err)
	}
	return id, nil
}

func (r *PostgresPortfolioRepo) UpdateSkill(ctx context.Context, s *models.Skill) error {
	query := `
		UPDATE skills
		SET name = $1, icon_class = $2, category = $3, proficiency_level = $4, display_order = $5, is_active = $6
		WHERE id = $7`
	tag, err := r.db.Exec(ctx, query, s.Name, s.IconClass, s.Category, s.ProficiencyLevel, s.DisplayOrder, s.IsActive, s.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating skill", slog.Any("error", err), slog.Int("id", s.ID))
		return fmt.Errorf("database error updating skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("skill %d: %w", s.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresPortfolioRepo) DeleteSkill(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting skill", slog.Any("error", err), slog.Int("id", id))
		return fmt.Errorf("database error deleting skill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("skill %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresPortfolioRepo) ListProjects(ctx context.Context, publishedOnly bool) ([]models.Project, error) {
	query := `
		SELECT id, title, description, image_url, demo_url, github_url, display_order, is_published, created_at, updated_at
		FROM projects`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing projects", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.DemoURL, &p.GithubURL,
			&p.DisplayOrder, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	for i := range projects {
		tags, err := r.listProjectTags(ctx, projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Tags = tags
	}
	return projects, nil
}

func (r *PostgresPortfolioRepo) GetProjectByID(ctx context.Context, id int) (*models.Project, error) {
	var p models.Project
	query := `
		SELECT id, title, description, image_url, demo_url, github_url, display_order, is_published, created_at, updated_at
		FROM projects WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.DemoURL, &p.GithubURL,
		&p.DisplayOrder, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("project %d: %w", id, models.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Error fetching project", slog.Any("error", err), slog.Int("id", id))
		return nil, fmt.Errorf("database error fetching project: %w", err)
	}

	tags, err := r.listProjectTags(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}

func (r *PostgresPortfolioRepo) listProjectTags(ctx context.Context, projectID int) ([]models.ProjectTag, error) {
	query := `
		SELECT id, project_id, name, color_class, display_order
		FROM project_tags WHERE project_id = $1
		ORDER BY display_order, id`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("database error listing project tags: %w", err)
	}
	defer rows.Close()

	var tags []models.ProjectTag
	for rows.Next() {
		var t models.ProjectTag
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Name, &t.ColorClass, &t.DisplayOrder); err != nil {
			return nil, fmt.Errorf("error scanning project tag row: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *PostgresPortfolioRepo) CreateProject(ctx context.Context, p *models.Project) (int, error) {
	var id int
	query := `
		INSERT INTO projects (title, description, image_url, demo_url, github_url, display_order, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRow(ctx, query, p.Title, p.Description, p.ImageURL, p.DemoURL, p.GithubURL, p.DisplayOrder, p.IsPublished).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating project", slog.Any("error", err))
		return 0, fmt.Errorf("database error creating project: %w", err)
	}

	if err := r.replaceProjectTags(ctx, id, p.Tags); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PostgresPortfolioRepo) UpdateProject(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects
		SET title = $1, description = $2, image_url = $3, demo_url = $4, github_url = $5,
		    display_order = $6, is_published = $7, updated_at = NOW()
		WHERE id = $8`
	tag, err := r.db.Exec(ctx, query, p.Title, p.Description, p.ImageURL, p.DemoURL, p.GithubURL, p.DisplayOrder, p.IsPublished, p.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating project", slog.Any("error", err), slog.Int("id", p.ID))
		return fmt.Errorf("database error updating project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %d: %w", p.ID, models.ErrNotFound)
	}
	return r.replaceProjectTags(ctx, p.ID, p.Tags)
}

// replaceProjectTags rewrites the tag set wholesale; tags have no
// identity worth preserving across an edit.
func (r *PostgresPortfolioRepo) replaceProjectTags(ctx context.Context, projectID int, tags []models.ProjectTag) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM project_tags WHERE project_id = $1`, projectID); err != nil {
		return fmt.Errorf("database error clearing project tags: %w", err)
	}
	for i, t := range tags {
		query := `
			INSERT INTO project_tags (project_id, name, color_class, display_order)
			VALUES ($1, $2, $3, $4)`
		if _, err := r.db.Exec(ctx, query, projectID, t.Name, t.ColorClass, i); err != nil {
			return fmt.Errorf("database error inserting project tag: %w", err)
		}
	}
	return nil
}

func (r *PostgresPortfolioRepo) DeleteProject(ctx context.Context, id int) error {
	// project_tags rows go with it via ON DELETE CASCADE.
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting project", slog.Any("error", err), slog.Int("id", id))
		return fmt.Errorf("database error deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresPortfolioRepo) ListSocialLinks(ctx context.Context, activeOnly bool) ([]models.SocialLink, error) {
	query := `
		SELECT id, platform_name, url, icon_class, display_order, is_active
		FROM social_links`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY display_order, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing social links", slog.Any("error", err))
		return nil, fmt.Errorf("database error listing social links: %w", err)
	}
	defer rows.Close()

	var links []models.SocialLink
	for rows.Next() {
		var l models.SocialLink
		if err := rows.Scan(&l.ID, &l.PlatformName, &l.URL, &l.IconClass, &l.DisplayOrder, &l.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning social link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating social link rows: %w", err)
	}
	return links, nil
}

func (r *PostgresPortfolioRepo) CreateSocialLink(ctx context.Context, l *models.SocialLink) (int, error) {
	var id int
	query := `
		INSERT INTO social_links (platform_name, url, icon_class, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRow(ctx, query, l.PlatformName, l.URL, l.IconClass, l.DisplayOrder, l.IsActive).Scan(&id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error creating social link", slog.Any("error", err))
		return 0, fmt.Errorf("database error creating social link: %w", err)
	}
	return id, nil
}

func (r *PostgresPortfolioRepo) UpdateSocialLink(ctx context.Context, l *models.SocialLink) error {
	query := `
		UPDATE social_links
		SET platform_name = $1, url = $2, icon_class = $3, display_order = $4, is_active = $5
		WHERE id = $6`
	tag, err := r.db.Exec(ctx, query, l.PlatformName, l.URL, l.IconClass, l.DisplayOrder, l.IsActive, l.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating social link", slog.Any("error", err), slog.Int("id", l.ID))
		return fmt.Errorf("database error updating social link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("social link %d: %w", l.ID, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresPortfolioRepo) DeleteSocialLink(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM social_links WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error deleting social link", slog.Any("error", err), slog.Int("id", id))
		return fmt.Errorf("database error deleting social link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("social link %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *PostgresPortfolioRepo) GetStats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	query := `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM projects WHERE is_published = TRUE),
			(SELECT COUNT(*) FROM skills),
			(SELECT COUNT(*) FROM social_links),
			(SELECT COUNT(*) FROM articles),
			(SELECT COUNT(*) FROM users)`
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.Projects, &stats.PublishedProjects, &stats.Skills,
		&stats.SocialLinks, &stats.Articles, &stats.Users)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error fetching dashboard stats", slog.Any("error", err))
		return nil, fmt.Errorf("database error fetching stats: %w", err)
	}
	return &stats, nil
}
