package models

import (
	"time"

	"github.com/google/uuid"
)

// WebsiteOptions is the singleton row (id=1) gating the public auth
// endpoints. Both flags default to false so a fresh deployment exposes
// neither login nor registration until an admin enables them.
type WebsiteOptions struct {
	ID             int  `json:"id"`
	EnableLogin    bool `json:"enable_login"`
	EnableRegister bool `json:"enable_register"`
}

// Article is a blog post. AuthorName is only populated by queries that
// join against users.
type Article struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	PhotoArticle  string    `json:"photo_article"`
	PublishStatus bool      `json:"publish_status"`
	AuthorID      uuid.UUID `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile is the singleton hero section of the home page.
type Profile struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	LeadText        string    `json:"lead_text"`
	Description1    string    `json:"description_1"`
	Description2    string    `json:"description_2"`
	YearsExperience int       `json:"years_experience"`
	CVURL           string    `json:"cv_url"`
	ProfileImage    string    `json:"profile_image"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Skill struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	IconClass        string `json:"icon_class"`
	Category         string `json:"category"`
	ProficiencyLevel int    `json:"proficiency_level"`
	DisplayOrder     int    `json:"display_order"`
	IsActive         bool   `json:"is_active"`
}

type Project struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ImageURL     string       `json:"image_url"`
	DemoURL      string       `json:"demo_url"`
	GithubURL    string       `json:"github_url"`
	DisplayOrder int          `json:"display_order"`
	IsPublished  bool         `json:"is_published"`
	Tags         []ProjectTag `json:"tags"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type ProjectTag struct {
	ID           int    `json:"id"`
	ProjectID    int    `json:"project_id"`
	Name         string `json:"name"`
	ColorClass   string `json:"color_class"`
	DisplayOrder int    `json:"display_order"`
}

type SocialLink struct {
	ID           int    `json:"id"`
	PlatformName string `json:"platform_name"`
	URL          string `json:"url"`
	IconClass    string `json:"icon_class"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// DashboardStats feeds the admin landing page counters.
type DashboardStats struct {
	Projects          int `json:"projects"`
	PublishedProjects int `json:"published_projects"`
	Skills            int `json:"skills"`
	SocialLinks       int `json:"social_links"`
	Articles          int `json:"articles"`
	Users             int `json:"users"`
}
