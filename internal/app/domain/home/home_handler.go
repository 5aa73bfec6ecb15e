package home

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/domain/auth"
	"github.com/blulupo/portfolio/internal/app/domain/portfolio"
	"github.com/blulupo/portfolio/internal/app/models"
)

type HomeHandlers struct {
	portfolio portfolio.PortfolioService
	logger    *zap.Logger
}

func NewHomeHandlers(portfolioService portfolio.PortfolioService, logger *zap.Logger) *HomeHandlers {
	return &HomeHandlers{portfolio: portfolioService, logger: logger}
}

// HomePage renders the landing page from the portfolio content blocks.
// A missing profile row renders with zero-value hero text rather than
// erroring, so a half-seeded database still serves the page.
func (h *HomeHandlers) HomePage(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.portfolio.Profile(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			h.logger.Error("Failed to load profile for home page", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the page"})
			return
		}
		profile = &models.Profile{}
	}

	skills, err := h.portfolio.Skills(ctx, true)
	if err != nil {
		h.logger.Error("Failed to load skills for home page", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the page"})
		return
	}

	projects, err := h.portfolio.Projects(ctx, true)
	if err != nil {
		h.logger.Error("Failed to load projects for home page", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the page"})
		return
	}

	links, err := h.portfolio.SocialLinks(ctx, true)
	if err != nil {
		h.logger.Error("Failed to load social links for home page", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the page"})
		return
	}

	sess, loggedIn := auth.CurrentSession(c)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Profile":     profile,
		"Skills":      skills,
		"Projects":    projects,
		"SocialLinks": links,
		"LoggedIn":    loggedIn,
		"IsAdmin":     loggedIn && sess.IsAdmin,
	})
}
