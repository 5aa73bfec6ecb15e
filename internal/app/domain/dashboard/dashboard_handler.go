package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/domain/articles"
	"github.com/blulupo/portfolio/internal/app/domain/portfolio"
	"github.com/blulupo/portfolio/internal/app/domain/website"
	"github.com/blulupo/portfolio/internal/app/middleware"
)

// DashboardHandlers renders the admin landing page: content counters,
// the full article list (drafts included) and the website option
// toggles.
type DashboardHandlers struct {
	portfolio portfolio.PortfolioService
	articles  articles.ArticlesService
	options   website.OptionsService
	logger    *zap.Logger
}

func NewDashboardHandlers(
	portfolioService portfolio.PortfolioService,
	articlesService articles.ArticlesService,
	optionsService website.OptionsService,
	logger *zap.Logger,
) *DashboardHandlers {
	return &DashboardHandlers{
		portfolio: portfolioService,
		articles:  articlesService,
		options:   optionsService,
		logger:    logger,
	}
}

func (h *DashboardHandlers) DashboardPage(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.portfolio.Stats(ctx)
	if err != nil {
		h.logger.Error("Failed to load dashboard stats", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the dashboard"})
		return
	}

	allArticles, err := h.articles.ListAll(ctx)
	if err != nil {
		h.logger.Error("Failed to load articles for dashboard", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the dashboard"})
		return
	}

	opts, err := h.options.Options(ctx)
	if err != nil {
		h.logger.Error("Failed to load website options for dashboard", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the dashboard"})
		return
	}

	sess, _ := middleware.GetSession(c)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Stats":    stats,
		"Articles": allArticles,
		"Options":  opts,
		"Username": sess.Username,
	})
}

// UpdateOptions handles the login/registration toggle form. Unchecked
// checkboxes simply don't post, so absence means off.
func (h *DashboardHandlers) UpdateOptions(c *gin.Context) {
	enableLogin := c.PostForm("enable_login") == "on"
	enableRegister := c.PostForm("enable_register") == "on"

	if err := h.options.SetOptions(c.Request.Context(), enableLogin, enableRegister); err != nil {
		h.logger.Error("Failed to update website options", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not update the website options"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}
