package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/assets"
	"github.com/blulupo/portfolio/internal/app/domain/articles"
	"github.com/blulupo/portfolio/internal/app/domain/auth"
	"github.com/blulupo/portfolio/internal/app/domain/dashboard"
	"github.com/blulupo/portfolio/internal/app/domain/home"
	"github.com/blulupo/portfolio/internal/app/domain/portfolio"
	"github.com/blulupo/portfolio/internal/app/domain/website"
	"github.com/blulupo/portfolio/internal/app/middleware"
)

type AppHandlers struct {
	Home      *home.HomeHandlers
	Auth      *auth.AuthHandlers
	Articles  *articles.ArticlesHandlers
	Portfolio *portfolio.PortfolioHandlers
	Dashboard *dashboard.DashboardHandlers

	AuthService auth.AuthService
}

func Setup(r *gin.Engine, dbPool *pgxpool.Pool, log *zap.Logger) {
	handlers := setupDependencies(dbPool, log, slog.Default())
	setupRouter(r, handlers, log)
}

func setupDependencies(dbPool *pgxpool.Pool, log *zap.Logger, slogLog *slog.Logger) *AppHandlers {
	// Repositories
	authRepo := auth.NewPostgresAuthRepo(dbPool, slogLog)
	optionsRepo := website.NewPostgresOptionsRepo(dbPool, slogLog)
	articlesRepo := articles.NewPostgresArticlesRepo(dbPool, slogLog)
	portfolioRepo := portfolio.NewPostgresPortfolioRepo(dbPool, slogLog)

	// Services
	authService := auth.NewAuthService(authRepo, slogLog)
	optionsService := website.NewOptionsService(optionsRepo, slogLog)
	articlesService := articles.NewArticlesService(articlesRepo, slogLog)
	portfolioService := portfolio.NewPortfolioService(portfolioRepo, slogLog)

	return &AppHandlers{
		Home:        home.NewHomeHandlers(portfolioService, log),
		Auth:        auth.NewAuthHandlers(authService, optionsService, log),
		Articles:    articles.NewArticlesHandlers(articlesService, log),
		Portfolio:   portfolio.NewPortfolioHandlers(portfolioService, log),
		Dashboard:   dashboard.NewDashboardHandlers(portfolioService, articlesService, optionsService, log),
		AuthService: authService,
	}
}

func setupRouter(r *gin.Engine, h *AppHandlers, log *zap.Logger) {
	// Public pages
	r.GET("/", h.Home.HomePage)
	r.GET("/blog", h.Articles.BlogPage)
	r.GET("/article/:id", h.Articles.ArticlePage)

	// Crawler files straight from the embedded bundle.
	r.GET("/robots.txt", func(c *gin.Context) {
		c.FileFromFS("static/robots.txt", http.FS(assets.Static))
	})
	r.GET("/sitemap.xml", func(c *gin.Context) {
		c.FileFromFS("static/sitemap.xml", http.FS(assets.Static))
	})
	r.StaticFS("/static", http.FS(assets.StaticDir()))

	// Scanner bait: the usual CMS admin paths answer 404 without touching
	// the real handlers, and the hits get logged.
	for _, path := range []string{"/wp-admin", "/wp-login.php", "/admin", "/administrator", "/phpmyadmin"} {
		r.GET(path, honeypot(log))
		r.POST(path, honeypot(log))
	}

	// Auth flows
	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.GET("/register", h.Auth.ShowRegister)
	r.POST("/register", h.Auth.Register)
	r.GET("/logout", h.Auth.Logout)

	// Signed-in account pages
	account := r.Group("/profile")
	account.Use(middleware.RequireAuth(log))
	{
		account.GET("", h.Auth.AccountPage)
		account.POST("/username", h.Auth.ChangeUsername)
		account.POST("/password", h.Auth.ChangePassword)
	}

	// Admin dashboard
	admin := r.Group("/dashboard")
	admin.Use(middleware.RequireAuth(log), middleware.RequireAdmin(h.AuthService, log))
	{
		admin.GET("", h.Dashboard.DashboardPage)
		admin.POST("/options", h.Dashboard.UpdateOptions)
		admin.POST("/articles", h.Articles.CreateArticle)
		admin.POST("/articles/:id/publish", h.Articles.PublishArticle)
		admin.POST("/articles/:id/delete", h.Articles.DeleteArticle)
	}

	// JSON API: reads are public, writes require the admin role.
	api := r.Group("/api")
	{
		api.GET("/profile", h.Portfolio.GetProfile)
		api.GET("/skills", h.Portfolio.ListSkills)
		api.GET("/projects", h.Portfolio.ListProjects)
		api.GET("/projects/:id", h.Portfolio.GetProject)
		api.GET("/social-links", h.Portfolio.ListSocialLinks)

		apiAdmin := api.Group("")
		apiAdmin.Use(middleware.RequireAuth(log), middleware.RequireAdmin(h.AuthService, log))
		{
			apiAdmin.PUT("/profile", h.Portfolio.UpdateProfile)

			apiAdmin.POST("/skills", h.Portfolio.CreateSkill)
			apiAdmin.PUT("/skills/:id", h.Portfolio.UpdateSkill)
			apiAdmin.DELETE("/skills/:id", h.Portfolio.DeleteSkill)

			apiAdmin.POST("/projects", h.Portfolio.CreateProject)
			apiAdmin.PUT("/projects/:id", h.Portfolio.UpdateProject)
			apiAdmin.DELETE("/projects/:id", h.Portfolio.DeleteProject)

			apiAdmin.POST("/social-links", h.Portfolio.CreateSocialLink)
			apiAdmin.PUT("/social-links/:id", h.Portfolio.UpdateSocialLink)
			apiAdmin.DELETE("/social-links/:id", h.Portfolio.DeleteSocialLink)

			apiAdmin.GET("/stats", h.Portfolio.GetStats)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Page not found"})
	})
}

func honeypot(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log.Warn("Honeypot path hit",
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		)
		c.String(http.StatusNotFound, "404 page not found")
	}
}
