package articles

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/domain/auth"
	"github.com/blulupo/portfolio/internal/app/models"
)

type ArticlesHandlers struct {
	service ArticlesService
	logger  *zap.Logger
}

func NewArticlesHandlers(service ArticlesService, logger *zap.Logger) *ArticlesHandlers {
	return &ArticlesHandlers{service: service, logger: logger}
}

// BlogPage lists the published articles, newest first.
func (h *ArticlesHandlers) BlogPage(c *gin.Context) {
	articles, err := h.service.ListPublished(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list published articles", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the blog"})
		return
	}
	_, loggedIn := auth.CurrentSession(c)
	c.HTML(http.StatusOK, "blog.html", gin.H{"Articles": articles, "LoggedIn": loggedIn})
}

// ArticlePage shows a single published article. Drafts and unknown ids
// both render the same not-found page.
func (h *ArticlesHandlers) ArticlePage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Article not found"})
		return
	}

	article, err := h.service.GetPublishedArticle(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Article not found"})
			return
		}
		h.logger.Error("Failed to load article", zap.Error(err), zap.Int("id", id))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load the article"})
		return
	}

	_, loggedIn := auth.CurrentSession(c)
	c.HTML(http.StatusOK, "article.html", gin.H{"Article": article, "LoggedIn": loggedIn})
}

// CreateArticle handles the dashboard's article composer form.
func (h *ArticlesHandlers) CreateArticle(c *gin.Context) {
	sess, ok := auth.CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	photo := c.PostForm("photo_article")

	_, err := h.service.CreateArticle(c.Request.Context(), title, content, photo, sess.UserID)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": err.Error()})
			return
		}
		h.logger.Error("Failed to create article", zap.Error(err))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not create the article"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// PublishArticle toggles an article's publish status from the dashboard.
func (h *ArticlesHandlers) PublishArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Article not found"})
		return
	}
	published := c.PostForm("publish") == "true"

	if err := h.service.SetPublishStatus(c.Request.Context(), id, published); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Article not found"})
			return
		}
		h.logger.Error("Failed to change publish status", zap.Error(err), zap.Int("id", id))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not update the article"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

// DeleteArticle removes an article from the dashboard.
func (h *ArticlesHandlers) DeleteArticle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Article not found"})
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Article not found"})
			return
		}
		h.logger.Error("Failed to delete article", zap.Error(err), zap.Int("id", id))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not delete the article"})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}
