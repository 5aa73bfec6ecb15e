package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/domain/website"
	"github.com/blulupo/portfolio/internal/app/models"
)

// AuthHandlers owns the login, registration, logout and account flows.
// Both login and registration are dark until the admin enables them in
// the website options.
type AuthHandlers struct {
	authService AuthService
	options     website.OptionsService
	logger      *zap.Logger
}

func NewAuthHandlers(authService AuthService, options website.OptionsService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		options:     options,
		logger:      logger,
	}
}

func (h *AuthHandlers) ShowLogin(c *gin.Context) {
	allowed, err := h.options.LoginAllowed(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read website options", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"Message": "Service temporarily unavailable"})
		return
	}
	if !allowed {
		c.HTML(http.StatusOK, "disabled.html", gin.H{"Feature": "Login"})
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (h *AuthHandlers) Login(c *gin.Context) {
	allowed, err := h.options.LoginAllowed(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read website options", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"Message": "Service temporarily unavailable"})
		return
	}
	if !allowed {
		c.HTML(http.StatusOK, "disabled.html", gin.H{"Feature": "Login"})
		return
	}

	identifier := c.PostForm("username")
	password := c.PostForm("password")
	if identifier == "" || password == "" {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Username/email and password are required"})
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), identifier, password)
	if err != nil {
		if errors.Is(err, models.ErrUnauthenticated) {
			// Same message whichever part was wrong.
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": "Invalid credentials"})
			return
		}
		h.logger.Error("Login failed against credential store", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"Message": "Service temporarily unavailable"})
		return
	}

	if err := LoginSession(c, user); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err), zap.String("user_id", user.ID.String()))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not establish session"})
		return
	}

	h.logger.Info("Login successful",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	if user.IsAdmin() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandlers) ShowRegister(c *gin.Context) {
	allowed, err := h.options.RegisterAllowed(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read website options", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"Message": "Service temporarily unavailable"})
		return
	}
	if !allowed {
		c.HTML(http.StatusOK, "disabled.html", gin.H{"Feature": "Registration"})
		return
	}
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

func (h *AuthHandlers) Register(c *gin.Context) {
	allowed, err := h.options.RegisterAllowed(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read website options", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, "error.html", gin.H{"Message": "Service temporarily unavailable"})
		return
	}
	if !allowed {
		c.HTML(http.StatusOK, "disabled.html", gin.H{"Feature": "Registration"})
		return
	}

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	_, err = h.authService.Register(c.Request.Context(), username, email, password, confirmPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			c.HTML(http.StatusBadRequest, "register.html", gin.H{"Error": err.Error(), "Username": username, "Email": email})
		case errors.Is(err, models.ErrConflict):
			c.HTML(http.StatusConflict, "register.html", gin.H{"Error": "Username or email is already registered", "Username": username, "Email": email})
		default:
			h.logger.Error("Registration failed", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "register.html", gin.H{"Error": "Registration failed, please try again"})
		}
		return
	}

	h.logger.Info("Registration successful", zap.String("username", username))
	c.HTML(http.StatusOK, "register.html", gin.H{"Success": "Registration complete, you can now log in"})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	if err := LogoutSession(c); err != nil {
		h.logger.Warn("Failed to clear session on logout", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}
