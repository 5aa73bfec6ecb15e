package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/models"
)

// AccountPage renders the signed-in user's account settings.
func (h *AuthHandlers) AccountPage(c *gin.Context) {
	sess, ok := CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("Failed to load account", zap.Error(err), zap.String("user_id", sess.UserID.String()))
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load your account"})
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{"User": user.Sanitize()})
}

// ChangeUsername handles the username form on the account page. The
// session's display name is refreshed in place so the header updates
// without a re-login.
func (h *AuthHandlers) ChangeUsername(c *gin.Context) {
	sess, ok := CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	newUsername := c.PostForm("username")
	err := h.authService.ChangeUsername(c.Request.Context(), sess.UserID, newUsername)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			h.renderAccount(c, sess.UserID, gin.H{"Error": err.Error()})
		case errors.Is(err, models.ErrConflict):
			h.renderAccount(c, sess.UserID, gin.H{"Error": "That username is already taken"})
		default:
			h.logger.Error("Username change failed", zap.Error(err), zap.String("user_id", sess.UserID.String()))
			h.renderAccount(c, sess.UserID, gin.H{"Error": "Could not update username, please try again"})
		}
		return
	}

	if err := RefreshSessionUsername(c, newUsername); err != nil {
		h.logger.Warn("Failed to refresh session after username change", zap.Error(err))
	}
	h.renderAccount(c, sess.UserID, gin.H{"Success": "Username updated"})
}

// ChangePassword handles the password form on the account page. The old
// password is re-verified before anything is written.
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	sess, ok := CurrentSession(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	oldPassword := c.PostForm("old_password")
	newPassword := c.PostForm("new_password")
	confirmPassword := c.PostForm("confirm_password")

	if newPassword != confirmPassword {
		h.renderAccount(c, sess.UserID, gin.H{"Error": "New passwords do not match"})
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), sess.UserID, oldPassword, newPassword)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthenticated):
			h.renderAccount(c, sess.UserID, gin.H{"Error": "Current password is incorrect"})
		case errors.Is(err, models.ErrValidation):
			h.renderAccount(c, sess.UserID, gin.H{"Error": err.Error()})
		default:
			h.logger.Error("Password change failed", zap.Error(err), zap.String("user_id", sess.UserID.String()))
			h.renderAccount(c, sess.UserID, gin.H{"Error": "Could not update password, please try again"})
		}
		return
	}

	h.logger.Info("Password changed", zap.String("user_id", sess.UserID.String()))
	h.renderAccount(c, sess.UserID, gin.H{"Success": "Password updated"})
}

func (h *AuthHandlers) renderAccount(c *gin.Context, userID uuid.UUID, data gin.H) {
	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Could not load your account"})
		return
	}
	data["User"] = user.Sanitize()
	status := http.StatusOK
	if _, hasErr := data["Error"]; hasErr {
		status = http.StatusBadRequest
	}
	c.HTML(status, "profile.html", data)
}
