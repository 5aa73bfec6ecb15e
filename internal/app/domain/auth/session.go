package auth

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blulupo/portfolio/internal/app/models"
)

// Session keys. The user id is stored as a string so the cookie codec
// needs no gob registration.
const (
	sessionKeyUserID    = "user_id"
	sessionKeyUsername  = "username"
	sessionKeyIsAdmin   = "is_admin"
	sessionKeyExpiresAt = "expires_at"
)

var sessionLifetime = 30 * time.Minute

// SetSessionLifetime configures the inactivity window. Called once at
// router setup, before any request is served.
func SetSessionLifetime(d time.Duration) {
	if d > 0 {
		sessionLifetime = d
	}
}

// Session is the immutable snapshot carried by the signed cookie between
// login and logout. The cookie is signed, so the deadline stored inside
// it cannot be extended by the client; a stale deadline reads as the
// anonymous state here.
type Session struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

// LoginSession transitions Anonymous -> Authenticated: it replaces any
// previous session content with the user's snapshot and stamps a fresh
// expiry deadline.
func LoginSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(sessionKeyUserID, user.ID.String())
	session.Set(sessionKeyUsername, user.Username)
	session.Set(sessionKeyIsAdmin, user.IsAdmin())
	session.Set(sessionKeyExpiresAt, time.Now().Add(sessionLifetime).UnixNano())
	return session.Save()
}

// LogoutSession transitions Authenticated -> Anonymous and expires the
// cookie client-side.
func LogoutSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	return session.Save()
}

// CurrentSession returns the authenticated session, or ok=false for the
// anonymous state (no cookie, tampered cookie, expired deadline or
// missing fields are all treated identically).
func CurrentSession(c *gin.Context) (Session, bool) {
	session := sessions.Default(c)

	rawID, ok := session.Get(sessionKeyUserID).(string)
	if !ok || rawID == "" {
		return Session{}, false
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Session{}, false
	}

	expiresAt, ok := session.Get(sessionKeyExpiresAt).(int64)
	if !ok || time.Now().UnixNano() > expiresAt {
		return Session{}, false
	}

	username, _ := session.Get(sessionKeyUsername).(string)
	isAdmin, _ := session.Get(sessionKeyIsAdmin).(bool)

	return Session{UserID: userID, Username: username, IsAdmin: isAdmin}, true
}

// TouchSession slides the expiry deadline forward on activity. Called by
// the auth guard on every guarded request.
func TouchSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set(sessionKeyExpiresAt, time.Now().Add(sessionLifetime).UnixNano())
	return session.Save()
}

// RefreshSessionUsername keeps the session's display name in sync after a
// username change.
func RefreshSessionUsername(c *gin.Context, username string) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUsername, username)
	return session.Save()
}
