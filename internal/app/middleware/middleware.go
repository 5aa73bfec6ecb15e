package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/domain/auth"
	"github.com/blulupo/portfolio/internal/app/observability/metrics"
)

const sessionContextKey = "session"

// wantsJSON inspects the request's declared content negotiation: API-style
// clients get structured errors, browsers get redirects or rendered pages.
func wantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// RequireAuth is the authentication guard. It admits only requests with a
// live session, slides the session's expiry window, and publishes the
// session snapshot into the gin context. Denials never mutate state.
func RequireAuth(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := auth.CurrentSession(c)
		if !ok {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		// Activity extends the inactivity window.
		if err := auth.TouchSession(c); err != nil {
			logger.Warn("Failed to refresh session cookie", zap.Error(err))
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireAdmin is the authorization guard. The admin role is re-derived
// from the credential store by id rather than trusted from the session
// snapshot, so a demotion takes effect on the next request. The denial is
// rendered visibly, not silently redirected.
func RequireAdmin(svc auth.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			// RequireAuth runs first on every admin route; reaching this
			// without a session is a wiring bug, treat it as unauthenticated.
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			} else {
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
			}
			return
		}

		user, err := svc.GetUserByID(c.Request.Context(), sess.UserID)
		if err != nil || !user.IsAdmin() {
			logger.Warn("Admin guard denied request",
				zap.String("user_id", sess.UserID.String()),
				zap.String("path", c.Request.URL.Path),
			)
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
				return
			}
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Message": "You are not an administrator, you cannot view this page.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetSession returns the session snapshot stored by RequireAuth.
func GetSession(c *gin.Context) (auth.Session, bool) {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return auth.Session{}, false
	}
	sess, ok := v.(auth.Session)
	return sess, ok
}

// RequestMetrics records per-request count and latency instruments.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m := metrics.Get()
		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("route", c.FullPath()),
			attribute.Int("status", c.Writer.Status()),
		)
		ctx := c.Request.Context()
		m.HTTPRequestsTotal.Add(ctx, 1, attrs)
		m.HTTPRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// SecurityMiddleware adds the security headers the site versions set by
// hand on individual responses.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "SAMEORIGIN")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Writer.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}
