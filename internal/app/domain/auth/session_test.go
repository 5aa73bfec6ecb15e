package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blulupo/portfolio/internal/app/models"
)

func sessionTestRouter(t *testing.T, maxAge int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	store := cookie.NewStore([]byte("test-secret-key"))
	store.Options(sessions.Options{Path: "/", MaxAge: maxAge, HttpOnly: true})
	r.Use(sessions.Sessions("test_session", store))
	return r
}

func sessionCookies(resp *httptest.ResponseRecorder) []*http.Cookie {
	return (&http.Response{Header: resp.Header()}).Cookies()
}

func TestSessionRoundTrip(t *testing.T) {
	user := &models.User{
		ID:       uuid.New(),
		Username: "alice",
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	r := sessionTestRouter(t, 1800)
	r.GET("/do-login", func(c *gin.Context) {
		require.NoError(t, LoginSession(c, user))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": sess.UserID.String(), "username": sess.Username, "is_admin": sess.IsAdmin})
	})

	// Establish the session.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/do-login", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := sessionCookies(w)
	require.NotEmpty(t, cookies)

	// Replay the cookie.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req2.AddCookie(ck)
	}
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), user.ID.String())
	assert.Contains(t, w2.Body.String(), `"is_admin":true`)
}

func TestCurrentSession_AnonymousWithoutCookie(t *testing.T) {
	r := sessionTestRouter(t, 1800)
	r.GET("/whoami", func(c *gin.Context) {
		_, ok := CurrentSession(c)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentSession_TamperedCookieIsAnonymous(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser, IsActive: true}

	r := sessionTestRouter(t, 1800)
	r.GET("/do-login", func(c *gin.Context) {
		require.NoError(t, LoginSession(c, user))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/do-login", nil))
	cookies := sessionCookies(w)
	require.NotEmpty(t, cookies)

	// Flip a chunk of the signed payload.
	tampered := *cookies[0]
	if len(tampered.Value) > 10 {
		tampered.Value = tampered.Value[:len(tampered.Value)-10] + "AAAAAAAAAA"
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req2.AddCookie(&tampered)
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestLogoutSession_ClearsState(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser, IsActive: true}

	r := sessionTestRouter(t, 1800)
	r.GET("/do-login", func(c *gin.Context) {
		require.NoError(t, LoginSession(c, user))
		c.Status(http.StatusOK)
	})
	r.GET("/do-logout", func(c *gin.Context) {
		require.NoError(t, LogoutSession(c))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/do-login", nil))
	loginCookies := sessionCookies(w)
	require.NotEmpty(t, loginCookies)

	// Logout while presenting the live session.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/do-logout", nil)
	for _, ck := range loginCookies {
		req2.AddCookie(ck)
	}
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)
	logoutCookies := sessionCookies(w2)
	require.NotEmpty(t, logoutCookies)
	assert.LessOrEqual(t, logoutCookies[0].MaxAge, 0)

	// The replacement cookie no longer authenticates.
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range logoutCookies {
		req3.AddCookie(ck)
	}
	r.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusUnauthorized, w3.Code)
}

func TestTouchSession_SlidesExpiryWindow(t *testing.T) {
	SetSessionLifetime(400 * time.Millisecond)
	defer SetSessionLifetime(30 * time.Minute)

	user := &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser, IsActive: true}

	r := sessionTestRouter(t, 1800)
	r.GET("/do-login", func(c *gin.Context) {
		require.NoError(t, LoginSession(c, user))
		c.Status(http.StatusOK)
	})
	r.GET("/touch", func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		require.NoError(t, TouchSession(c))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/do-login", nil))
	cookies := sessionCookies(w)

	// Activity inside the window re-stamps the deadline.
	time.Sleep(200 * time.Millisecond)
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/touch", nil)
	for _, ck := range cookies {
		req2.AddCookie(ck)
	}
	r.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)
	touched := sessionCookies(w2)
	require.NotEmpty(t, touched)

	// Past the original deadline but inside the slid one.
	time.Sleep(300 * time.Millisecond)
	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range touched {
		req3.AddCookie(ck)
	}
	r.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusOK, w3.Code)

	// The original, un-touched cookie is expired by now.
	w4 := httptest.NewRecorder()
	req4 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range cookies {
		req4.AddCookie(ck)
	}
	r.ServeHTTP(w4, req4)
	assert.Equal(t, http.StatusUnauthorized, w4.Code)
}

func TestRefreshSessionUsername(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice", Role: models.RoleUser, IsActive: true}

	r := sessionTestRouter(t, 1800)
	r.GET("/do-login", func(c *gin.Context) {
		require.NoError(t, LoginSession(c, user))
		c.Status(http.StatusOK)
	})
	r.GET("/rename", func(c *gin.Context) {
		require.NoError(t, RefreshSessionUsername(c, "alice_renamed"))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		require.True(t, ok)
		c.String(http.StatusOK, sess.Username)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/do-login", nil))
	cookies := sessionCookies(w)

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/rename", nil)
	for _, ck := range cookies {
		req2.AddCookie(ck)
	}
	r.ServeHTTP(w2, req2)
	renamed := sessionCookies(w2)
	require.NotEmpty(t, renamed)

	w3 := httptest.NewRecorder()
	req3 := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, ck := range renamed {
		req3.AddCookie(ck)
	}
	r.ServeHTTP(w3, req3)
	assert.Equal(t, "alice_renamed", w3.Body.String())
}
