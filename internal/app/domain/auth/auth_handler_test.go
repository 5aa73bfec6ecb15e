package auth

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blulupo/portfolio/internal/app/models"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, error) {
	args := m.Called(ctx, username, email, password, confirmPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) ChangeUsername(ctx context.Context, userID uuid.UUID, newUsername string) error {
	args := m.Called(ctx, userID, newUsername)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

type MockOptionsService struct {
	mock.Mock
}

func (m *MockOptionsService) Options(ctx context.Context) (*models.WebsiteOptions, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WebsiteOptions), args.Error(1)
}

func (m *MockOptionsService) SetOptions(ctx context.Context, enableLogin, enableRegister bool) error {
	args := m.Called(ctx, enableLogin, enableRegister)
	return args.Error(0)
}

func (m *MockOptionsService) LoginAllowed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockOptionsService) RegisterAllowed(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

const handlerTestTemplates = `
{{define "login.html"}}login{{if .Error}} error={{.Error}}{{end}}{{end}}
{{define "register.html"}}register{{if .Error}} error={{.Error}}{{end}}{{if .Success}} success{{end}}{{end}}
{{define "disabled.html"}}{{.Feature}} disabled{{end}}
{{define "error.html"}}{{.Message}}{{end}}
{{define "profile.html"}}profile {{.User.Username}}{{if .Error}} error={{.Error}}{{end}}{{if .Success}} success{{end}}{{end}}
`

func authHandlerRouter(t *testing.T, svc AuthService, opts *MockOptionsService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("t").Parse(handlerTestTemplates)))

	store := cookie.NewStore([]byte("test-secret-key"))
	r.Use(sessions.Sessions("test_session", store))

	h := NewAuthHandlers(svc, opts, zap.NewNop())
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/register", h.ShowRegister)
	r.POST("/register", h.Register)
	r.GET("/logout", h.Logout)
	return r
}

func postForm(r *gin.Engine, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestShowLogin_DisabledByOptions(t *testing.T) {
	opts := new(MockOptionsService)
	opts.On("LoginAllowed", mock.Anything).Return(false, nil)
	r := authHandlerRouter(t, new(MockAuthService), opts)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login disabled")
}

func TestLogin_DisabledGateBlocksPostToo(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("LoginAllowed", mock.Anything).Return(false, nil)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"Sup3rSecret"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Login disabled")
	svc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_SuccessRedirectsAdminToDashboard(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("LoginAllowed", mock.Anything).Return(true, nil)
	svc.On("Authenticate", mock.Anything, "root", "Sup3rSecret").Return(&models.User{
		ID: uuid.New(), Username: "root", Role: models.RoleAdmin, IsActive: true,
	}, nil)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/login", url.Values{"username": {"root"}, "password": {"Sup3rSecret"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestLogin_SuccessRedirectsUserHome(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("LoginAllowed", mock.Anything).Return(true, nil)
	svc.On("Authenticate", mock.Anything, "alice", "Sup3rSecret").Return(&models.User{
		ID: uuid.New(), Username: "alice", Role: models.RoleUser, IsActive: true,
	}, nil)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"Sup3rSecret"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogin_BadCredentialsShowGenericMessage(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("LoginAllowed", mock.Anything).Return(true, nil)
	svc.On("Authenticate", mock.Anything, "alice", "wrong").Return(nil, models.ErrUnauthenticated)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestRegister_DisabledByOptions(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("RegisterAllowed", mock.Anything).Return(false, nil)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/register", url.Values{
		"username": {"bob"}, "email": {"bob@example.com"},
		"password": {"Passw0rdOk"}, "confirm_password": {"Passw0rdOk"},
	})

	assert.Contains(t, w.Body.String(), "Registration disabled")
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_ConflictRendersForm(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("RegisterAllowed", mock.Anything).Return(true, nil)
	svc.On("Register", mock.Anything, "bob", "bob@example.com", "Passw0rdOk", "Passw0rdOk").
		Return(nil, models.ErrConflict)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/register", url.Values{
		"username": {"bob"}, "email": {"bob@example.com"},
		"password": {"Passw0rdOk"}, "confirm_password": {"Passw0rdOk"},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestLogout_AlwaysRedirectsHome(t *testing.T) {
	r := authHandlerRouter(t, new(MockAuthService), new(MockOptionsService))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/logout", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogin_StoreOutageIsNot401(t *testing.T) {
	svc := new(MockAuthService)
	opts := new(MockOptionsService)
	opts.On("LoginAllowed", mock.Anything).Return(true, nil)
	svc.On("Authenticate", mock.Anything, "alice", "Sup3rSecret").
		Return(nil, assert.AnError)
	r := authHandlerRouter(t, svc, opts)

	w := postForm(r, "/login", url.Values{"username": {"alice"}, "password": {"Sup3rSecret"}})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NotContains(t, w.Body.String(), "Invalid credentials")
}
