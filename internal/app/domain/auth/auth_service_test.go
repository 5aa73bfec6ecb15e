package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blulupo/portfolio/internal/app/models"
)

// --- Mock AuthRepo ---

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, username, email, hashedPassword, role string) (uuid.UUID, error) {
	args := m.Called(ctx, username, email, hashedPassword, role)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockAuthRepo) UpdateUsername(ctx context.Context, userID uuid.UUID, username string) error {
	args := m.Called(ctx, userID, username)
	return args.Error(0)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error {
	args := m.Called(ctx, userID, hashedPassword)
	return args.Error(0)
}

func (m *MockAuthRepo) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAuthRepo) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestAuthenticate_SuccessByUsername(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "Sup3rSecret")

	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("RecordLogin", mock.Anything, user.ID).Return(nil)

	got, err := svc.Authenticate(context.Background(), "alice", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestAuthenticate_FallsBackToEmail(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "Sup3rSecret")

	repo.On("GetUserByUsername", mock.Anything, "alice@example.com").
		Return(nil, models.ErrNotFound)
	repo.On("GetUserByEmail", mock.Anything, "alice@example.com").Return(user, nil)
	repo.On("RecordLogin", mock.Anything, user.ID).Return(nil)

	got, err := svc.Authenticate(context.Background(), "alice@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	repo.AssertExpectations(t)
}

func TestAuthenticate_UsernameWinsOverEmail(t *testing.T) {
	// One string matching user A's username and user B's email resolves
	// to A; the email lookup never runs.
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	userA := testUser(t, "Sup3rSecret")
	userA.Username = "shared@example.com"

	repo.On("GetUserByUsername", mock.Anything, "shared@example.com").Return(userA, nil)
	repo.On("RecordLogin", mock.Anything, userA.ID).Return(nil)

	got, err := svc.Authenticate(context.Background(), "shared@example.com", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, userA.ID, got.ID)
	repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticate_UnknownUserAndWrongPasswordLookIdentical(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "Sup3rSecret")

	repo.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, models.ErrNotFound)
	repo.On("GetUserByEmail", mock.Anything, "nobody").Return(nil, models.ErrNotFound)
	_, errUnknown := svc.Authenticate(context.Background(), "nobody", "whatever")

	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
	_, errWrongPass := svc.Authenticate(context.Background(), "alice", "wrong-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.ErrorIs(t, errUnknown, models.ErrUnauthenticated)
	assert.ErrorIs(t, errWrongPass, models.ErrUnauthenticated)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthenticate_InactiveUserRejected(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "Sup3rSecret")
	user.IsActive = false

	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)

	_, err := svc.Authenticate(context.Background(), "alice", "Sup3rSecret")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	repo.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything)
}

func TestAuthenticate_StoreErrorIsNotInvalidCredentials(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())

	repo.On("GetUserByUsername", mock.Anything, "alice").
		Return(nil, errors.New("connection refused"))

	_, err := svc.Authenticate(context.Background(), "alice", "Sup3rSecret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthenticate_RecordLoginFailureDoesNotFailLogin(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "Sup3rSecret")

	repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil)
	repo.On("RecordLogin", mock.Anything, user.ID).Return(errors.New("write failed"))

	got, err := svc.Authenticate(context.Background(), "alice", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestRegister_Success(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	newID := uuid.New()

	repo.On("CreateUser", mock.Anything, "bob", "bob@example.com", mock.AnythingOfType("string"), models.RoleUser).
		Run(func(args mock.Arguments) {
			// The stored value must be a hash that verifies, never the
			// plaintext.
			stored := args.String(3)
			assert.NotEqual(t, "Passw0rdOk", stored)
			assert.True(t, CheckPassword("Passw0rdOk", stored))
		}).
		Return(newID, nil)
	repo.On("GetUserByID", mock.Anything, newID).Return(&models.User{
		ID:       newID,
		Username: "bob",
		Email:    "bob@example.com",
		Role:     models.RoleUser,
		IsActive: true,
	}, nil)

	user, err := svc.Register(context.Background(), "bob", "bob@example.com", "Passw0rdOk", "Passw0rdOk")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestRegister_ValidationFailures(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())

	cases := []struct {
		name                                        string
		username, email, password, confirmPassword string
	}{
		{"short username", "ab", "a@b.com", "Passw0rdOk", "Passw0rdOk"},
		{"bad username chars", "bad name!", "a@b.com", "Passw0rdOk", "Passw0rdOk"},
		{"bad email", "bob", "not-an-email", "Passw0rdOk", "Passw0rdOk"},
		{"short password", "bob", "a@b.com", "Sh0rt", "Sh0rt"},
		{"no uppercase", "bob", "a@b.com", "passw0rdok", "passw0rdok"},
		{"no digit", "bob", "a@b.com", "PasswordOk", "PasswordOk"},
		{"mismatched confirmation", "bob", "a@b.com", "Passw0rdOk", "Different1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password, tc.confirmPassword)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_DuplicateSurfacesConflict(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())

	repo.On("CreateUser", mock.Anything, "bob", "bob@example.com", mock.AnythingOfType("string"), models.RoleUser).
		Return(uuid.Nil, models.ErrConflict)

	_, err := svc.Register(context.Background(), "bob", "bob@example.com", "Passw0rdOk", "Passw0rdOk")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestChangePassword_RequiresOldPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "OldPassw0rd")

	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong-old", "NewPassw0rd")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_Success(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())
	user := testUser(t, "OldPassw0rd")

	repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			assert.True(t, CheckPassword("NewPassw0rd", args.String(2)))
		}).
		Return(nil)

	err := svc.ChangePassword(context.Background(), user.ID, "OldPassw0rd", "NewPassw0rd")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangeUsername_ValidatesFirst(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthService(repo, slog.Default())

	err := svc.ChangeUsername(context.Background(), uuid.New(), "x")
	assert.ErrorIs(t, err, models.ErrValidation)
	repo.AssertNotCalled(t, "UpdateUsername", mock.Anything, mock.Anything, mock.Anything)
}
