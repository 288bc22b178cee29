package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
		user.IsActive = true
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockAuthRepo) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *mockAuthRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("UpsertProfile", ctx, mock.AnythingOfType("*models.Profile")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Email:       "Bakery@Example.ORG",
		Password:    "password123",
		Role:        models.RoleDonor,
		DisplayName: "Пекарня «Утро»",
	}, SessionMeta{})

	assert.NoError(t, err)
	assert.Equal(t, "bakery@example.org", result.User.Email)
	assert.Equal(t, models.RoleDonor, result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
}

func TestAuthService_Register_AdminRoleForbidden(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "admin@example.org",
		Password:    "password123",
		Role:        models.RoleAdmin,
		DisplayName: "Админ",
	}, SessionMeta{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "donor или ngo")
}

func TestAuthService_Register_ShortPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:       "bakery@example.org",
		Password:    "short",
		Role:        models.RoleDonor,
		DisplayName: "Пекарня",
	}, SessionMeta{})

	assert.Error(t, err)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Return(repository.ErrEmailTaken)

	_, err := svc.Register(ctx, RegisterInput{
		Email:       "bakery@example.org",
		Password:    "password123",
		Role:        models.RoleDonor,
		DisplayName: "Пекарня",
	}, SessionMeta{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "уже зарегистрирован")
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ngo@example.org",
		PasswordHash: string(hash),
		Role:         models.RoleNGO,
		IsActive:     true,
	}

	repo.On("GetByEmail", ctx, "ngo@example.org").Return(user, nil)
	repo.On("TouchLastLogin", ctx, user.ID).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)
	repo.On("GetProfile", ctx, user.ID).
		Return(&models.Profile{UserID: user.ID, DisplayName: "Фонд"}, nil)

	result, err := svc.Login(ctx, LoginInput{Email: "NGO@example.org", Password: "password123"}, SessionMeta{})

	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotNil(t, result.Profile)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ngo@example.org",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	repo.On("GetByEmail", ctx, "ngo@example.org").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ngo@example.org", Password: "wrong-pass"}, SessionMeta{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "неверный email или пароль")
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, newTestTokenManager())
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Email: "ngo@example.org", IsActive: false}
	repo.On("GetByEmail", ctx, "ngo@example.org").Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: "ngo@example.org", Password: "password123"}, SessionMeta{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "заблокирован")
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := newTestTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Email: "ngo@example.org", Role: models.RoleNGO, IsActive: true}
	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetSessionByToken", ctx, pair.RefreshToken).
		Return(&models.Session{UserID: user.ID, RefreshToken: pair.RefreshToken}, nil)
	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("DeleteSession", ctx, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken, SessionMeta{})

	assert.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	repo.AssertCalled(t, "DeleteSession", ctx, pair.RefreshToken)
}

func TestAuthService_Refresh_UnknownSession(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := newTestTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.RoleNGO}
	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetSessionByToken", ctx, pair.RefreshToken).
		Return(nil, repository.ErrSessionNotFound)

	_, err = svc.Refresh(ctx, pair.RefreshToken, SessionMeta{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "сессия не найдена")
}

func TestTokenManager_ParseAccess(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleDonor}

	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	userID, role, err := tm.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleDonor, role)
}

func TestTokenManager_ParseAccess_RejectsRefreshToken(t *testing.T) {
	tm := newTestTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleDonor}

	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	_, _, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
