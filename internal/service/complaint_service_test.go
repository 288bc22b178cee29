package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

type mockComplaintRepo struct {
	mock.Mock
}

func (m *mockComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	args := m.Called(ctx, complaint)
	if args.Error(0) == nil {
		complaint.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockComplaintRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) ListByStatus(ctx context.Context, status models.ComplaintStatus, limit, offset int) ([]models.Complaint, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) ListByAuthor(ctx context.Context, fromUserID uuid.UUID) ([]models.Complaint, error) {
	args := m.Called(ctx, fromUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *mockComplaintRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.ComplaintStatus, adminID uuid.UUID, notes string) (*models.Complaint, error) {
	args := m.Called(ctx, id, from, to, adminID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Complaint), args.Error(1)
}

type mockUserRepoForComplaints struct {
	mock.Mock
}

func (m *mockUserRepoForComplaints) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestComplaintService_Create_Success(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, feed := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)
	ctx := context.Background()

	fromID := uuid.New()
	toID := uuid.New()

	users.On("GetByID", ctx, toID).Return(&models.User{ID: toID, Role: models.RoleNGO}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Complaint")).Return(nil)

	complaint, err := svc.Create(ctx, fromID, CreateComplaintInput{
		ToUserID:    toID,
		Type:        models.ComplaintTypeNoShow,
		Description: "НКО не приехала в согласованное время",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusPending, complaint.Status)
	assert.Equal(t, []string{EventComplaintFiled}, feed.eventsFor(toID))
}

func TestComplaintService_Create_SelfComplaint(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)

	userID := uuid.New()
	_, err := svc.Create(context.Background(), userID, CreateComplaintInput{
		ToUserID:    userID,
		Type:        models.ComplaintTypeOther,
		Description: "жалоба",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestComplaintService_Create_UnknownType(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)

	_, err := svc.Create(context.Background(), uuid.New(), CreateComplaintInput{
		ToUserID:    uuid.New(),
		Type:        "spam",
		Description: "жалоба",
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestComplaintService_Create_DescriptionTooLong(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)

	_, err := svc.Create(context.Background(), uuid.New(), CreateComplaintInput{
		ToUserID:    uuid.New(),
		Type:        models.ComplaintTypeOther,
		Description: strings.Repeat("ж", 1001),
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestComplaintService_Create_TargetNotFound(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)
	ctx := context.Background()

	toID := uuid.New()
	users.On("GetByID", ctx, toID).Return(nil, repository.ErrUserNotFound)

	_, err := svc.Create(ctx, uuid.New(), CreateComplaintInput{
		ToUserID:    toID,
		Type:        models.ComplaintTypeFraud,
		Description: "жалоба",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestComplaintService_Resolve_NotifiesAuthorOnTerminal(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, feed := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)
	ctx := context.Background()

	adminID := uuid.New()
	authorID := uuid.New()
	complaint := &models.Complaint{
		ID:         uuid.New(),
		FromUserID: authorID,
		ToUserID:   uuid.New(),
		Status:     models.ComplaintStatusPending,
	}
	resolved := *complaint
	resolved.Status = models.ComplaintStatusResolved

	repo.On("GetByID", ctx, complaint.ID).Return(complaint, nil)
	repo.On("UpdateStatusIf", ctx, complaint.ID,
		models.ComplaintStatusPending, models.ComplaintStatusResolved,
		adminID, "предупреждение вынесено").Return(&resolved, nil)

	got, err := svc.Resolve(ctx, adminID, complaint.ID, models.ComplaintStatusResolved, "предупреждение вынесено")

	assert.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusResolved, got.Status)
	assert.Equal(t, []string{EventComplaintResolved}, feed.eventsFor(authorID))
}

func TestComplaintService_Resolve_ReviewingIsNotTerminal(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, feed := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)
	ctx := context.Background()

	adminID := uuid.New()
	complaint := &models.Complaint{
		ID:         uuid.New(),
		FromUserID: uuid.New(),
		ToUserID:   uuid.New(),
		Status:     models.ComplaintStatusPending,
	}
	reviewing := *complaint
	reviewing.Status = models.ComplaintStatusReviewing

	repo.On("GetByID", ctx, complaint.ID).Return(complaint, nil)
	repo.On("UpdateStatusIf", ctx, complaint.ID,
		models.ComplaintStatusPending, models.ComplaintStatusReviewing,
		adminID, "").Return(&reviewing, nil)

	got, err := svc.Resolve(ctx, adminID, complaint.ID, models.ComplaintStatusReviewing, "")

	assert.NoError(t, err)
	assert.Equal(t, models.ComplaintStatusReviewing, got.Status)
	assert.Empty(t, feed.eventsFor(complaint.FromUserID))
}

func TestComplaintService_Resolve_ClosedCannotReopen(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)
	ctx := context.Background()

	complaint := &models.Complaint{
		ID:     uuid.New(),
		Status: models.ComplaintStatusResolved,
	}
	repo.On("GetByID", ctx, complaint.ID).Return(complaint, nil)

	_, err := svc.Resolve(ctx, uuid.New(), complaint.ID, models.ComplaintStatusDismissed, "")
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

func TestComplaintService_Resolve_TargetPendingInvalid(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)

	_, err := svc.Resolve(context.Background(), uuid.New(), uuid.New(), models.ComplaintStatusPending, "")
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Resolve(context.Background(), uuid.New(), uuid.New(), models.ComplaintStatus("escalated"), "")
	assert.True(t, apperror.IsValidation(err))
}

func TestComplaintService_Resolve_LostRace(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)
	ctx := context.Background()

	adminID := uuid.New()
	complaint := &models.Complaint{
		ID:     uuid.New(),
		Status: models.ComplaintStatusPending,
	}

	repo.On("GetByID", ctx, complaint.ID).Return(complaint, nil)
	repo.On("UpdateStatusIf", ctx, complaint.ID,
		models.ComplaintStatusPending, models.ComplaintStatusDismissed,
		adminID, "").Return(nil, repository.ErrComplaintNotFound)

	_, err := svc.Resolve(ctx, adminID, complaint.ID, models.ComplaintStatusDismissed, "")
	assert.True(t, apperror.IsAlreadyResolved(err))
}

func TestComplaintService_ListForAdmin_InvalidStatus(t *testing.T) {
	repo := new(mockComplaintRepo)
	users := new(mockUserRepoForComplaints)
	notifications, _ := newTestNotifications()
	svc := NewComplaintService(repo, users, notifications)

	_, err := svc.ListForAdmin(context.Background(), "escalated", 20, 0)
	assert.True(t, apperror.IsValidation(err))
}
