package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	if args.Error(0) == nil {
		listing.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *mockListingRepo) List(ctx context.Context, params repository.ListingFilterParams) (*repository.ListingListResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.ListingListResult), args.Error(1)
}

func (m *mockListingRepo) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Listing, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *mockListingRepo) UpdateDetails(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []models.ListingStatus, to models.ListingStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockListingRepo) ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockListingRepo) ExpireDue(ctx context.Context, now time.Time) ([]models.Listing, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *mockListingRepo) ListRequests(ctx context.Context, listingID uuid.UUID) ([]models.Request, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

func (m *mockListingRepo) GetAcceptedRequest(ctx context.Context, listingID uuid.UUID) (*models.Request, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Request), args.Error(1)
}

func validListingInput(now time.Time) CreateListingInput {
	return CreateListingInput{
		Title:        "Горячие обеды",
		FoodType:     models.FoodTypePrepared,
		Quantity:     12,
		QuantityUnit: "порций",
		PreparedAt:   now.Add(-time.Hour),
		ExpiresAt:    now.Add(8 * time.Hour),
		PickupStart:  now.Add(time.Hour),
		PickupEnd:    now.Add(4 * time.Hour),
		Address:      "Невский проспект, 1",
	}
}

func TestListingService_Create_Success(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.Listing")).Return(nil)

	listing, err := svc.Create(ctx, uuid.New(), validListingInput(time.Now()))

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Equal(t, models.ListingStatusPosted, listing.Status)
	assert.NotNil(t, listing.Photos)
	assert.NotNil(t, listing.Allergens)
}

func TestListingService_Create_TimeWindowValidation(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()
	now := time.Now()

	cases := []struct {
		name   string
		mutate func(*CreateListingInput)
	}{
		{"prepared in future", func(in *CreateListingInput) { in.PreparedAt = now.Add(time.Hour) }},
		{"already expired", func(in *CreateListingInput) { in.ExpiresAt = now.Add(-time.Minute) }},
		{"empty pickup window", func(in *CreateListingInput) { in.PickupEnd = in.PickupStart }},
		{"inverted pickup window", func(in *CreateListingInput) {
			in.PickupStart, in.PickupEnd = in.PickupEnd, in.PickupStart
		}},
		{"pickup past expiry", func(in *CreateListingInput) { in.PickupEnd = in.ExpiresAt.Add(time.Hour) }},
		{"zero quantity", func(in *CreateListingInput) { in.Quantity = 0 }},
		{"unknown food type", func(in *CreateListingInput) { in.FoodType = "sushi" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validListingInput(now)
			tc.mutate(&in)
			_, err := svc.Create(ctx, uuid.New(), in)
			assert.True(t, apperror.IsValidation(err))
		})
	}
}

func TestListingService_GetByID_ExpiresLazily(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, feed := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	ngoID := uuid.New()
	listing := activeListing(uuid.New())
	listing.ExpiresAt = time.Now().Add(-time.Minute)

	pending := []models.Request{
		{ID: uuid.New(), ListingID: listing.ID, NgoID: ngoID, Status: models.RequestStatusPending},
	}

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)
	repo.On("ExpireIfDue", ctx, listing.ID, mock.Anything).Return(true, nil)
	repo.On("ListRequests", ctx, listing.ID).Return(pending, nil)

	got, err := svc.GetByID(ctx, listing.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.ListingStatusExpired, got.Status)
	assert.Equal(t, []string{EventListingExpired}, feed.eventsFor(ngoID))
}

func TestListingService_GetByID_TerminalStatusUntouched(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	listing := activeListing(uuid.New())
	listing.Status = models.ListingStatusCompleted
	listing.ExpiresAt = time.Now().Add(-time.Hour)

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)

	got, err := svc.GetByID(ctx, listing.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.ListingStatusCompleted, got.Status)
	repo.AssertNotCalled(t, "ExpireIfDue", mock.Anything, mock.Anything, mock.Anything)
}

func TestListingService_Cancel_NotifiesActiveRequests(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, feed := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	donorID := uuid.New()
	pendingNgo := uuid.New()
	rejectedNgo := uuid.New()
	listing := activeListing(donorID)
	listing.Status = models.ListingStatusRequested

	requests := []models.Request{
		{ID: uuid.New(), ListingID: listing.ID, NgoID: pendingNgo, Status: models.RequestStatusPending},
		{ID: uuid.New(), ListingID: listing.ID, NgoID: rejectedNgo, Status: models.RequestStatusRejected},
	}

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)
	repo.On("UpdateStatusIf", ctx, listing.ID,
		[]models.ListingStatus{models.ListingStatusPosted, models.ListingStatusRequested},
		models.ListingStatusCancelled).Return(true, nil)
	repo.On("ListRequests", ctx, listing.ID).Return(requests, nil)

	got, err := svc.Cancel(ctx, donorID, listing.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.ListingStatusCancelled, got.Status)
	assert.Equal(t, []string{EventListingCancelled}, feed.eventsFor(pendingNgo))
	assert.Empty(t, feed.eventsFor(rejectedNgo))
}

func TestListingService_Cancel_ConfirmedForbidden(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	donorID := uuid.New()
	listing := activeListing(donorID)
	listing.Status = models.ListingStatusConfirmed

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)

	_, err := svc.Cancel(ctx, donorID, listing.ID)
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

func TestListingService_Cancel_LostRace(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	donorID := uuid.New()
	listing := activeListing(donorID)

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)
	repo.On("UpdateStatusIf", ctx, listing.ID, mock.Anything, models.ListingStatusCancelled).
		Return(false, nil)

	_, err := svc.Cancel(ctx, donorID, listing.ID)
	assert.True(t, apperror.IsAlreadyResolved(err))
}

func TestListingService_Complete_NotifiesAcceptedNgo(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, feed := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	donorID := uuid.New()
	ngoID := uuid.New()
	listing := activeListing(donorID)
	listing.Status = models.ListingStatusConfirmed

	accepted := &models.Request{ID: uuid.New(), ListingID: listing.ID, NgoID: ngoID, Status: models.RequestStatusAccepted}

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)
	repo.On("UpdateStatusIf", ctx, listing.ID,
		[]models.ListingStatus{models.ListingStatusConfirmed},
		models.ListingStatusCompleted).Return(true, nil)
	repo.On("GetAcceptedRequest", ctx, listing.ID).Return(accepted, nil)

	got, err := svc.Complete(ctx, donorID, listing.ID)

	assert.NoError(t, err)
	assert.Equal(t, models.ListingStatusCompleted, got.Status)
	assert.Equal(t, []string{EventListingCompleted}, feed.eventsFor(ngoID))
}

func TestListingService_Complete_OnlyFromConfirmed(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	donorID := uuid.New()
	listing := activeListing(donorID)

	repo.On("GetByID", ctx, listing.ID).Return(listing, nil)

	_, err := svc.Complete(ctx, donorID, listing.ID)
	assert.True(t, apperror.Is(err, apperror.ErrCodeInvalidTransition))
}

func TestListingService_SweepExpired(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, feed := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	ngoID := uuid.New()
	first := activeListing(uuid.New())
	second := activeListing(uuid.New())

	repo.On("ExpireDue", ctx, mock.Anything).Return([]models.Listing{*first, *second}, nil)
	repo.On("ListRequests", ctx, first.ID).Return([]models.Request{
		{ID: uuid.New(), ListingID: first.ID, NgoID: ngoID, Status: models.RequestStatusPending},
	}, nil)
	repo.On("ListRequests", ctx, second.ID).Return([]models.Request{}, nil)

	n, err := svc.SweepExpired(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{EventListingExpired}, feed.eventsFor(ngoID))
}

func TestListingService_List_DefaultsToPosted(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)
	ctx := context.Background()

	repo.On("List", ctx, repository.ListingFilterParams{
		Status: models.ListingStatusPosted,
		Limit:  20,
		Offset: 0,
	}).Return(&repository.ListingListResult{Listings: []models.Listing{}, Total: 0}, nil)

	result, err := svc.List(ctx, ListParams{})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	repo.AssertExpectations(t)
}

func TestListingService_List_InvalidStatus(t *testing.T) {
	repo := new(mockListingRepo)
	notifications, _ := newTestNotifications()
	svc := NewListingService(repo, notifications)

	_, err := svc.List(context.Background(), ListParams{Status: "archived"})
	assert.True(t, apperror.IsValidation(err))
}
