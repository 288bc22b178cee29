package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

type mockUserRepoForContacts struct {
	mock.Mock
}

func (m *mockUserRepoForContacts) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepoForContacts) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func confirmedPair() (*models.Listing, *models.Request) {
	listing := activeListing(uuid.New())
	listing.Status = models.ListingStatusConfirmed
	accepted := &models.Request{
		ID:        uuid.New(),
		ListingID: listing.ID,
		NgoID:     uuid.New(),
		Status:    models.RequestStatusAccepted,
	}
	return listing, accepted
}

func TestContactService_DonorSeesNgoContact(t *testing.T) {
	listings := new(mockListingRepoForFeedback)
	users := new(mockUserRepoForContacts)
	svc := NewContactService(listings, users)
	ctx := context.Background()

	listing, accepted := confirmedPair()
	phone := "+7 900 000-00-00"

	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	listings.On("GetAcceptedRequest", ctx, listing.ID).Return(accepted, nil)
	users.On("GetByID", ctx, accepted.NgoID).
		Return(&models.User{ID: accepted.NgoID, Email: "ngo@example.org"}, nil)
	users.On("GetProfile", ctx, accepted.NgoID).
		Return(&models.Profile{UserID: accepted.NgoID, DisplayName: "Добрая тарелка", Phone: &phone}, nil)

	disclosure, err := svc.GetContacts(ctx, listing.DonorID, listing.ID)

	assert.NoError(t, err)
	assert.Nil(t, disclosure.DonorContact)
	assert.NotNil(t, disclosure.NgoContact)
	assert.Equal(t, "ngo@example.org", disclosure.NgoContact.Email)
	assert.Equal(t, &phone, disclosure.NgoContact.Phone)
}

func TestContactService_NgoSeesDonorContact(t *testing.T) {
	listings := new(mockListingRepoForFeedback)
	users := new(mockUserRepoForContacts)
	svc := NewContactService(listings, users)
	ctx := context.Background()

	listing, accepted := confirmedPair()

	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	listings.On("GetAcceptedRequest", ctx, listing.ID).Return(accepted, nil)
	users.On("GetByID", ctx, listing.DonorID).
		Return(&models.User{ID: listing.DonorID, Email: "donor@example.org"}, nil)
	users.On("GetProfile", ctx, listing.DonorID).
		Return(&models.Profile{UserID: listing.DonorID, DisplayName: "Пекарня «Утро»"}, nil)

	disclosure, err := svc.GetContacts(ctx, accepted.NgoID, listing.ID)

	assert.NoError(t, err)
	assert.Nil(t, disclosure.NgoContact)
	assert.NotNil(t, disclosure.DonorContact)
	assert.Equal(t, listing.DonorID, disclosure.DonorContact.UserID)
}

func TestContactService_DisclosurePersistsAfterCompletion(t *testing.T) {
	listings := new(mockListingRepoForFeedback)
	users := new(mockUserRepoForContacts)
	svc := NewContactService(listings, users)
	ctx := context.Background()

	listing, accepted := confirmedPair()
	listing.Status = models.ListingStatusCompleted

	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	listings.On("GetAcceptedRequest", ctx, listing.ID).Return(accepted, nil)
	users.On("GetByID", ctx, accepted.NgoID).
		Return(&models.User{ID: accepted.NgoID, Email: "ngo@example.org"}, nil)
	users.On("GetProfile", ctx, accepted.NgoID).
		Return(&models.Profile{UserID: accepted.NgoID, DisplayName: "Фонд"}, nil)

	disclosure, err := svc.GetContacts(ctx, listing.DonorID, listing.ID)

	assert.NoError(t, err)
	assert.NotNil(t, disclosure.NgoContact)
}

func TestContactService_HiddenBeforeConfirmation(t *testing.T) {
	listings := new(mockListingRepoForFeedback)
	users := new(mockUserRepoForContacts)
	svc := NewContactService(listings, users)
	ctx := context.Background()

	for _, status := range []models.ListingStatus{
		models.ListingStatusPosted,
		models.ListingStatusRequested,
		models.ListingStatusCancelled,
		models.ListingStatusExpired,
	} {
		listing := activeListing(uuid.New())
		listing.Status = status
		listings.On("GetByID", ctx, listing.ID).Return(listing, nil)

		_, err := svc.GetContacts(ctx, listing.DonorID, listing.ID)
		assert.True(t, apperror.IsForbidden(err), "status %s", status)
	}
}

func TestContactService_StrangerForbidden(t *testing.T) {
	listings := new(mockListingRepoForFeedback)
	users := new(mockUserRepoForContacts)
	svc := NewContactService(listings, users)
	ctx := context.Background()

	listing, accepted := confirmedPair()
	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	listings.On("GetAcceptedRequest", ctx, listing.ID).Return(accepted, nil)

	_, err := svc.GetContacts(ctx, uuid.New(), listing.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestContactService_NoAcceptedRequest(t *testing.T) {
	listings := new(mockListingRepoForFeedback)
	users := new(mockUserRepoForContacts)
	svc := NewContactService(listings, users)
	ctx := context.Background()

	listing := activeListing(uuid.New())
	listing.Status = models.ListingStatusConfirmed

	listings.On("GetByID", ctx, listing.ID).Return(listing, nil)
	listings.On("GetAcceptedRequest", ctx, listing.ID).Return(nil, repository.ErrRequestNotFound)

	_, err := svc.GetContacts(ctx, listing.DonorID, listing.ID)
	assert.True(t, apperror.IsForbidden(err))
}
