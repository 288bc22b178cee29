package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
)

// ContactListingRepository доступ к объявлению и принятой заявке.
type ContactListingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetAcceptedRequest(ctx context.Context, listingID uuid.UUID) (*models.Request, error)
}

// ContactUserRepository доступ к пользователям и профилям.
type ContactUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ContactService реализует политику раскрытия контактов: телефон и адрес
// второй стороны видны только участникам подтверждённой пары и только
// после перехода объявления в confirmed.
type ContactService struct {
	listings ContactListingRepository
	users    ContactUserRepository
}

// NewContactService создаёт сервис контактов.
func NewContactService(listings ContactListingRepository, users ContactUserRepository) *ContactService {
	return &ContactService{
		listings: listings,
		users:    users,
	}
}

// GetContacts возвращает карточку второй стороны подтверждённой передачи.
// Для посторонних пользователей и неподтверждённых объявлений — отказ.
func (s *ContactService) GetContacts(ctx context.Context, viewerID, listingID uuid.UUID) (*models.ContactDisclosure, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("contact service: %w", err)
	}

	if !contactsDisclosed(listing.Status) {
		return nil, apperror.New(apperror.ErrCodeForbidden,
			"контакты раскрываются только после подтверждения заявки")
	}

	accepted, err := s.listings.GetAcceptedRequest(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, apperror.New(apperror.ErrCodeForbidden,
				"контакты раскрываются только после подтверждения заявки")
		}
		return nil, fmt.Errorf("contact service: %w", err)
	}

	switch viewerID {
	case listing.DonorID:
		card, err := s.buildCard(ctx, accepted.NgoID)
		if err != nil {
			return nil, err
		}
		return &models.ContactDisclosure{NgoContact: card}, nil
	case accepted.NgoID:
		card, err := s.buildCard(ctx, listing.DonorID)
		if err != nil {
			return nil, err
		}
		return &models.ContactDisclosure{DonorContact: card}, nil
	default:
		return nil, apperror.ErrForbidden
	}
}

// buildCard собирает контактную карточку пользователя.
func (s *ContactService) buildCard(ctx context.Context, userID uuid.UUID) (*models.ContactCard, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("contact service: %w", err)
	}

	card := &models.ContactCard{
		UserID: user.ID,
		Email:  user.Email,
	}
	if profile, err := s.users.GetProfile(ctx, userID); err == nil {
		card.Name = profile.DisplayName
		card.Phone = profile.Phone
		card.Address = profile.Address
	}
	return card, nil
}

// contactsDisclosed сообщает, открыты ли контакты в данном статусе
// объявления. Раскрытие сохраняется и после завершения передачи.
func contactsDisclosed(status models.ListingStatus) bool {
	return status == models.ListingStatusConfirmed || status == models.ListingStatusCompleted
}
