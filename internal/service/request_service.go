package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
	"github.com/foodshare/foodshare-backend/internal/validation"
)

// RequestRepositoryInterface описывает зависимости RequestService от хранилища.
type RequestRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	ListRequests(ctx context.Context, listingID uuid.UUID) ([]models.Request, error)
	ListRequestsByNgo(ctx context.Context, ngoID uuid.UUID) ([]models.Request, error)
	AcceptRequest(ctx context.Context, listingID, requestID uuid.UUID) (*models.Request, []models.Request, error)
	RejectRequest(ctx context.Context, listingID, requestID uuid.UUID) (*models.Request, bool, error)
}

// RequestService реализует подачу заявок и их арбитраж рестораном.
// Все гонки (двойной accept, заявка в момент истечения срока) разрешаются
// условными UPDATE в хранилище; сервис только интерпретирует исходы.
type RequestService struct {
	repo          RequestRepositoryInterface
	notifications *NotificationService
}

// NewRequestService создаёт сервис заявок.
func NewRequestService(repo RequestRepositoryInterface, notifications *NotificationService) *RequestService {
	return &RequestService{
		repo:          repo,
		notifications: notifications,
	}
}

// SubmitRequestInput данные новой заявки.
type SubmitRequestInput struct {
	Message  string
	PickupAt time.Time
}

// Submit подаёт заявку НКО на объявление. Заявки принимаются, пока
// объявление в posted или requested и срок годности не вышел; желаемое
// время самовывоза обязано попадать в окно объявления.
func (s *RequestService) Submit(ctx context.Context, ngoID uuid.UUID, listingID uuid.UUID, in SubmitRequestInput) (*models.Request, error) {
	if err := validation.ValidateLength("сообщение", in.Message, validation.MaxMessageLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}

	if listing.DonorID == ngoID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя подать заявку на собственное объявление")
	}
	if in.PickupAt.Before(listing.PickupStart) || in.PickupAt.After(listing.PickupEnd) {
		return nil, apperror.New(apperror.ErrCodeValidation,
			"время самовывоза должно попадать в окно, указанное в объявлении")
	}

	request := &models.Request{
		ListingID: listingID,
		NgoID:     ngoID,
		Message:   validation.Sanitize(in.Message),
		PickupAt:  in.PickupAt,
		Status:    models.RequestStatusPending,
	}

	if err := s.repo.CreateRequest(ctx, request); err != nil {
		switch {
		case errors.Is(err, repository.ErrListingNotAvailable):
			// Срок мог истечь между чтением и записью — фиксируем expired.
			if moved, expErr := s.repo.ExpireIfDue(ctx, listingID, time.Now()); expErr == nil && moved {
				return nil, apperror.New(apperror.ErrCodeListingNotAvailable, "срок годности объявления истёк")
			}
			return nil, apperror.New(apperror.ErrCodeListingNotAvailable, "объявление недоступно для заявок")
		case errors.Is(err, repository.ErrDuplicateRequest):
			return nil, apperror.New(apperror.ErrCodeConflict, "у вас уже есть активная заявка на это объявление")
		default:
			return nil, fmt.Errorf("request service: %w", err)
		}
	}

	s.notifications.Dispatch(ctx, requestSubmittedIntents(listing, request))
	return request, nil
}

// ListForListing возвращает заявки объявления. Ресторан-владелец видит
// все заявки, НКО — только свою.
func (s *RequestService) ListForListing(ctx context.Context, viewerID uuid.UUID, listingID uuid.UUID) ([]models.Request, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}

	requests, err := s.repo.ListRequests(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}

	if listing.DonorID == viewerID {
		if requests == nil {
			requests = []models.Request{}
		}
		return requests, nil
	}

	own := []models.Request{}
	for _, r := range requests {
		if r.NgoID == viewerID {
			own = append(own, r)
		}
	}
	return own, nil
}

// ListMine возвращает все заявки НКО.
func (s *RequestService) ListMine(ctx context.Context, ngoID uuid.UUID) ([]models.Request, error) {
	requests, err := s.repo.ListRequestsByNgo(ctx, ngoID)
	if err != nil {
		return nil, fmt.Errorf("request service: %w", err)
	}
	if requests == nil {
		requests = []models.Request{}
	}
	return requests, nil
}

// Accept назначает заявку-победителя. Объявление переходит в confirmed,
// остальные ожидающие заявки автоматически отклоняются. Конкурирующий
// accept, успевший первым, оставляет этому вызову ошибку ALREADY_RESOLVED.
func (s *RequestService) Accept(ctx context.Context, donorID uuid.UUID, listingID, requestID uuid.UUID) (*models.Request, error) {
	listing, err := s.ownListing(ctx, donorID, listingID)
	if err != nil {
		return nil, err
	}

	accepted, rejected, err := s.repo.AcceptRequest(ctx, listingID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyResolved):
			// Либо второй accept проиграл гонку, либо срок истёк.
			if moved, expErr := s.repo.ExpireIfDue(ctx, listingID, time.Now()); expErr == nil && moved {
				return nil, apperror.New(apperror.ErrCodeListingNotAvailable, "срок годности объявления истёк")
			}
			return nil, apperror.New(apperror.ErrCodeAlreadyResolved, "объявление уже разрешено")
		case errors.Is(err, repository.ErrRequestNotPending):
			return nil, apperror.New(apperror.ErrCodeInvalidTransition, "заявка уже не в статусе pending")
		default:
			return nil, fmt.Errorf("request service: %w", err)
		}
	}

	s.notifications.Dispatch(ctx, requestAcceptedIntents(listing, accepted, rejected))
	return accepted, nil
}

// Reject отклоняет ожидающую заявку. Если это была последняя pending
// заявка, объявление возвращается в posted и снова открыто для заявок.
func (s *RequestService) Reject(ctx context.Context, donorID uuid.UUID, listingID, requestID uuid.UUID) (*models.Request, error) {
	listing, err := s.ownListing(ctx, donorID, listingID)
	if err != nil {
		return nil, err
	}

	rejected, _, err := s.repo.RejectRequest(ctx, listingID, requestID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRequestNotPending):
			return nil, apperror.New(apperror.ErrCodeInvalidTransition, "заявка уже не в статусе pending")
		default:
			return nil, fmt.Errorf("request service: %w", err)
		}
	}

	s.notifications.Dispatch(ctx, requestRejectedIntents(listing, rejected))
	return rejected, nil
}

// ownListing загружает объявление и проверяет владение.
func (s *RequestService) ownListing(ctx context.Context, donorID, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("request service: %w", err)
	}
	if listing.DonorID != donorID {
		return nil, apperror.ErrForbidden
	}
	return listing, nil
}
