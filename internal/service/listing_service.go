package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/logger"
	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
	"github.com/foodshare/foodshare-backend/internal/validation"
)

// ListingRepositoryInterface описывает зависимости ListingService от хранилища.
type ListingRepositoryInterface interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	List(ctx context.Context, params repository.ListingFilterParams) (*repository.ListingListResult, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Listing, error)
	UpdateDetails(ctx context.Context, listing *models.Listing) error
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []models.ListingStatus, to models.ListingStatus) (bool, error)
	ExpireIfDue(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	ExpireDue(ctx context.Context, now time.Time) ([]models.Listing, error)
	ListRequests(ctx context.Context, listingID uuid.UUID) ([]models.Request, error)
	GetAcceptedRequest(ctx context.Context, listingID uuid.UUID) (*models.Request, error)
}

// ListingService инкапсулирует жизненный цикл объявления о донации.
type ListingService struct {
	repo          ListingRepositoryInterface
	notifications *NotificationService
}

// NewListingService создаёт сервис объявлений.
func NewListingService(repo ListingRepositoryInterface, notifications *NotificationService) *ListingService {
	return &ListingService{
		repo:          repo,
		notifications: notifications,
	}
}

// CreateListingInput данные нового объявления.
type CreateListingInput struct {
	Title        string
	Description  string
	FoodType     string
	Quantity     float64
	QuantityUnit string
	PreparedAt   time.Time
	ExpiresAt    time.Time
	PickupStart  time.Time
	PickupEnd    time.Time
	Address      string
	Photos       []string
	Allergens    []string
	StorageNotes string
}

// Create публикует новое объявление ресторана.
func (s *ListingService) Create(ctx context.Context, donorID uuid.UUID, in CreateListingInput) (*models.Listing, error) {
	if err := s.validateInput(in, time.Now()); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		DonorID:      donorID,
		Title:        validation.Sanitize(in.Title),
		FoodType:     in.FoodType,
		Quantity:     in.Quantity,
		QuantityUnit: validation.Sanitize(in.QuantityUnit),
		PreparedAt:   in.PreparedAt,
		ExpiresAt:    in.ExpiresAt,
		PickupStart:  in.PickupStart,
		PickupEnd:    in.PickupEnd,
		Status:       models.ListingStatusPosted,
		Address:      validation.Sanitize(in.Address),
		Photos:       in.Photos,
		Allergens:    in.Allergens,
	}
	if desc := validation.Sanitize(in.Description); desc != "" {
		listing.Description = &desc
	}
	if notes := validation.Sanitize(in.StorageNotes); notes != "" {
		listing.StorageNotes = &notes
	}
	if listing.Photos == nil {
		listing.Photos = []string{}
	}
	if listing.Allergens == nil {
		listing.Allergens = []string{}
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	return listing, nil
}

// GetByID возвращает объявление, лениво переводя его в expired при
// просроченном сроке. Повторное чтение просроченного объявления — no-op.
func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("listing service: %w", err)
	}

	if s.expireLazily(ctx, listing) {
		listing.Status = models.ListingStatusExpired
	}
	return listing, nil
}

// ListParams параметры каталога объявлений.
type ListParams struct {
	Status   string
	FoodType string
	Search   string
	Page     int
	PerPage  int
}

// List возвращает каталог объявлений. По умолчанию показываются только
// открытые для заявок (posted).
func (s *ListingService) List(ctx context.Context, params ListParams) (*repository.ListingListResult, error) {
	status := models.ListingStatus(params.Status)
	if params.Status == "" {
		status = models.ListingStatusPosted
	} else if !status.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус")
	}
	if params.FoodType != "" {
		if _, ok := models.ValidFoodTypes[params.FoodType]; !ok {
			return nil, apperror.New(apperror.ErrCodeValidation, "некорректная категория еды")
		}
	}

	if params.PerPage <= 0 || params.PerPage > 100 {
		params.PerPage = 20
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	result, err := s.repo.List(ctx, repository.ListingFilterParams{
		Status:   status,
		FoodType: params.FoodType,
		Search:   validation.Sanitize(params.Search),
		Limit:    params.PerPage,
		Offset:   (params.Page - 1) * params.PerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	if result.Listings == nil {
		result.Listings = []models.Listing{}
	}
	return result, nil
}

// ListByDonor возвращает объявления ресторана.
func (s *ListingService) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Listing, error) {
	listings, err := s.repo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	if listings == nil {
		listings = []models.Listing{}
	}
	return listings, nil
}

// Update изменяет содержимое объявления. Разрешено только владельцу и
// только пока объявление в posted.
func (s *ListingService) Update(ctx context.Context, donorID, listingID uuid.UUID, in CreateListingInput) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.DonorID != donorID {
		return nil, apperror.ErrForbidden
	}
	if err := s.validateInput(in, time.Now()); err != nil {
		return nil, err
	}

	listing.Title = validation.Sanitize(in.Title)
	listing.FoodType = in.FoodType
	listing.Quantity = in.Quantity
	listing.QuantityUnit = validation.Sanitize(in.QuantityUnit)
	listing.ExpiresAt = in.ExpiresAt
	listing.PickupStart = in.PickupStart
	listing.PickupEnd = in.PickupEnd
	listing.Address = validation.Sanitize(in.Address)
	listing.Photos = in.Photos
	listing.Allergens = in.Allergens
	listing.Description = nil
	if desc := validation.Sanitize(in.Description); desc != "" {
		listing.Description = &desc
	}
	listing.StorageNotes = nil
	if notes := validation.Sanitize(in.StorageNotes); notes != "" {
		listing.StorageNotes = &notes
	}
	if listing.Photos == nil {
		listing.Photos = []string{}
	}
	if listing.Allergens == nil {
		listing.Allergens = []string{}
	}

	if err := s.repo.UpdateDetails(ctx, listing); err != nil {
		if errors.Is(err, repository.ErrListingNotAvailable) {
			return nil, apperror.New(apperror.ErrCodeInvalidTransition,
				"объявление можно редактировать только до первой заявки")
		}
		return nil, fmt.Errorf("listing service: %w", err)
	}
	return listing, nil
}

// Cancel снимает объявление. Допустимо только из posted или requested;
// все НКО с ожидающими заявками получают уведомление.
func (s *ListingService) Cancel(ctx context.Context, donorID, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.DonorID != donorID {
		return nil, apperror.ErrForbidden
	}
	if !listing.Status.CanTransitionTo(models.ListingStatusCancelled) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition,
			fmt.Sprintf("объявление в статусе %s нельзя отменить", listing.Status))
	}

	ok, err := s.repo.UpdateStatusIf(ctx, listingID,
		[]models.ListingStatus{models.ListingStatusPosted, models.ListingStatusRequested},
		models.ListingStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	if !ok {
		return nil, apperror.New(apperror.ErrCodeAlreadyResolved, "объявление уже изменило статус")
	}

	requests, err := s.repo.ListRequests(ctx, listingID)
	if err != nil {
		logger.Log.WithField("listing_id", listingID).
			Warnf("listing service: не удалось получить заявки для уведомлений: %v", err)
	} else {
		s.notifications.Dispatch(ctx, listingClosedIntents(EventListingCancelled, listing, requests))
	}

	listing.Status = models.ListingStatusCancelled
	return listing, nil
}

// Complete фиксирует состоявшуюся передачу. Допустимо только из confirmed;
// обе стороны получают возможность оставить отзыв.
func (s *ListingService) Complete(ctx context.Context, donorID, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.DonorID != donorID {
		return nil, apperror.ErrForbidden
	}
	if !listing.Status.CanTransitionTo(models.ListingStatusCompleted) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition,
			fmt.Sprintf("завершить можно только подтверждённое объявление, текущий статус %s", listing.Status))
	}

	ok, err := s.repo.UpdateStatusIf(ctx, listingID,
		[]models.ListingStatus{models.ListingStatusConfirmed},
		models.ListingStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	if !ok {
		return nil, apperror.New(apperror.ErrCodeAlreadyResolved, "объявление уже изменило статус")
	}

	if accepted, err := s.repo.GetAcceptedRequest(ctx, listingID); err == nil {
		s.notifications.Dispatch(ctx, listingClosedIntents(EventListingCompleted, listing, []models.Request{*accepted}))
	}

	listing.Status = models.ListingStatusCompleted
	return listing, nil
}

// SweepExpired переводит все просроченные объявления в expired и
// уведомляет НКО с активными заявками. Вызывается фоновым свипером.
func (s *ListingService) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.repo.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("listing service: %w", err)
	}

	for i := range expired {
		listing := &expired[i]
		requests, err := s.repo.ListRequests(ctx, listing.ID)
		if err != nil {
			logger.Log.WithField("listing_id", listing.ID).
				Warnf("listing service: не удалось получить заявки для уведомлений: %v", err)
			continue
		}
		s.notifications.Dispatch(ctx, listingClosedIntents(EventListingExpired, listing, requests))
	}
	return len(expired), nil
}

// expireLazily переводит объявление в expired, если срок уже вышел.
// Возвращает true, если переход состоялся именно сейчас.
func (s *ListingService) expireLazily(ctx context.Context, listing *models.Listing) bool {
	if listing.Status != models.ListingStatusPosted && listing.Status != models.ListingStatusRequested {
		return false
	}
	now := time.Now()
	if listing.ExpiresAt.After(now) {
		return false
	}

	moved, err := s.repo.ExpireIfDue(ctx, listing.ID, now)
	if err != nil {
		logger.Log.WithField("listing_id", listing.ID).
			Warnf("listing service: не удалось перевести объявление в expired: %v", err)
		return false
	}
	if moved {
		requests, err := s.repo.ListRequests(ctx, listing.ID)
		if err == nil {
			s.notifications.Dispatch(ctx, listingClosedIntents(EventListingExpired, listing, requests))
		}
	}
	return moved
}

// validateInput проверяет поля объявления и согласованность временных окон:
// еда приготовлена в прошлом, срок годности в будущем, окно самовывоза
// лежит внутри срока годности.
func (s *ListingService) validateInput(in CreateListingInput, now time.Time) error {
	if err := validation.ValidateLength("название", in.Title, validation.MaxTitleLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOptionalLength("описание", in.Description, validation.MaxDescriptionLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if _, ok := models.ValidFoodTypes[in.FoodType]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "некорректная категория еды")
	}
	if in.Quantity <= 0 {
		return apperror.New(apperror.ErrCodeValidation, "количество должно быть больше нуля")
	}
	if err := validation.ValidateLength("единица измерения", in.QuantityUnit, 50); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("адрес", in.Address, validation.MaxAddressLength); err != nil {
		return apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if in.PreparedAt.After(now) {
		return apperror.New(apperror.ErrCodeValidation, "время приготовления не может быть в будущем")
	}
	if !in.ExpiresAt.After(now) {
		return apperror.New(apperror.ErrCodeValidation, "срок годности уже истёк")
	}
	if !in.PickupStart.Before(in.PickupEnd) {
		return apperror.New(apperror.ErrCodeValidation, "окно самовывоза должно иметь положительную длительность")
	}
	if in.PickupEnd.After(in.ExpiresAt) {
		return apperror.New(apperror.ErrCodeValidation, "окно самовывоза должно закончиться до истечения срока годности")
	}
	return nil
}
