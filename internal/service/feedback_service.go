package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/models"
	"github.com/foodshare/foodshare-backend/internal/pkg/apperror"
	"github.com/foodshare/foodshare-backend/internal/repository"
	"github.com/foodshare/foodshare-backend/internal/validation"
)

// FeedbackRepositoryInterface описывает хранилище отзывов.
type FeedbackRepositoryInterface interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByListingAndAuthor(ctx context.Context, listingID, fromUserID uuid.UUID) (*models.Feedback, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Feedback, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Feedback, error)
	GetUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error)
}

// FeedbackListingRepository доступ к объявлению и принятой заявке.
type FeedbackListingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetAcceptedRequest(ctx context.Context, listingID uuid.UUID) (*models.Request, error)
}

// FeedbackService реализует взаимные отзывы после завершённой передачи.
type FeedbackService struct {
	repo          FeedbackRepositoryInterface
	listings      FeedbackListingRepository
	notifications *NotificationService
}

// NewFeedbackService создаёт сервис отзывов.
func NewFeedbackService(repo FeedbackRepositoryInterface, listings FeedbackListingRepository, notifications *NotificationService) *FeedbackService {
	return &FeedbackService{
		repo:          repo,
		listings:      listings,
		notifications: notifications,
	}
}

// CreateFeedbackInput данные нового отзыва.
type CreateFeedbackInput struct {
	ListingID uuid.UUID
	Stars     int
	Comment   string
}

// Create оставляет отзыв о второй стороне завершённой передачи. Отзыв
// доступен только участникам пары, только после completed и только один
// раз на объявление от каждой стороны.
func (s *FeedbackService) Create(ctx context.Context, authorID uuid.UUID, in CreateFeedbackInput) (*models.Feedback, error) {
	if in.Stars < 1 || in.Stars > 5 {
		return nil, apperror.New(apperror.ErrCodeValidation, "оценка должна быть от 1 до 5")
	}
	if err := validation.ValidateOptionalLength("комментарий", in.Comment, validation.MaxCommentLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	listing, err := s.listings.GetByID(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("feedback service: %w", err)
	}

	if listing.Status != models.ListingStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition,
			"отзыв можно оставить только после завершения передачи")
	}

	accepted, err := s.listings.GetAcceptedRequest(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil, apperror.New(apperror.ErrCodeForbidden, "у передачи нет подтверждённой заявки")
		}
		return nil, fmt.Errorf("feedback service: %w", err)
	}

	// Автор — одна из сторон пары, адресат — вторая.
	var targetID uuid.UUID
	switch authorID {
	case listing.DonorID:
		targetID = accepted.NgoID
	case accepted.NgoID:
		targetID = listing.DonorID
	default:
		return nil, apperror.New(apperror.ErrCodeForbidden, "отзыв могут оставить только участники передачи")
	}

	feedback := &models.Feedback{
		ListingID:  in.ListingID,
		FromUserID: authorID,
		ToUserID:   targetID,
		Stars:      in.Stars,
	}
	if comment := validation.Sanitize(in.Comment); comment != "" {
		feedback.Comment = &comment
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		if errors.Is(err, repository.ErrDuplicateFeedback) {
			return nil, apperror.New(apperror.ErrCodeDuplicateFeedback,
				"вы уже оставили отзыв по этой передаче")
		}
		return nil, fmt.Errorf("feedback service: %w", err)
	}

	s.notifications.Dispatch(ctx, feedbackReceivedIntents(feedback))
	return feedback, nil
}

// ListByUser возвращает отзывы, полученные пользователем.
func (s *FeedbackService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Feedback, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback service: %w", err)
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return items, nil
}

// ListByListing возвращает отзывы по объявлению.
func (s *FeedbackService) ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Feedback, error) {
	items, err := s.repo.ListByListing(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("feedback service: %w", err)
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return items, nil
}

// GetUserRating возвращает средний балл пользователя.
func (s *FeedbackService) GetUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	rating, err := s.repo.GetUserRating(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("feedback service: %w", err)
	}
	return rating, nil
}
