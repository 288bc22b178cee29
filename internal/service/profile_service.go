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

// ProfileRepositoryInterface описывает зависимости ProfileService.
type ProfileRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
}

// ProfileRatingRepository доступ к агрегированному рейтингу.
type ProfileRatingRepository interface {
	GetUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error)
}

// ProfileService отвечает за публичные профили организаций.
type ProfileService struct {
	users   ProfileRepositoryInterface
	ratings ProfileRatingRepository
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(users ProfileRepositoryInterface, ratings ProfileRatingRepository) *ProfileService {
	return &ProfileService{
		users:   users,
		ratings: ratings,
	}
}

// PublicProfile профиль организации вместе с рейтингом. Телефон и адрес
// из публичного профиля вырезаются: они раскрываются только через
// подтверждённую передачу.
type PublicProfile struct {
	UserID      uuid.UUID          `json:"user_id"`
	Role        string             `json:"role"`
	DisplayName string             `json:"display_name"`
	Description *string            `json:"description,omitempty"`
	AvatarURL   *string            `json:"avatar_url,omitempty"`
	Rating      *models.UserRating `json:"rating,omitempty"`
}

// GetPublic возвращает публичный профиль пользователя.
func (s *ProfileService) GetPublic(ctx context.Context, userID uuid.UUID) (*PublicProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}

	public := &PublicProfile{
		UserID: user.ID,
		Role:   user.Role,
	}
	if profile, err := s.users.GetProfile(ctx, userID); err == nil {
		public.DisplayName = profile.DisplayName
		public.Description = profile.Description
		public.AvatarURL = profile.AvatarURL
	}
	if rating, err := s.ratings.GetUserRating(ctx, userID); err == nil {
		public.Rating = rating
	}
	return public, nil
}

// GetOwn возвращает полный профиль владельца.
func (s *ProfileService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return profile, nil
}

// UpdateProfileInput данные обновления профиля.
type UpdateProfileInput struct {
	DisplayName string
	Description *string
	Phone       *string
	Address     *string
	AvatarURL   *string
}

// Update обновляет профиль владельца.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	if err := validation.ValidateLength("название организации", in.DisplayName, 200); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Description != nil {
		if err := validation.ValidateOptionalLength("описание", *in.Description, validation.MaxDescriptionLength); err != nil {
			return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
		}
	}

	profile := &models.Profile{
		UserID:      userID,
		DisplayName: validation.Sanitize(in.DisplayName),
		Description: in.Description,
		Phone:       in.Phone,
		Address:     in.Address,
		AvatarURL:   in.AvatarURL,
	}

	if err := s.users.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return profile, nil
}
