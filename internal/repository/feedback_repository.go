package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/foodshare/foodshare-backend/internal/models"
)

var (
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrDuplicateFeedback = errors.New("feedback already exists")
)

// FeedbackRepository отвечает за отзывы после завершённых передач.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository создаёт новый экземпляр.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create сохраняет отзыв. Повторный отзыв того же автора по тому же
// объявлению отсекается уникальным индексом.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (listing_id, from_user_id, to_user_id, stars, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		feedback.ListingID, feedback.FromUserID, feedback.ToUserID,
		feedback.Stars, feedback.Comment,
	).Scan(&feedback.ID, &feedback.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateFeedback
		}
		return fmt.Errorf("feedback repository: create %w", err)
	}
	return nil
}

// GetByListingAndAuthor возвращает отзыв автора по объявлению.
func (r *FeedbackRepository) GetByListingAndAuthor(ctx context.Context, listingID, fromUserID uuid.UUID) (*models.Feedback, error) {
	var feedback models.Feedback
	query := `SELECT * FROM feedback WHERE listing_id = $1 AND from_user_id = $2`
	if err := r.db.GetContext(ctx, &feedback, query, listingID, fromUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("feedback repository: get by listing and author %w", err)
	}
	return &feedback, nil
}

// ListByUser возвращает отзывы, полученные пользователем.
func (r *FeedbackRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Feedback, error) {
	var items []models.Feedback
	query := `SELECT * FROM feedback WHERE to_user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("feedback repository: list by user %w", err)
	}
	return items, nil
}

// ListByListing возвращает отзывы по объявлению.
func (r *FeedbackRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Feedback, error) {
	var items []models.Feedback
	query := `SELECT * FROM feedback WHERE listing_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, listingID); err != nil {
		return nil, fmt.Errorf("feedback repository: list by listing %w", err)
	}
	return items, nil
}

// GetUserRating возвращает средний балл и количество отзывов пользователя.
func (r *FeedbackRepository) GetUserRating(ctx context.Context, userID uuid.UUID) (*models.UserRating, error) {
	var rating models.UserRating
	query := `
		SELECT COALESCE(AVG(stars), 0), COUNT(*)
		FROM feedback
		WHERE to_user_id = $1
	`
	if err := r.db.QueryRowxContext(ctx, query, userID).Scan(&rating.AverageStars, &rating.FeedbackCount); err != nil {
		return nil, fmt.Errorf("feedback repository: get user rating %w", err)
	}
	return &rating, nil
}
