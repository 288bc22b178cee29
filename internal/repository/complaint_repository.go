package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/foodshare/foodshare-backend/internal/models"
)

var ErrComplaintNotFound = errors.New("complaint not found")

// ComplaintRepository отвечает за жалобы пользователей.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository создаёт новый экземпляр.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// Create сохраняет новую жалобу.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (from_user_id, to_user_id, listing_id, type, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		complaint.FromUserID, complaint.ToUserID, complaint.ListingID,
		complaint.Type, complaint.Description, complaint.Status,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
	if err != nil {
		return fmt.Errorf("complaint repository: create %w", err)
	}
	return nil
}

// GetByID возвращает жалобу по идентификатору.
func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	query := `SELECT * FROM complaints WHERE id = $1`
	if err := r.db.GetContext(ctx, &complaint, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("complaint repository: get by id %w", err)
	}
	return &complaint, nil
}

// ListByStatus возвращает жалобы в заданном статусе (для админки).
// Пустой статус означает все жалобы.
func (r *ComplaintRepository) ListByStatus(ctx context.Context, status models.ComplaintStatus, limit, offset int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	var err error
	if status == "" {
		query := `SELECT * FROM complaints ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		err = r.db.SelectContext(ctx, &complaints, query, limit, offset)
	} else {
		query := `SELECT * FROM complaints WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		err = r.db.SelectContext(ctx, &complaints, query, status, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("complaint repository: list by status %w", err)
	}
	return complaints, nil
}

// ListByAuthor возвращает жалобы, поданные пользователем.
func (r *ComplaintRepository) ListByAuthor(ctx context.Context, fromUserID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	query := `SELECT * FROM complaints WHERE from_user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &complaints, query, fromUserID); err != nil {
		return nil, fmt.Errorf("complaint repository: list by author %w", err)
	}
	return complaints, nil
}

// UpdateStatusIf выполняет условный переход статуса жалобы: строка
// обновляется только из ожидаемого текущего статуса. Возвращает
// обновлённую жалобу или ErrComplaintNotFound при несовпадении.
func (r *ComplaintRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.ComplaintStatus, adminID uuid.UUID, notes string) (*models.Complaint, error) {
	var complaint models.Complaint
	query := `
		UPDATE complaints
		SET status = $3,
		    resolved_by = $4,
		    admin_notes = $5,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING *
	`
	err := r.db.QueryRowxContext(ctx, query, id, from, to, adminID, notes).StructScan(&complaint)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrComplaintNotFound
		}
		return nil, fmt.Errorf("complaint repository: update status %w", err)
	}
	return &complaint, nil
}
