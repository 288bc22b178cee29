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

var ErrMediaNotFound = errors.New("media file not found")

// MediaRepository хранит метаданные загруженных фотографий.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository создаёт новый экземпляр.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create сохраняет метаданные файла.
func (r *MediaRepository) Create(ctx context.Context, file *models.MediaFile) error {
	query := `
		INSERT INTO media_files (user_id, file_path, file_type, file_size)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(
		ctx, query,
		file.UserID, file.FilePath, file.FileType, file.FileSize,
	).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return fmt.Errorf("media repository: create %w", err)
	}
	return nil
}

// GetByID возвращает метаданные файла.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MediaFile, error) {
	var file models.MediaFile
	query := `SELECT * FROM media_files WHERE id = $1`
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("media repository: get by id %w", err)
	}
	return &file, nil
}
