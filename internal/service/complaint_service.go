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

// ComplaintRepositoryInterface описывает хранилище жалоб.
type ComplaintRepositoryInterface interface {
	Create(ctx context.Context, complaint *models.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	ListByStatus(ctx context.Context, status models.ComplaintStatus, limit, offset int) ([]models.Complaint, error)
	ListByAuthor(ctx context.Context, fromUserID uuid.UUID) ([]models.Complaint, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to models.ComplaintStatus, adminID uuid.UUID, notes string) (*models.Complaint, error)
}

// ComplaintUserRepository доступ к пользователям для проверки адресата.
type ComplaintUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ComplaintService реализует подачу жалоб и их разбор администратором.
type ComplaintService struct {
	repo          ComplaintRepositoryInterface
	users         ComplaintUserRepository
	notifications *NotificationService
}

// NewComplaintService создаёт сервис жалоб.
func NewComplaintService(repo ComplaintRepositoryInterface, users ComplaintUserRepository, notifications *NotificationService) *ComplaintService {
	return &ComplaintService{
		repo:          repo,
		users:         users,
		notifications: notifications,
	}
}

// CreateComplaintInput данные новой жалобы.
type CreateComplaintInput struct {
	ToUserID    uuid.UUID
	ListingID   *uuid.UUID
	Type        string
	Description string
}

// Create подаёт жалобу на другого пользователя.
func (s *ComplaintService) Create(ctx context.Context, fromUserID uuid.UUID, in CreateComplaintInput) (*models.Complaint, error) {
	if _, ok := models.ValidComplaintTypes[in.Type]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный тип жалобы")
	}
	if err := validation.ValidateLength("описание", in.Description, validation.MaxComplaintLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.ToUserID == fromUserID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя пожаловаться на самого себя")
	}

	if _, err := s.users.GetByID(ctx, in.ToUserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("complaint service: %w", err)
	}

	complaint := &models.Complaint{
		FromUserID:  fromUserID,
		ToUserID:    in.ToUserID,
		ListingID:   in.ListingID,
		Type:        in.Type,
		Description: validation.Sanitize(in.Description),
		Status:      models.ComplaintStatusPending,
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("complaint service: %w", err)
	}

	s.notifications.Dispatch(ctx, complaintFiledIntents(complaint))
	return complaint, nil
}

// ListMine возвращает жалобы, поданные пользователем.
func (s *ComplaintService) ListMine(ctx context.Context, fromUserID uuid.UUID) ([]models.Complaint, error) {
	complaints, err := s.repo.ListByAuthor(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("complaint service: %w", err)
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return complaints, nil
}

// ListForAdmin возвращает жалобы для разбора администратором.
func (s *ComplaintService) ListForAdmin(ctx context.Context, status string, limit, offset int) ([]models.Complaint, error) {
	complaintStatus := models.ComplaintStatus(status)
	if status != "" && !complaintStatus.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус жалобы")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	complaints, err := s.repo.ListByStatus(ctx, complaintStatus, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("complaint service: %w", err)
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	return complaints, nil
}

// Resolve переводит жалобу в новый статус. Движение только вперёд:
// pending → reviewing → resolved | dismissed; закрытую жалобу переоткрыть
// нельзя. Автор жалобы уведомляется о терминальном решении.
func (s *ComplaintService) Resolve(ctx context.Context, adminID, complaintID uuid.UUID, target models.ComplaintStatus, notes string) (*models.Complaint, error) {
	if !target.IsValid() || target == models.ComplaintStatusPending {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный целевой статус")
	}
	if err := validation.ValidateOptionalLength("заметки", notes, validation.MaxComplaintLength); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	complaint, err := s.repo.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, repository.ErrComplaintNotFound) {
			return nil, apperror.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("complaint service: %w", err)
	}

	if !complaint.Status.CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeInvalidTransition,
			fmt.Sprintf("переход %s → %s недопустим", complaint.Status, target))
	}

	updated, err := s.repo.UpdateStatusIf(ctx, complaintID, complaint.Status, target, adminID, validation.Sanitize(notes))
	if err != nil {
		if errors.Is(err, repository.ErrComplaintNotFound) {
			// Статус изменился между чтением и записью.
			return nil, apperror.New(apperror.ErrCodeAlreadyResolved, "жалоба уже изменила статус")
		}
		return nil, fmt.Errorf("complaint service: %w", err)
	}

	if updated.Status.IsTerminal() {
		s.notifications.Dispatch(ctx, complaintResolvedIntents(updated))
	}
	return updated, nil
}
