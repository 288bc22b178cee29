package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/logger"
	"github.com/foodshare/foodshare-backend/internal/models"
)

// NotificationRepositoryInterface описывает хранилище ленты уведомлений.
type NotificationRepositoryInterface interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

// Notifier доставляет событие подключённым клиентам пользователя.
// Реализуется WebSocket-хабом.
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data interface{})
}

// NotificationService сохраняет уведомления в ленту и рассылает их онлайн.
type NotificationService struct {
	repo     NotificationRepositoryInterface
	notifier Notifier
}

// NewNotificationService создаёт сервис уведомлений. notifier может быть
// nil — тогда уведомления только пишутся в ленту.
func NewNotificationService(repo NotificationRepositoryInterface, notifier Notifier) *NotificationService {
	return &NotificationService{repo: repo, notifier: notifier}
}

// Dispatch сохраняет и рассылает пачку уведомлений. Ошибка доставки одного
// уведомления не блокирует остальные: переход статуса уже зафиксирован,
// уведомления — побочный эффект.
func (s *NotificationService) Dispatch(ctx context.Context, intents []NotificationIntent) {
	for _, intent := range intents {
		payload, err := json.Marshal(intent.Payload)
		if err != nil {
			logger.Log.Warnf("notification service: не удалось сериализовать payload: %v", err)
			continue
		}

		n := &models.Notification{
			UserID:  intent.RecipientID,
			Event:   intent.Event,
			Payload: payload,
		}
		if err := s.repo.Create(ctx, n); err != nil {
			logger.Log.WithField("user_id", intent.RecipientID).
				Warnf("notification service: не удалось сохранить уведомление: %v", err)
			continue
		}

		if s.notifier != nil {
			s.notifier.BroadcastToUser(intent.RecipientID, intent.Event, intent.Payload)
		}
	}
}

// NotificationFeed лента уведомлений с количеством непрочитанных.
type NotificationFeed struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// List возвращает ленту уведомлений пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*NotificationFeed, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("notification service: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notification service: %w", err)
	}

	if items == nil {
		items = []models.Notification{}
	}
	return &NotificationFeed{Notifications: items, UnreadCount: unread}, nil
}

// MarkRead помечает уведомление прочитанным.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("notification service: %w", err)
	}
	return nil
}

// MarkAllRead помечает все уведомления пользователя прочитанными.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("notification service: %w", err)
	}
	return nil
}
