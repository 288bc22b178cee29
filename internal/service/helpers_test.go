package service

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/foodshare/foodshare-backend/internal/logger"
	"github.com/foodshare/foodshare-backend/internal/models"
)

func TestMain(m *testing.M) {
	logger.Init("fatal")
	os.Exit(m.Run())
}

// stubNotificationRepo накапливает сохранённые уведомления, чтобы тесты
// могли проверить адресатов и события.
type stubNotificationRepo struct {
	created []models.Notification
}

func (s *stubNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	s.created = append(s.created, *n)
	return nil
}

func (s *stubNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	return nil, nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

// newTestNotifications возвращает сервис уведомлений без WebSocket-хаба
// и стаб для проверки записей в ленту.
func newTestNotifications() (*NotificationService, *stubNotificationRepo) {
	repo := &stubNotificationRepo{}
	return NewNotificationService(repo, nil), repo
}

// eventsFor возвращает события, доставленные конкретному пользователю.
func (s *stubNotificationRepo) eventsFor(userID uuid.UUID) []string {
	var events []string
	for _, n := range s.created {
		if n.UserID == userID {
			events = append(events, n.Event)
		}
	}
	return events
}
