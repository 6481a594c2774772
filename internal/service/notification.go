package service

import (
	"context"

	"github.com/eklundh/tidflow/internal/model"
	"github.com/eklundh/tidflow/internal/repository"
)

type NotificationService struct {
	notifications repository.NotificationRepo
}

func NewNotificationService(notifications repository.NotificationRepo) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, session *Session, unreadOnly bool) ([]model.Notification, error) {
	return s.notifications.ListByRecipient(ctx, session.Email(), unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, session *Session, id uint) error {
	return s.notifications.MarkRead(ctx, id, session.Email())
}
