package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shokulab/backend/internal/models"
	"github.com/shokulab/backend/internal/repositories"
)

type NotificationStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.InAppNotification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// NotificationService serves a user's in-app inbox.
type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.InAppNotification, error) {
	list, err := s.store.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, persistence("list notifications", err)
	}
	if list == nil {
		list = []models.InAppNotification{}
	}
	return list, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	err := s.store.MarkRead(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: notification %s", ErrNotFound, id)
	}
	if err != nil {
		return persistence("mark notification read", err)
	}
	return nil
}
