package services

import (
	"context"

	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/internal/repositories"
)

type NotificationServiceInterface interface {
	GetMyNotifications(ctx context.Context, userID uint64, limit int) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id uint64, userID uint64) error
}

type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo repositories.NotificationRepositoryInterface, logger *zap.Logger) NotificationServiceInterface {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uint64, limit int) ([]entities.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notificationRepo.GetByUser(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64, userID uint64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}
