package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	apperrors "crm-system/pkg/errors"
)

type NotificationRepositoryInterface interface {
	CreateForUsers(ctx context.Context, userIDs []uint64, title, message, ntype string, metadata map[string]string) error
	GetByUser(ctx context.Context, userID uint64, limit int) ([]entities.Notification, error)
	MarkRead(ctx context.Context, id uint64, userID uint64) error
}

type notificationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNotificationRepository(storage *pgxpool.Pool, logger *zap.Logger) NotificationRepositoryInterface {
	return &notificationRepository{storage: storage, logger: logger}
}

// CreateForUsers пишет по одной строке уведомления на каждого получателя
// одним батчем.
func (r *notificationRepository) CreateForUsers(ctx context.Context, userIDs []uint64, title, message, ntype string, metadata map[string]string) error {
	if len(userIDs) == 0 {
		return nil
	}

	var metaJSON []byte
	if metadata != nil {
		var err error
		metaJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("ошибка сериализации метаданных уведомления: %w", err)
		}
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO notifications (user_id, title, message, type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`
	for _, userID := range userIDs {
		batch.Queue(query, userID, title, message, ntype, metaJSON)
	}

	results := r.storage.SendBatch(ctx, batch)
	defer results.Close()

	for range userIDs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("ошибка записи уведомления: %w", err)
		}
	}
	return nil
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID uint64, limit int) ([]entities.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, metadata, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.storage.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	defer rows.Close()

	notifications := make([]entities.Notification, 0)
	for rows.Next() {
		var n entities.Notification
		var metaJSON []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &metaJSON, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования notifications: %w", err)
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &n.Metadata); err != nil {
				return nil, fmt.Errorf("ошибка разбора метаданных уведомления: %w", err)
			}
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uint64, userID uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("ошибка отметки уведомления прочитанным: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
