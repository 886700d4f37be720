package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm-system/internal/entities"
)

type CustomerLogRepositoryInterface interface {
	AddLog(ctx context.Context, tx pgx.Tx, log *entities.CustomerLog) (uint64, error)
	GetLogsByCustomer(ctx context.Context, customerID uint64) ([]entities.CustomerLog, error)
}

type customerLogRepository struct {
	storage *pgxpool.Pool
}

func NewCustomerLogRepository(storage *pgxpool.Pool) CustomerLogRepositoryInterface {
	return &customerLogRepository{storage: storage}
}

func (r *customerLogRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *customerLogRepository) AddLog(ctx context.Context, tx pgx.Tx, log *entities.CustomerLog) (uint64, error) {
	query := `
		INSERT INTO customer_logs (customer_id, text, user_id, user_name, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id`

	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		log.CustomerID, log.Text, log.UserID, log.UserName,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка добавления записи в журнал клиента: %w", err)
	}
	return newID, nil
}

// GetLogsByCustomer возвращает записи от новых к старым.
func (r *customerLogRepository) GetLogsByCustomer(ctx context.Context, customerID uint64) ([]entities.CustomerLog, error) {
	query := `
		SELECT id, customer_id, text, user_id, user_name, created_at
		FROM customer_logs
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.storage.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала клиента: %w", err)
	}
	defer rows.Close()

	logs := make([]entities.CustomerLog, 0)
	for rows.Next() {
		var l entities.CustomerLog
		if err := rows.Scan(&l.ID, &l.CustomerID, &l.Text, &l.UserID, &l.UserName, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования customer_logs: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
