package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/pkg/constants"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/types"
)

const (
	requestTable  = "contact_requests"
	requestFields = "id, name, email, phone, service, message, status, customer_id, appointment_id, processor_id, created_at, updated_at"
)

// allowedRequestFilters - БЕЛЫЙ СПИСОК для фильтрации (защита от SQL Injection)
var allowedRequestFilters = map[string]string{
	"id":           "id",
	"status":       "status",
	"processor_id": "processor_id",
	"customer_id":  "customer_id",
}

var allowedRequestSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filter types.Filter) ([]entities.ContactRequest, uint64, error)
	FindRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ContactRequest, error)
	FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ContactRequest, error)
	CreateRequest(ctx context.Context, req *entities.ContactRequest) (uint64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	Assign(ctx context.Context, tx pgx.Tx, id uint64, processorID uint64, status string) error
	MarkConverted(ctx context.Context, tx pgx.Tx, id uint64, customerID uint64, appointmentID *uint64) error
	DeleteRequest(ctx context.Context, id uint64) error
	CountRequestsByStatus(ctx context.Context) (map[string]uint64, error)
}

type requestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &requestRepository{storage: storage, logger: logger}
}

func (r *requestRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanRequest(row pgx.Row) (*entities.ContactRequest, error) {
	var req entities.ContactRequest
	err := row.Scan(
		&req.ID, &req.Name, &req.Email, &req.Phone, &req.Service, &req.Message,
		&req.Status, &req.CustomerID, &req.AppointmentID, &req.ProcessorID,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования contact_requests: %w", err)
	}
	return &req, nil
}

func (r *requestRepository) GetRequests(ctx context.Context, filter types.Filter) ([]entities.ContactRequest, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(*)").From(requestTable)
	listBuilder := psql.Select(requestFields).From(requestTable)

	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedRequestFilters[jsonField]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			countBuilder = countBuilder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
			listBuilder = listBuilder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			countBuilder = countBuilder.Where(sq.Eq{dbCol: val})
			listBuilder = listBuilder.Where(sq.Eq{dbCol: val})
		}
	}

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		cond := sq.Or{sq.ILike{"name": search}, sq.ILike{"email": search}, sq.ILike{"phone": search}}
		countBuilder = countBuilder.Where(cond)
		listBuilder = listBuilder.Where(cond)
	}

	var total uint64
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета заявок: %w", err)
	}
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета заявок: %w", err)
	}

	ordered := false
	for jsonField, dir := range filter.Sort {
		if !allowedRequestSortFields[jsonField] {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(dir) == "desc" {
			sqlDir = "DESC"
		}
		listBuilder = listBuilder.OrderBy(fmt.Sprintf("%s %s", jsonField, sqlDir))
		ordered = true
	}
	if !ordered {
		listBuilder = listBuilder.OrderBy("created_at DESC")
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			listBuilder = listBuilder.Limit(uint64(filter.Limit))
		}
		if filter.Offset >= 0 {
			listBuilder = listBuilder.Offset(uint64(filter.Offset))
		}
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	requests := make([]entities.ContactRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, *req)
	}
	return requests, total, nil
}

func (r *requestRepository) FindRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ContactRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, requestFields, requestTable)
	return scanRequest(r.getQuerier(tx).QueryRow(ctx, query, id))
}

// FindRequestForUpdate блокирует строку заявки до конца транзакции. Именно на
// этой блокировке держится защита от двойной конвертации.
func (r *requestRepository) FindRequestForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.ContactRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, requestFields, requestTable)
	return scanRequest(tx.QueryRow(ctx, query, id))
}

func (r *requestRepository) CreateRequest(ctx context.Context, req *entities.ContactRequest) (uint64, error) {
	query := `
		INSERT INTO contact_requests (name, email, phone, service, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := r.storage.QueryRow(ctx, query, req.Name, req.Email, req.Phone, req.Service, req.Message, req.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return newID, nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	result, err := r.getQuerier(tx).Exec(ctx,
		`UPDATE contact_requests SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *requestRepository) Assign(ctx context.Context, tx pgx.Tx, id uint64, processorID uint64, status string) error {
	result, err := r.getQuerier(tx).Exec(ctx,
		`UPDATE contact_requests SET processor_id = $1, status = $2, updated_at = NOW() WHERE id = $3`,
		processorID, status, id)
	if err != nil {
		return fmt.Errorf("ошибка назначения ответственного: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *requestRepository) MarkConverted(ctx context.Context, tx pgx.Tx, id uint64, customerID uint64, appointmentID *uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx,
		`UPDATE contact_requests
		 SET customer_id = $1, appointment_id = $2, status = $3, updated_at = NOW()
		 WHERE id = $4 AND customer_id IS NULL`,
		customerID, appointmentID, constants.RequestStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("ошибка фиксации конвертации заявки: %w", err)
	}
	// Строка уже сконвертирована параллельной транзакцией.
	if result.RowsAffected() == 0 {
		return apperrors.ErrAlreadyConverted
	}
	return nil
}

func (r *requestRepository) CountRequestsByStatus(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.storage.Query(ctx, `SELECT status, COUNT(*) FROM contact_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета заявок по статусам: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var status string
		var count uint64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("ошибка сканирования счетчика заявок: %w", err)
		}
		counts[status] = count
	}
	return counts, nil
}

func (r *requestRepository) DeleteRequest(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM contact_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления заявки: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
