package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/types"
)

const (
	customerTable  = "customers"
	customerFields = "id, name, email, phone, address, city, postal_code, country, company_name, \"type\", status, newsletter, created_at, updated_at, deleted_at"
)

var allowedCustomerFilters = map[string]string{
	"id":     "id",
	"type":   "\"type\"",
	"status": "status",
	"city":   "city",
}

var allowedCustomerSortFields = map[string]bool{
	"id":         true,
	"name":       true,
	"created_at": true,
	"updated_at": true,
}

type CustomerRepositoryInterface interface {
	GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error)
	FindCustomer(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Customer, error)
	CreateCustomer(ctx context.Context, tx pgx.Tx, c *entities.Customer) (uint64, error)
	UpdateCustomer(ctx context.Context, tx pgx.Tx, id uint64, c *entities.Customer) error
	SoftDeleteCustomer(ctx context.Context, tx pgx.Tx, id uint64) error
	CountCustomers(ctx context.Context) (uint64, error)
}

type customerRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCustomerRepository(storage *pgxpool.Pool, logger *zap.Logger) CustomerRepositoryInterface {
	return &customerRepository{storage: storage, logger: logger}
}

func (r *customerRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanCustomer(row pgx.Row) (*entities.Customer, error) {
	var c entities.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.PostalCode,
		&c.Country, &c.CompanyName, &c.Type, &c.Status, &c.Newsletter,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования customers: %w", err)
	}
	return &c, nil
}

func (r *customerRepository) GetCustomers(ctx context.Context, filter types.Filter) ([]entities.Customer, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From(customerTable).Where("deleted_at IS NULL")

	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedCustomerFilters[jsonField]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			base = base.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			base = base.Where(sq.Eq{dbCol: val})
		}
	}

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		base = base.Where(sq.Or{sq.ILike{"name": search}, sq.ILike{"email": search}, sq.ILike{"company_name": search}})
	}

	countQuery, countArgs, err := base.Columns("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета клиентов: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета клиентов: %w", err)
	}

	listBuilder := psql.Select(customerFields).From(customerTable).Where("deleted_at IS NULL")
	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedCustomerFilters[jsonField]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			listBuilder = listBuilder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			listBuilder = listBuilder.Where(sq.Eq{dbCol: val})
		}
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		listBuilder = listBuilder.Where(sq.Or{sq.ILike{"name": search}, sq.ILike{"email": search}, sq.ILike{"company_name": search}})
	}

	ordered := false
	for jsonField, dir := range filter.Sort {
		if !allowedCustomerSortFields[jsonField] {
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
		return nil, 0, fmt.Errorf("ошибка сборки запроса списка клиентов: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения списка клиентов: %w", err)
	}
	defer rows.Close()

	customers := make([]entities.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, total, nil
}

func (r *customerRepository) FindCustomer(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, customerFields, customerTable)
	return scanCustomer(r.getQuerier(tx).QueryRow(ctx, query, id))
}

func (r *customerRepository) CreateCustomer(ctx context.Context, tx pgx.Tx, c *entities.Customer) (uint64, error) {
	query := `
		INSERT INTO customers (name, email, phone, address, city, postal_code, country, company_name, "type", status, newsletter, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		c.Name, c.Email, c.Phone, c.Address, c.City, c.PostalCode, c.Country,
		c.CompanyName, c.Type, c.Status, c.Newsletter,
	).Scan(&newID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("клиент с такими уникальными параметрами уже существует: %w", apperrors.ErrConflict)
		}
		return 0, fmt.Errorf("ошибка создания клиента: %w", err)
	}
	return newID, nil
}

func (r *customerRepository) UpdateCustomer(ctx context.Context, tx pgx.Tx, id uint64, c *entities.Customer) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(customerTable).
		Set("name", c.Name).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("address", c.Address).
		Set("city", c.City).
		Set("postal_code", c.PostalCode).
		Set("country", c.Country).
		Set("company_name", c.CompanyName).
		Set("\"type\"", c.Type).
		Set("status", c.Status).
		Set("newsletter", c.Newsletter).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки запроса UpdateCustomer: %w", err)
	}

	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления клиента: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *customerRepository) SoftDeleteCustomer(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx,
		`UPDATE customers SET status = 'DELETED', deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления клиента: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *customerRepository) CountCustomers(ctx context.Context) (uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчета клиентов: %w", err)
	}
	return total, nil
}
