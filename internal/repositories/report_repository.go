package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm-system/internal/entities"
)

type ReportRepositoryInterface interface {
	GetRequestsReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error)
}

type reportRepository struct {
	storage *pgxpool.Pool
}

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{storage: storage}
}

func (r *reportRepository) GetRequestsReport(ctx context.Context, filter entities.ReportFilter) ([]entities.ReportItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyWhere := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.DateFrom != nil {
			b = b.Where(sq.GtOrEq{"req.created_at": *filter.DateFrom})
		}
		if filter.DateTo != nil {
			b = b.Where(sq.LtOrEq{"req.created_at": *filter.DateTo})
		}
		if len(filter.Statuses) > 0 {
			b = b.Where(sq.Eq{"req.status": filter.Statuses})
		}
		if len(filter.ProcessorIDs) > 0 {
			b = b.Where(sq.Eq{"req.processor_id": filter.ProcessorIDs})
		}
		return b
	}

	countBuilder := applyWhere(psql.Select("COUNT(*)").From("contact_requests req"))
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса подсчета отчета: %w", err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета строк отчета: %w", err)
	}

	listBuilder := applyWhere(psql.Select(
		"req.id", "req.name", "req.email", "req.phone", "req.service", "req.status",
		"u.fio AS processor_fio",
		"c.id AS customer_id", "c.name AS customer_name",
		"a.appointment_date",
		"req.created_at", "req.updated_at",
	).
		From("contact_requests req").
		LeftJoin("users u ON req.processor_id = u.id").
		LeftJoin("customers c ON req.customer_id = c.id").
		LeftJoin("appointments a ON req.appointment_id = a.id").
		OrderBy("req.created_at DESC"))

	if filter.PerPage > 0 {
		listBuilder = listBuilder.Limit(uint64(filter.PerPage))
		if filter.Page > 1 {
			listBuilder = listBuilder.Offset(uint64((filter.Page - 1) * filter.PerPage))
		}
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки запроса отчета: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения отчета: %w", err)
	}
	defer rows.Close()

	items := make([]entities.ReportItem, 0)
	for rows.Next() {
		var item entities.ReportItem
		err := rows.Scan(
			&item.RequestID, &item.RequestName, &item.Email, &item.Phone, &item.Service, &item.Status,
			&item.ProcessorFio,
			&item.CustomerID, &item.CustomerName,
			&item.AppointmentAt,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки отчета: %w", err)
		}
		items = append(items, item)
	}
	return items, total, nil
}
