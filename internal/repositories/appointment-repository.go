package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	apperrors "crm-system/pkg/errors"
)

const (
	appointmentTable  = "appointments"
	appointmentFields = "id, customer_id, title, appointment_date, duration_minutes, location, description, status, created_at, updated_at"
)

type AppointmentRepositoryInterface interface {
	FindAppointment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Appointment, error)
	GetAppointmentsByCustomer(ctx context.Context, customerID uint64) ([]entities.Appointment, error)
	CreateAppointment(ctx context.Context, tx pgx.Tx, a *entities.Appointment) (uint64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	DeleteAppointment(ctx context.Context, tx pgx.Tx, id uint64) error
	CountAppointments(ctx context.Context) (uint64, error)
}

type appointmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewAppointmentRepository(storage *pgxpool.Pool, logger *zap.Logger) AppointmentRepositoryInterface {
	return &appointmentRepository{storage: storage, logger: logger}
}

func (r *appointmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanAppointment(row pgx.Row) (*entities.Appointment, error) {
	var a entities.Appointment
	err := row.Scan(
		&a.ID, &a.CustomerID, &a.Title, &a.AppointmentDate, &a.DurationMinutes,
		&a.Location, &a.Description, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования appointments: %w", err)
	}
	return &a, nil
}

func (r *appointmentRepository) FindAppointment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, appointmentFields, appointmentTable)
	return scanAppointment(r.getQuerier(tx).QueryRow(ctx, query, id))
}

func (r *appointmentRepository) GetAppointmentsByCustomer(ctx context.Context, customerID uint64) ([]entities.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE customer_id = $1 ORDER BY appointment_date DESC`, appointmentFields, appointmentTable)

	rows, err := r.storage.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения встреч клиента: %w", err)
	}
	defer rows.Close()

	appointments := make([]entities.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, nil
}

func (r *appointmentRepository) CreateAppointment(ctx context.Context, tx pgx.Tx, a *entities.Appointment) (uint64, error) {
	query := `
		INSERT INTO appointments (customer_id, title, appointment_date, duration_minutes, location, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		a.CustomerID, a.Title, a.AppointmentDate, a.DurationMinutes,
		a.Location, a.Description, a.Status,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания встречи: %w", err)
	}
	return newID, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	result, err := r.getQuerier(tx).Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса встречи: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) DeleteAppointment(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := r.getQuerier(tx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления встречи: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *appointmentRepository) CountAppointments(ctx context.Context) (uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return 0, fmt.Errorf("ошибка подсчета встреч: %w", err)
	}
	return total, nil
}
