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
	userTable  = "users"
	userFields = "id, fio, email, password, role, status, created_at, updated_at, deleted_at"
)

type UserRepositoryInterface interface {
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	FindActiveUsersByRoles(ctx context.Context, roles []string) ([]entities.User, error)
	CreateUser(ctx context.Context, u *entities.User) (uint64, error)
}

type userRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &userRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID, &u.Fio, &u.Email, &u.Password, &u.Role, &u.Status,
		&u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования users: %w", err)
	}
	return &u, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND deleted_at IS NULL`, userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1 AND deleted_at IS NULL`, userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

// FindActiveUsersByRoles - получатели уведомлений: активные пользователи
// с одной из перечисленных ролей.
func (r *userRepository) FindActiveUsersByRoles(ctx context.Context, roles []string) ([]entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE role = ANY($1) AND status = $2 AND deleted_at IS NULL`, userFields, userTable)

	rows, err := r.storage.Query(ctx, query, roles, "ACTIVE")
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователей по ролям: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *userRepository) CreateUser(ctx context.Context, u *entities.User) (uint64, error) {
	query := `
		INSERT INTO users (fio, email, password, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id`

	var newID uint64
	err := r.storage.QueryRow(ctx, query, u.Fio, u.Email, u.Password, u.Role, u.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return newID, nil
}
