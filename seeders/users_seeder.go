package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crm-system/pkg/constants"
	"crm-system/pkg/utils"
)

type seedUser struct {
	Fio      string
	Email    string
	Password string
	Role     string
}

var usersData = []seedUser{
	{Fio: "Администратор Системы", Email: "admin@crm.local", Password: "admin123", Role: constants.RoleAdmin},
	{Fio: "Менеджер Продаж", Email: "manager@crm.local", Password: "manager123", Role: constants.RoleManager},
	{Fio: "Оператор Заявок", Email: "operator@crm.local", Password: "operator123", Role: constants.RoleOperator},
}

// SeedUsers создает стартовых пользователей. Существующие (по email)
// пропускаются, пароли хешируются bcrypt-ом.
func SeedUsers(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'users'...")

	for _, u := range usersData {
		var existingID uint64
		err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", u.Email).Scan(&existingID)
		if err == nil {
			log.Printf("    - Пользователь %s уже существует. Пропускаем.", u.Email)
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("ошибка проверки существования пользователя %s: %w", u.Email, err)
		}

		hashed, err := utils.HashPassword(u.Password)
		if err != nil {
			return fmt.Errorf("ошибка хеширования пароля для %s: %w", u.Email, err)
		}

		_, err = db.Exec(ctx,
			`INSERT INTO users (fio, email, password, role, status) VALUES ($1, $2, $3, $4, $5)`,
			u.Fio, u.Email, hashed, u.Role, constants.UserStatusActiveCode,
		)
		if err != nil {
			return fmt.Errorf("ошибка создания пользователя %s: %w", u.Email, err)
		}
		log.Printf("    - Пользователь %s (%s) создан.", u.Fio, u.Role)
	}

	return nil
}
