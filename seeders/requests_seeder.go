package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"crm-system/pkg/constants"
)

type seedRequest struct {
	Name    string
	Email   string
	Phone   string
	Service string
	Message string
}

var requestsData = []seedRequest{
	{Name: "Фаррух Саидов", Email: "farrukh@example.com", Phone: "+992900000001", Service: "Консультация", Message: "Хочу узнать подробнее об услугах."},
	{Name: "Мадина Рахимова", Email: "madina@example.com", Phone: "+992900000002", Service: "Внедрение CRM", Message: "Нужна демонстрация системы."},
	{Name: "ООО «Сомон»", Email: "info@somon.example", Phone: "+992446000000", Service: "Поддержка", Message: "Интересует тариф для компании из 20 человек."},
}

// SeedRequests создает демонстрационные заявки для пустой базы.
func SeedRequests(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение таблицы 'contact_requests'...")

	var count uint64
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM contact_requests").Scan(&count); err != nil {
		return fmt.Errorf("ошибка подсчета заявок: %w", err)
	}
	if count > 0 {
		log.Println("    - Заявки уже существуют. Пропускаем.")
		return nil
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range requestsData {
		_, err := tx.Exec(ctx,
			`INSERT INTO contact_requests (name, email, phone, service, message, status) VALUES ($1, $2, $3, $4, $5, $6)`,
			r.Name, r.Email, r.Phone, r.Service, r.Message, constants.RequestStatusNew,
		)
		if err != nil {
			return fmt.Errorf("ошибка вставки заявки '%s': %w", r.Name, err)
		}
	}

	return tx.Commit(ctx)
}
