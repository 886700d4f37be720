package main

import (
	"context"
	"flag"
	"log"

	"crm-system/pkg/config"
	"crm-system/pkg/database/postgresql"
	"crm-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runUsers := flag.Bool("users", false, "Создать стартовых пользователей")
	runDemo := flag.Bool("demo", false, "Создать демонстрационные заявки")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -users -demo)")

	flag.Parse()

	if !*runUsers && !*runDemo && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed/main.go -users")
		log.Println("  go run ./seeders/cmd/seed/main.go -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	ctx := context.Background()

	if *runUsers || *runAll {
		if err := seeders.SeedUsers(ctx, dbPool); err != nil {
			log.Fatalf("Ошибка сидера пользователей: %v", err)
		}
	}
	if *runDemo || *runAll {
		if err := seeders.SeedRequests(ctx, dbPool); err != nil {
			log.Fatalf("Ошибка сидера заявок: %v", err)
		}
	}

	log.Println("✅ Сидеры успешно выполнены.")
	log.Println("======================================================")
}
