package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/listeners"
	"crm-system/internal/repositories"
	"crm-system/internal/services"
	"crm-system/pkg/config"
	"crm-system/pkg/eventbus"
	"crm-system/pkg/middleware"
	"crm-system/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, bus *eventbus.Bus, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	requestRepo := repositories.NewRequestRepository(dbConn, logger)
	customerRepo := repositories.NewCustomerRepository(dbConn, logger)
	appointmentRepo := repositories.NewAppointmentRepository(dbConn, logger)
	noteRepo := repositories.NewRequestNoteRepository(dbConn)
	customerLogRepo := repositories.NewCustomerLogRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn, logger)
	notificationRepo := repositories.NewNotificationRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	reportRepo := repositories.NewReportRepository(dbConn)

	// --- 2. СЛУШАТЕЛИ СОБЫТИЙ ---
	notificationListener := listeners.NewNotificationListener(notificationRepo, userRepo, logger)
	notificationListener.Register(bus)

	// --- 3. СЕРВИСЫ ---
	requestService := services.NewRequestService(
		txManager, requestRepo, customerRepo, appointmentRepo,
		noteRepo, customerLogRepo, userRepo, bus, cfg.Conversion, logger,
	)
	customerService := services.NewCustomerService(txManager, customerRepo, customerLogRepo, appointmentRepo, cfg.Conversion, logger)
	appointmentService := services.NewAppointmentService(txManager, appointmentRepo, customerRepo, customerLogRepo, cfg.Conversion, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	dashboardService := services.NewDashboardService(requestRepo, customerRepo, appointmentRepo, cacheRepo, cfg.Dashboard, logger)
	reportService := services.NewReportService(reportRepo, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)

	// --- 4. МАРШРУТЫ ---
	runAuthRouter(api, authService, authMW, logger)
	runRequestRouter(api, requestService, authMW, logger)
	runCustomerRouter(api, customerService, authMW, logger)
	runAppointmentRouter(api, appointmentService, authMW, logger)
	runDashboardRouter(api, dashboardService, authMW, logger)
	runReportRouter(api, reportService, authMW, logger)
	runNotificationRouter(api, notificationService, authMW, logger)

	logger.Info("InitRouter: Маршруты успешно созданы")
}
