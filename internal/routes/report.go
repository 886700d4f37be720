package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runReportRouter(api *echo.Group, reportService services.ReportServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewReportController(reportService, logger)

	secure := api.Group("", authMW.Auth)
	secure.GET("/reports/requests", ctrl.GetReport)
}
