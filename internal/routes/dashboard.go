package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runDashboardRouter(api *echo.Group, dashboardService services.DashboardServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewDashboardController(dashboardService, logger)

	secure := api.Group("", authMW.Auth)
	secure.GET("/dashboard/summary", ctrl.GetSummary)
}
