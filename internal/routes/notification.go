package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runNotificationRouter(api *echo.Group, notificationService services.NotificationServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewNotificationController(notificationService, logger)

	secure := api.Group("", authMW.Auth)
	secure.GET("/notifications", ctrl.GetMyNotifications)
	secure.PUT("/notifications/:id/read", ctrl.MarkRead)
}
