package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runAppointmentRouter(api *echo.Group, appointmentService services.AppointmentServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewAppointmentController(appointmentService, logger)

	secure := api.Group("", authMW.Auth)
	secure.GET("/appointments/:id", ctrl.FindAppointment)
	secure.POST("/appointments", ctrl.CreateAppointment)
	secure.PUT("/appointments/:id/status", ctrl.UpdateStatus)
	secure.DELETE("/appointments/:id", ctrl.DeleteAppointment)
}
