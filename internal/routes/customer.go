package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runCustomerRouter(api *echo.Group, customerService services.CustomerServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewCustomerController(customerService, logger)

	secure := api.Group("", authMW.Auth)
	secure.GET("/customers", ctrl.GetCustomers)
	secure.GET("/customers/:id", ctrl.FindCustomer)
	secure.POST("/customers", ctrl.CreateCustomer)
	secure.PUT("/customers/:id", ctrl.UpdateCustomer)
	secure.DELETE("/customers/:id", ctrl.DeleteCustomer)
	secure.GET("/customers/:id/logs", ctrl.GetLogs)
	secure.GET("/customers/:id/appointments", ctrl.GetAppointments)
}
