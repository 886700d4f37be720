package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runRequestRouter(api *echo.Group, requestService services.RequestServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewRequestController(requestService, logger)

	// Прием заявки с сайта открыт без авторизации.
	api.POST("/requests", ctrl.CreateRequest)

	secure := api.Group("", authMW.Auth)
	secure.GET("/requests", ctrl.GetRequests)
	secure.GET("/requests/:id", ctrl.FindRequest)
	secure.DELETE("/requests/:id", ctrl.DeleteRequest)
	secure.POST("/requests/:id/convert", ctrl.ConvertToCustomer)
	secure.PUT("/requests/:id/status", ctrl.UpdateStatus)
	secure.PUT("/requests/:id/assign", ctrl.AssignRequest)
	secure.GET("/requests/:id/notes", ctrl.GetNotes)
	secure.POST("/requests/:id/notes", ctrl.AddNote)
}
