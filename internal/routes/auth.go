package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/controllers"
	"crm-system/internal/services"
	"crm-system/pkg/middleware"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewAuthController(authService, logger)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", ctrl.Login)
	authGroup.POST("/refresh_token", ctrl.RefreshToken)
	authGroup.GET("/me", ctrl.Me, authMW.Auth)
}
