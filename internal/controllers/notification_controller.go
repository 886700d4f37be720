package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/services"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/utils"
)

type NotificationController struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationController(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, logger: logger}
}

func (c *NotificationController) GetMyNotifications(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	userID, ok := utils.UserIDFromContext(reqCtx)
	if !ok {
		return utils.ErrorResponse(ctx, apperrors.ErrUserIDNotFoundInContext, c.logger)
	}

	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	list, err := c.notificationService.GetMyNotifications(reqCtx, userID, limit)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, list, "Уведомления успешно получены", http.StatusOK)
}

func (c *NotificationController) MarkRead(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	userID, ok := utils.UserIDFromContext(reqCtx)
	if !ok {
		return utils.ErrorResponse(ctx, apperrors.ErrUserIDNotFoundInContext, c.logger)
	}

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.notificationService.MarkRead(reqCtx, id, userID); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Уведомление отмечено прочитанным", http.StatusOK)
}
