package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"crm-system/internal/dto"
	"crm-system/internal/services"
	apperrors "crm-system/pkg/errors"
	"crm-system/pkg/utils"
)

type AppointmentController struct {
	appointmentService services.AppointmentServiceInterface
	logger             *zap.Logger
}

func NewAppointmentController(appointmentService services.AppointmentServiceInterface, logger *zap.Logger) *AppointmentController {
	return &AppointmentController{appointmentService: appointmentService, logger: logger}
}

func (c *AppointmentController) FindAppointment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.appointmentService.FindAppointment(reqCtx, id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Встреча успешно найдена", http.StatusOK)
}

func (c *AppointmentController) CreateAppointment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	var payload dto.CreateAppointmentDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateAppointment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.appointmentService.CreateAppointment(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Встреча успешно создана", http.StatusCreated)
}

func (c *AppointmentController) UpdateStatus(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateAppointmentStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.appointmentService.UpdateStatus(reqCtx, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Статус встречи успешно обновлен", http.StatusOK)
}

func (c *AppointmentController) DeleteAppointment(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.appointmentService.DeleteAppointment(reqCtx, id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Встреча успешно удалена", http.StatusOK)
}
