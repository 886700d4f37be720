package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"crm-system/internal/entities"
	"crm-system/internal/services"
	"crm-system/pkg/utils"
)

var reportHeaders = []interface{}{
	"ID", "Имя", "Email", "Телефон", "Услуга", "Статус",
	"Ответственный", "ID клиента", "Клиент", "Дата встречи",
	"Создана", "Обновлена",
}

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос на отчет с фильтрами", zap.Any("filters", filter), zap.String("format", format))

	data, total, err := c.reportService.GetReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, data)
	}

	return utils.SuccessResponse(ctx, data, "Отчет успешно сформирован", http.StatusOK, total)
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.ReportFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.ReportFilter{
		Page:    stdFilter.Page,
		PerPage: stdFilter.Limit,
	}

	if v := ctx.QueryParam("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.DateFrom = &t
		}
	}
	if v := ctx.QueryParam("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			// Верхняя граница включает весь день.
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.DateTo = &end
		}
	}
	if v := ctx.QueryParam("statuses"); v != "" {
		filter.Statuses = strings.Split(v, ",")
	}
	if v := ctx.QueryParam("processor_ids"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil {
				filter.ProcessorIDs = append(filter.ProcessorIDs, id)
			}
		}
	}

	return filter, ctx.QueryParam("format")
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []entities.ReportItem) error {
	f := excelize.NewFile()
	sheet := "Отчет по заявкам"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "L1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := reportRowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 25)
	f.SetColWidth(sheet, "C", "D", 20)
	f.SetColWidth(sheet, "G", "I", 25)
	f.SetColWidth(sheet, "J", "L", 20)

	fileName := fmt.Sprintf("report_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func reportRowToSlice(item entities.ReportItem) []interface{} {
	row := []interface{}{
		item.RequestID,
		item.RequestName,
		item.Email.String,
		item.Phone.String,
		item.Service.String,
		item.Status,
		item.ProcessorFio.String,
		"", // ID клиента
		item.CustomerName.String,
		"", // Дата встречи
		item.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		"", // Обновлена
	}
	if item.CustomerID.Valid {
		row[7] = item.CustomerID.Uint64
	}
	if item.AppointmentAt.Valid {
		row[9] = item.AppointmentAt.Time.Local().Format("2006-01-02 15:04:05")
	}
	if item.UpdatedAt.Valid {
		row[11] = item.UpdatedAt.Time.Local().Format("2006-01-02 15:04:05")
	}
	return row
}
