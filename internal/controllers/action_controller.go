package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"aras-dashboard/internal/dto"
	"aras-dashboard/internal/entities"
	"aras-dashboard/internal/services"
	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/utils"
)

type ActionController struct {
	actionService services.ActionServiceInterface
	logger        *zap.Logger
}

func NewActionController(actionService services.ActionServiceInterface, logger *zap.Logger) *ActionController {
	return &ActionController{actionService: actionService, logger: logger}
}

// Dispatch принимает CTA и возвращает результат вместе с эффектами,
// которые браузер должен воспроизвести.
func (c *ActionController) Dispatch(ctx echo.Context) error {
	var req dto.DispatchRequest
	if err := ctx.Bind(&req); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Invalid action body", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	resp, err := c.actionService.Dispatch(ctx.Request().Context(), req)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	message := resp.Result.Message
	if message == "" {
		message = "Action dispatched"
	}
	return utils.SuccessResponse(ctx, resp, message, http.StatusOK)
}

func (c *ActionController) History(ctx echo.Context) error {
	var query dto.ActionHistoryQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &query); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Invalid query parameters", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&query); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	c.logger.Debug("action history requested", zap.Any("query", query))

	list, total, err := c.actionService.History(ctx.Request().Context(), query)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if query.Format == "xlsx" {
		return c.respondWithXLSX(ctx, list)
	}
	return utils.SuccessResponse(ctx, dto.ActionHistoryPage{List: list, Total: total}, "Action history loaded", http.StatusOK)
}

var historyHeaders = []string{
	"Date", "Time", "Action", "Label", "Success", "Degraded", "Message", "Duration (ms)", "Payload",
}

func historyRow(item entities.ActionLog) []interface{} {
	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	created := item.CreatedAt.UTC()
	return []interface{}{
		created.Format("2006-01-02"), created.Format("15:04:05"), item.ActionType, item.Label,
		yesNo(item.Success), yesNo(item.Degraded), item.Message.String, item.DurationMs, string(item.Payload),
	}
}

// buildHistoryWorkbook собирает книгу с листом "Actions": заголовок и по строке на запись.
func buildHistoryWorkbook(data []entities.ActionLog) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Actions"
	fail := func(err error) (*excelize.File, error) {
		_ = f.Close()
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fail(err)
	}
	if err := f.SetSheetRow(sheet, "A1", &historyHeaders); err != nil {
		return fail(err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail(err)
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", style); err != nil {
		return fail(err)
	}

	for i, item := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fail(err)
		}
		row := historyRow(item)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fail(fmt.Errorf("row %d: %w", i+2, err))
		}
	}

	widths := []struct {
		from, to string
		width    float64
	}{{"C", "D", 25}, {"G", "G", 40}, {"I", "I", 60}}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return fail(err)
		}
	}
	return f, nil
}

func (c *ActionController) respondWithXLSX(ctx echo.Context, data []entities.ActionLog) error {
	f, err := buildHistoryWorkbook(data)
	if err != nil {
		c.logger.Error("failed to build action history workbook", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusInternalServerError, "Failed to export action history", err, nil),
			c.logger,
		)
	}
	defer f.Close()

	fileName := fmt.Sprintf("actions_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

// LocalTasks - задачи, сохранённые в обход API.
func (c *ActionController) LocalTasks(ctx echo.Context) error {
	tasks, err := c.actionService.LocalTasks(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tasks, "Local tasks loaded", http.StatusOK)
}
