package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "aras-dashboard/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Message: message, Body: body})
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{
			Status:  false,
			Message: "validation failed: " + strings.Join(msgs, "; "),
		})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, &HTTPResponse{Status: false, Message: fmt.Sprint(echoErr.Message)})
	}

	httpErr := apperrors.ToHttpError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("HTTP Error",
			zap.Int("code", httpErr.Code),
			zap.String("message", httpErr.Message),
			zap.Error(err),
		)
	}

	return c.JSON(httpErr.Code, &HTTPResponse{
		Status:  false,
		Message: httpErr.Message,
		Body:    httpErr.Details,
	})
}
