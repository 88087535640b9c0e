package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")
	ErrTokenNotYetValid     = fmt.Errorf("token not yet valid")
	ErrTokenIsNotAccess     = fmt.Errorf("refresh token used as access token")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader = fmt.Errorf("invalid authorization header format")
	ErrUnauthorized      = fmt.Errorf("unauthorized")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("user id not found in request context")

	// Бэкенд платформы
	ErrUpstreamUnavailable = fmt.Errorf("platform API unavailable")
	ErrEndpointNotAllowed  = fmt.Errorf("endpoint is not a same-origin API path")

	// Общие
	ErrNotFound       = fmt.Errorf("record not found")
	ErrBadRequest     = fmt.Errorf("bad request")
	ErrConflict       = fmt.Errorf("conflict")
	ErrActionInFlight = fmt.Errorf("action already in progress")
)

// HttpError - ошибка транспортного уровня с HTTP-кодом и сообщением для клиента.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewInternalError(message string) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message}
}

// UpstreamError - бэкенд платформы ответил не-2xx.
type UpstreamError struct {
	Method   string
	Endpoint string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.Endpoint, e.Status)
}

// IsUpstreamStatus сообщает, является ли err ответом бэкенда с не-2xx статусом.
func IsUpstreamStatus(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}

// ToHttpError приводит известные доменные ошибки к HttpError.
func ToHttpError(err error) *HttpError {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	switch {
	case errors.Is(err, ErrEmptyAuthHeader), errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenNotYetValid), errors.Is(err, ErrTokenIsNotAccess),
		errors.Is(err, ErrInvalidSigningMethod), errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrUserIDNotFoundInContext):
		return NewHttpError(http.StatusUnauthorized, err.Error(), nil, nil)
	case errors.Is(err, ErrNotFound):
		return NewHttpError(http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrEndpointNotAllowed):
		return NewHttpError(http.StatusBadRequest, err.Error(), nil, nil)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrActionInFlight):
		return NewHttpError(http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrUpstreamUnavailable):
		return NewHttpError(http.StatusBadGateway, err.Error(), err, nil)
	}
	return NewHttpError(http.StatusInternalServerError, "internal server error", err, nil)
}
