package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/validation"
)

const (
	OverviewEndpoint = "/api/dashboard/overview"
	maxBodyBytes     = 4 << 20
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Client - клиент API платформы ARAS. Токен вызывающего пользователя
// берётся из контекста запроса и пробрасывается как есть.
type Client struct {
	httpClient *http.Client
	baseURL    string
	validate   *validator.Validate
	logger     *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		validate:   validation.Shared().Engine(),
		logger:     logger.Named("backend_client"),
	}
}

// FetchOverview отдаёт сырое тело /api/dashboard/overview для парсера.
// Сетевая ошибка оборачивает ErrUpstreamUnavailable, ответ не-2xx
// возвращается как *UpstreamError.
func (c *Client) FetchOverview(ctx context.Context) (json.RawMessage, error) {
	raw, err := c.send(ctx, http.MethodGet, OverviewEndpoint, nil)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Do выполняет JSON-запрос к same-origin эндпоинту /api/... и возвращает
// разобранное тело (nil для пустого ответа).
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (any, error) {
	method = strings.ToUpper(method)
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: method %q is not supported", apperrors.ErrBadRequest, method)
	}
	if err := c.validate.Var(endpoint, validation.RuleAPIEndpoint); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEndpointNotAllowed, endpoint)
	}

	raw, err := c.send(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	return decodeBody(raw), nil
}

// decodeBody: JSON разбирается, не-JSON отдаётся строкой.
func decodeBody(raw []byte) any {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return string(raw)
	}
	return out
}
