package dto

import (
	"strconv"
	"time"

	"github.com/aarondl/null/v8"

	"aras-dashboard/internal/actions"
	"aras-dashboard/internal/entities"
	"aras-dashboard/pkg/types"
)

// DispatchRequest - тело POST /actions/dispatch, это сам CTA. actionType
// не сверяется со словарём здесь: неизвестный тип должен дойти до
// диспетчера и вернуть мягкий отказ.
type DispatchRequest struct {
	Label      string           `json:"label" validate:"max=200"`
	ActionType types.ActionType `json:"actionType" validate:"required,max=64"`
	Payload    map[string]any   `json:"payload"`
}

func (r DispatchRequest) ToCta() types.Cta {
	payload := r.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return types.Cta{Label: r.Label, ActionType: r.ActionType, Payload: payload}
}

// DispatchResponse - результат и упорядоченные эффекты для браузера.
type DispatchResponse struct {
	Result  actions.Result   `json:"result"`
	Effects []actions.Effect `json:"effects"`
}

type ActionHistoryQuery struct {
	ActionType string `query:"actionType" validate:"omitempty,action_type"`
	Success    string `query:"success" validate:"omitempty,oneof=true false"`
	DateFrom   string `query:"dateFrom" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	DateTo     string `query:"dateTo" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit      uint64 `query:"limit" validate:"omitempty,max=500"`
	Offset     uint64 `query:"offset"`
	Format     string `query:"format" validate:"omitempty,oneof=json xlsx"`
}

const (
	DefaultHistoryLimit = 50
	ExportHistoryLimit  = 10000
)

// ToFilter вызывается после валидации, поэтому ошибки разбора не ожидаются.
func (q ActionHistoryQuery) ToFilter(userID string) entities.ActionLogFilter {
	f := entities.ActionLogFilter{
		UserID: userID,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	if f.Limit == 0 {
		f.Limit = DefaultHistoryLimit
	}
	if q.Format == "xlsx" {
		f.Limit, f.Offset = ExportHistoryLimit, 0
	}
	if q.ActionType != "" {
		f.ActionType = null.StringFrom(q.ActionType)
	}
	if b, err := strconv.ParseBool(q.Success); err == nil {
		f.Success = null.BoolFrom(b)
	}
	if t, err := time.Parse(time.RFC3339, q.DateFrom); err == nil {
		f.DateFrom = null.TimeFrom(t)
	}
	if t, err := time.Parse(time.RFC3339, q.DateTo); err == nil {
		f.DateTo = null.TimeFrom(t)
	}
	return f
}

// ActionHistoryPage - страница истории для JSON-ответа.
type ActionHistoryPage struct {
	List  []entities.ActionLog `json:"list"`
	Total uint64               `json:"total"`
}
