package actions

import (
	"context"

	"aras-dashboard/internal/entities"
	"aras-dashboard/pkg/types"
)

// Capabilities - побочные эффекты, которые диспетчер вызывает, но которыми
// не владеет. Реализация привязывается на месте вызова.
type Capabilities interface {
	Navigate(path string)
	OpenModal(id string, payload map[string]any)
	ShowToast(message string, severity types.Severity)
	RefetchDashboard(ctx context.Context)
}

// APIClient - HTTP-вызовы к API платформы. Ответ не-2xx возвращается ошибкой.
type APIClient interface {
	Do(ctx context.Context, method, endpoint string, body any) (any, error)
}

// LocalTaskStore - резервное хранилище задач на случай недоступности API.
type LocalTaskStore interface {
	Append(ctx context.Context, task entities.LocalTask) error
}

// Result - единый результат диспетчеризации. Degraded=true значит, что
// основной путь не сработал и цель достигнута запасным.
type Result struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

func ok(data any) Result {
	return Result{Success: true, Data: data}
}

func fail(message string) Result {
	return Result{Success: false, Message: message}
}
