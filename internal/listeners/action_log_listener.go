package listeners

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"aras-dashboard/internal/entities"
	"aras-dashboard/internal/events"
	"aras-dashboard/internal/repositories"
	"aras-dashboard/pkg/eventbus"
)

// ActionLogListener пишет каждое исполненное действие в action_log.
type ActionLogListener struct {
	repo   repositories.ActionLogRepositoryInterface
	logger *zap.Logger
}

func NewActionLogListener(repo repositories.ActionLogRepositoryInterface, logger *zap.Logger) *ActionLogListener {
	return &ActionLogListener{repo: repo, logger: logger.Named("action_log_listener")}
}

func (l *ActionLogListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ActionDispatchedEventName, l.handle)
	l.logger.Info("ActionLogListener подписан на события", zap.String("event", events.ActionDispatchedEventName))
}

func (l *ActionLogListener) handle(ctx context.Context, e eventbus.Event) error {
	event, ok := e.(events.ActionDispatchedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	return l.repo.Create(ctx, toActionLog(event))
}

func toActionLog(e events.ActionDispatchedEvent) *entities.ActionLog {
	payload, err := json.Marshal(e.Cta.Payload)
	if err != nil || string(payload) == "null" {
		payload = []byte("{}")
	}

	entry := &entities.ActionLog{
		ID:         e.ID,
		UserID:     e.UserID,
		ActionType: string(e.Cta.ActionType),
		Label:      e.Cta.Label,
		Payload:    payload,
		Success:    e.Result.Success,
		Degraded:   e.Result.Degraded,
		DurationMs: e.Duration.Milliseconds(),
		CreatedAt:  e.OccurredAt,
	}
	if e.Result.Message != "" {
		entry.Message = null.StringFrom(e.Result.Message)
	}
	return entry
}
