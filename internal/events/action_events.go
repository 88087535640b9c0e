package events

import (
	"time"

	"aras-dashboard/internal/actions"
	"aras-dashboard/pkg/types"
)

const ActionDispatchedEventName = "action.dispatched"

// ActionDispatchedEvent публикуется после каждого вызова диспетчера.
type ActionDispatchedEvent struct {
	ID         string
	UserID     string
	Cta        types.Cta
	Result     actions.Result
	Duration   time.Duration
	OccurredAt time.Time
}

// Name - реализуем интерфейс eventbus.Event
func (e ActionDispatchedEvent) Name() string {
	return ActionDispatchedEventName
}
