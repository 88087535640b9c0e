package entities

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
)

type ActionLog struct {
	ID         string          `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"userId"`
	ActionType string          `db:"action_type" json:"actionType"`
	Label      string          `db:"label" json:"label"`
	Payload    json.RawMessage `db:"payload" json:"payload"`
	Success    bool            `db:"success" json:"success"`
	Degraded   bool            `db:"degraded" json:"degraded"`
	Message    null.String     `db:"message" json:"message"`
	DurationMs int64           `db:"duration_ms" json:"durationMs"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// ActionLogFilter - фильтр истории действий пользователя.
type ActionLogFilter struct {
	UserID     string      `validate:"required"`
	ActionType null.String `validate:"omitempty,action_type"`
	Success    null.Bool   `validate:"omitempty"`
	DateFrom   null.Time   `validate:"omitempty"`
	DateTo     null.Time   `validate:"omitempty"`
	Limit      uint64      `validate:"min=1,max=10000"`
	Offset     uint64
}
