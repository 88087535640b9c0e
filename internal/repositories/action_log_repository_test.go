package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aras-dashboard/internal/entities"
)

func TestBuildActionLogInsert(t *testing.T) {
	created := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	query, args, err := buildActionLogInsert(&entities.ActionLog{
		ID:         "0b6f3f5e-0000-4000-8000-000000000001",
		UserID:     "u-1",
		ActionType: "CREATE_TASK",
		Success:    true,
		Degraded:   true,
		Message:    null.StringFrom("saved locally"),
		DurationMs: 12,
		CreatedAt:  created,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO action_log (id,user_id,action_type,label,payload,success,degraded,message,duration_ms,created_at) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)",
		query)
	require.Len(t, args, 10)
	assert.Equal(t, json.RawMessage("{}"), args[4])
	assert.Equal(t, null.StringFrom("saved locally"), args[7])
}

func TestBuildActionLogCount_AppliesFilters(t *testing.T) {
	query, args, err := buildActionLogCount(entities.ActionLogFilter{
		UserID:     "u-1",
		ActionType: null.StringFrom("NAVIGATE"),
		Success:    null.BoolFrom(false),
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT COUNT(*) FROM action_log WHERE user_id = $1 AND action_type = $2 AND success = $3", query)
	assert.Equal(t, []interface{}{"u-1", "NAVIGATE", false}, args)
}

func TestBuildActionLogSelect_PaginatesNewestFirst(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := buildActionLogSelect(entities.ActionLogFilter{
		UserID:   "u-1",
		DateFrom: null.TimeFrom(from),
		Limit:    50,
		Offset:   100,
	})
	require.NoError(t, err)

	assert.Contains(t, query, "FROM action_log WHERE user_id = $1 AND created_at >= $2")
	assert.Contains(t, query, "ORDER BY created_at DESC, id LIMIT 50 OFFSET 100")
	assert.Equal(t, []interface{}{"u-1", from}, args)
}
