package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aras-dashboard/internal/entities"
	"aras-dashboard/pkg/contextkeys"
	apperrors "aras-dashboard/pkg/errors"
)

func userCtx(id string) context.Context {
	return context.WithValue(context.Background(), contextkeys.UserIDKey, id)
}

func TestLocalTaskRepository_AppendsUnderUserKey(t *testing.T) {
	cache := NewMemoryCacheRepository()
	repo := NewLocalTaskRepository(cache, zap.NewNop())

	require.NoError(t, repo.Append(userCtx("u-1"), entities.LocalTask{ID: "t1", Title: "X", Priority: "medium"}))
	require.NoError(t, repo.Append(userCtx("u-1"), entities.LocalTask{ID: "t2", Title: "Y", Priority: "high"}))
	require.NoError(t, repo.Append(userCtx("u-2"), entities.LocalTask{ID: "t3", Title: "Z"}))

	tasks, err := repo.List(userCtx("u-1"))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "X", tasks[0].Title)
	assert.Equal(t, "Y", tasks[1].Title)

	raw, err := cache.LRange(context.Background(), "aras_local_tasks:u-1", 0, -1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"t1","title":"X","description":"","dueDate":"","priority":"medium","createdAt":""}`, raw[0])
}

func TestLocalTaskRepository_SkipsCorruptRecords(t *testing.T) {
	cache := NewMemoryCacheRepository()
	repo := NewLocalTaskRepository(cache, zap.NewNop())
	require.NoError(t, cache.RPush(context.Background(), LocalTasksKeyFor("u-1"), "{broken", `{"id":"ok","title":"fine"}`))

	tasks, err := repo.List(userCtx("u-1"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "ok", tasks[0].ID)
}

func TestLocalTaskRepository_RequiresUser(t *testing.T) {
	repo := NewLocalTaskRepository(NewMemoryCacheRepository(), zap.NewNop())

	err := repo.Append(context.Background(), entities.LocalTask{Title: "X"})
	assert.ErrorIs(t, err, apperrors.ErrUserIDNotFoundInContext)
}
