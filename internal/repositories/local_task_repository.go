package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"aras-dashboard/internal/entities"
	"aras-dashboard/pkg/utils"
)

// LocalTasksKey - ключ хранилища задач, сохранённых в обход API.
const LocalTasksKey = "aras_local_tasks"

type LocalTaskRepositoryInterface interface {
	Append(ctx context.Context, task entities.LocalTask) error
	List(ctx context.Context) ([]entities.LocalTask, error)
}

// LocalTaskRepository хранит задачи списком JSON-записей под ключом
// aras_local_tasks:<userID>. Записи только добавляются.
type LocalTaskRepository struct {
	cache  CacheRepositoryInterface
	logger *zap.Logger
}

func NewLocalTaskRepository(cache CacheRepositoryInterface, logger *zap.Logger) LocalTaskRepositoryInterface {
	return &LocalTaskRepository{cache: cache, logger: logger}
}

func LocalTasksKeyFor(userID string) string {
	return LocalTasksKey + ":" + userID
}

func (r *LocalTaskRepository) Append(ctx context.Context, task entities.LocalTask) error {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("сериализация локальной задачи: %w", err)
	}
	if err := r.cache.RPush(ctx, LocalTasksKeyFor(userID), string(raw)); err != nil {
		return fmt.Errorf("запись локальной задачи: %w", err)
	}

	r.logger.Info("task saved to local store", zap.String("user_id", userID), zap.String("task_id", task.ID))
	return nil
}

// List отдаёт задачи в порядке добавления; битые записи пропускаются.
func (r *LocalTaskRepository) List(ctx context.Context) ([]entities.LocalTask, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	items, err := r.cache.LRange(ctx, LocalTasksKeyFor(userID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("чтение локальных задач: %w", err)
	}

	tasks := make([]entities.LocalTask, 0, len(items))
	for _, item := range items {
		var task entities.LocalTask
		if err := json.Unmarshal([]byte(item), &task); err != nil {
			r.logger.Warn("skipping corrupt local task", zap.String("user_id", userID), zap.Error(err))
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
