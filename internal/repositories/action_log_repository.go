package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"aras-dashboard/internal/entities"
)

const actionLogTable = "action_log"

var actionLogColumns = []string{
	"id::text", "user_id", "action_type", "label", "payload", "success", "degraded", "message", "duration_ms", "created_at",
}

type ActionLogRepositoryInterface interface {
	Create(ctx context.Context, entry *entities.ActionLog) error
	List(ctx context.Context, filter entities.ActionLogFilter) ([]entities.ActionLog, uint64, error)
}

type ActionLogRepository struct {
	storage querier
}

func NewActionLogRepository(storage *pgxpool.Pool) ActionLogRepositoryInterface {
	return &ActionLogRepository{storage: storage}
}

func (r *ActionLogRepository) Create(ctx context.Context, entry *entities.ActionLog) error {
	query, args, err := buildActionLogInsert(entry)
	if err != nil {
		return fmt.Errorf("ошибка сборки INSERT action_log: %w", err)
	}
	if _, err := r.storage.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка записи action_log: %w", err)
	}
	return nil
}

func (r *ActionLogRepository) List(ctx context.Context, filter entities.ActionLogFilter) ([]entities.ActionLog, uint64, error) {
	countQuery, countArgs, err := buildActionLogCount(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения COUNT-запроса: %w", err)
	}
	if total == 0 {
		return []entities.ActionLog{}, 0, nil
	}

	query, args, err := buildActionLogSelect(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SELECT action_log: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения action_log: %w", err)
	}
	defer rows.Close()

	items := make([]entities.ActionLog, 0, filter.Limit)
	for rows.Next() {
		var e entities.ActionLog
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ActionType, &e.Label, &e.Payload,
			&e.Success, &e.Degraded, &e.Message, &e.DurationMs, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования action_log: %w", err)
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func buildActionLogInsert(e *entities.ActionLog) (string, []interface{}, error) {
	payload := e.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	return psql().Insert(actionLogTable).
		Columns("id", "user_id", "action_type", "label", "payload", "success", "degraded", "message", "duration_ms", "created_at").
		Values(e.ID, e.UserID, e.ActionType, e.Label, payload, e.Success, e.Degraded, e.Message, e.DurationMs, e.CreatedAt).
		ToSql()
}

func actionLogWhere(b sq.SelectBuilder, f entities.ActionLogFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"user_id": f.UserID})
	if f.ActionType.Valid {
		b = b.Where(sq.Eq{"action_type": f.ActionType.String})
	}
	if f.Success.Valid {
		b = b.Where(sq.Eq{"success": f.Success.Bool})
	}
	if f.DateFrom.Valid {
		b = b.Where(sq.GtOrEq{"created_at": f.DateFrom.Time})
	}
	if f.DateTo.Valid {
		b = b.Where(sq.LtOrEq{"created_at": f.DateTo.Time})
	}
	return b
}

func buildActionLogCount(f entities.ActionLogFilter) (string, []interface{}, error) {
	return actionLogWhere(psql().Select("COUNT(*)").From(actionLogTable), f).ToSql()
}

func buildActionLogSelect(f entities.ActionLogFilter) (string, []interface{}, error) {
	b := actionLogWhere(psql().Select(actionLogColumns...).From(actionLogTable), f).
		OrderBy("created_at DESC", "id")
	if f.Limit > 0 {
		b = b.Limit(f.Limit)
	}
	if f.Offset > 0 {
		b = b.Offset(f.Offset)
	}
	return b.ToSql()
}
