package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aras-dashboard/internal/actions"
	"aras-dashboard/internal/dto"
	"aras-dashboard/internal/entities"
	"aras-dashboard/internal/events"
	"aras-dashboard/internal/metrics"
	"aras-dashboard/internal/repositories"
	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/eventbus"
	"aras-dashboard/pkg/types"
	"aras-dashboard/pkg/utils"
	"aras-dashboard/pkg/validation"
)

const (
	inflightPrefix    = "aras_inflight:"
	MsgActionInFlight = "Action already in progress"
)

type ActionServiceInterface interface {
	Dispatch(ctx context.Context, req dto.DispatchRequest) (*dto.DispatchResponse, error)
	History(ctx context.Context, query dto.ActionHistoryQuery) ([]entities.ActionLog, uint64, error)
	LocalTasks(ctx context.Context) ([]entities.LocalTask, error)
}

type ActionService struct {
	dispatcher    *actions.Dispatcher
	dashboard     DashboardServiceInterface
	cache         repositories.CacheRepositoryInterface
	actionLogRepo repositories.ActionLogRepositoryInterface
	localTaskRepo repositories.LocalTaskRepositoryInterface
	bus           *eventbus.Bus
	metrics       *metrics.Metrics
	inflightTTL   time.Duration
	logger        *zap.Logger
}

func NewActionService(
	dispatcher *actions.Dispatcher,
	dashboard DashboardServiceInterface,
	cache repositories.CacheRepositoryInterface,
	actionLogRepo repositories.ActionLogRepositoryInterface,
	localTaskRepo repositories.LocalTaskRepositoryInterface,
	bus *eventbus.Bus,
	m *metrics.Metrics,
	inflightTTL time.Duration,
	logger *zap.Logger,
) ActionServiceInterface {
	return &ActionService{
		dispatcher:    dispatcher,
		dashboard:     dashboard,
		cache:         cache,
		actionLogRepo: actionLogRepo,
		localTaskRepo: localTaskRepo,
		bus:           bus,
		metrics:       m,
		inflightTTL:   inflightTTL,
		logger:        logger.Named("action_service"),
	}
}

// inflightKey различает CTA по типу и payload: повторное нажатие той же
// кнопки попадает в тот же ключ.
func inflightKey(userID string, req dto.DispatchRequest) string {
	payload, err := json.Marshal(req.Payload)
	if err != nil {
		payload = nil
	}
	sum := sha256.Sum256(append([]byte(string(req.ActionType)+"|"), payload...))
	return inflightPrefix + userID + ":" + hex.EncodeToString(sum[:16])
}

// Dispatch исполняет CTA от имени пользователя. Пока такой же CTA
// исполняется, повторный запрос отклоняется с 409.
func (s *ActionService) Dispatch(ctx context.Context, req dto.DispatchRequest) (*dto.DispatchResponse, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	key := inflightKey(userID, req)
	acquired, err := s.cache.SetNX(ctx, key, "1", s.inflightTTL)
	switch {
	case err != nil:
		// без кеша защита от двойного нажатия отключается, действие не блокируем
		s.logger.Warn("in-flight guard unavailable", zap.Error(err))
	case !acquired:
		s.metrics.IncrementRejected("in_flight")
		return nil, apperrors.NewHttpError(http.StatusConflict, MsgActionInFlight, apperrors.ErrActionInFlight,
			actions.Result{Success: false, Message: MsgActionInFlight})
	default:
		defer func() {
			if err := s.cache.Del(context.WithoutCancel(ctx), key); err != nil {
				s.logger.Warn("failed to release in-flight guard", zap.Error(err))
			}
		}()
	}

	cta := req.ToCta()
	recorder := actions.NewEffectRecorder(s.dashboard.Invalidate)

	start := time.Now()
	result := s.dispatcher.Dispatch(ctx, cta, recorder)
	duration := time.Since(start)

	s.metrics.ObserveDispatch(s.metricLabel(cta.ActionType), outcomeOf(result), start)
	s.logger.Info("action dispatched",
		zap.String("user_id", userID),
		zap.String("action_type", string(cta.ActionType)),
		zap.Bool("success", result.Success),
		zap.Bool("degraded", result.Degraded),
		zap.Duration("duration", duration),
	)

	if s.bus != nil {
		s.bus.Publish(ctx, events.ActionDispatchedEvent{
			ID:         uuid.NewString(),
			UserID:     userID,
			Cta:        cta,
			Result:     result,
			Duration:   duration,
			OccurredAt: start.UTC(),
		})
	}

	return &dto.DispatchResponse{Result: result, Effects: recorder.Effects()}, nil
}

func (s *ActionService) History(ctx context.Context, query dto.ActionHistoryQuery) ([]entities.ActionLog, uint64, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}

	filter := query.ToFilter(userID)
	if err := validation.Shared().Validate(filter); err != nil {
		return nil, 0, err
	}
	if filter.DateFrom.Valid && filter.DateTo.Valid && filter.DateTo.Time.Before(filter.DateFrom.Time) {
		return nil, 0, apperrors.NewHttpError(http.StatusBadRequest, "dateTo must not be before dateFrom", apperrors.ErrBadRequest, nil)
	}
	return s.actionLogRepo.List(ctx, filter)
}

func (s *ActionService) LocalTasks(ctx context.Context) ([]entities.LocalTask, error) {
	return s.localTaskRepo.List(ctx)
}

// metricLabel: actionType приходит от клиента, в метки попадают только
// известные типы.
func (s *ActionService) metricLabel(t types.ActionType) string {
	if s.dispatcher.Supports(t) {
		return string(t)
	}
	return metrics.UnknownActionType
}

func outcomeOf(r actions.Result) string {
	switch {
	case !r.Success:
		return "failed"
	case r.Degraded:
		return "degraded"
	}
	return "success"
}
