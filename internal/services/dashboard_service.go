package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aras-dashboard/internal/metrics"
	"aras-dashboard/internal/overview"
	"aras-dashboard/internal/repositories"
	apperrors "aras-dashboard/pkg/errors"
	"aras-dashboard/pkg/types"
	"aras-dashboard/pkg/utils"
)

const overviewCachePrefix = "dashboard:overview:"

// OverviewFetcher - источник сырого JSON обзора (API платформы).
type OverviewFetcher interface {
	FetchOverview(ctx context.Context) (json.RawMessage, error)
}

type DashboardServiceInterface interface {
	GetOverview(ctx context.Context) (types.DashboardOverview, error)
	Refresh(ctx context.Context) (types.DashboardOverview, error)
	EmptyDashboard(ctx context.Context) (types.DashboardOverview, error)
	Invalidate(ctx context.Context)
}

type DashboardService struct {
	backend  OverviewFetcher
	parser   *overview.Parser
	cache    repositories.CacheRepositoryInterface
	metrics  *metrics.Metrics
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewDashboardService(
	backend OverviewFetcher,
	parser *overview.Parser,
	cache repositories.CacheRepositoryInterface,
	m *metrics.Metrics,
	cacheTTL time.Duration,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		backend:  backend,
		parser:   parser,
		cache:    cache,
		metrics:  m,
		cacheTTL: cacheTTL,
		logger:   logger.Named("dashboard_service"),
	}
}

func overviewCacheKey(userID string) string {
	return overviewCachePrefix + userID
}

// GetOverview: кеш пользователя, иначе API платформы через безопасный парсер.
// Сбой API не является ошибкой: возвращается пустой дашборд с алертом.
func (s *DashboardService) GetOverview(ctx context.Context) (types.DashboardOverview, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return types.DashboardOverview{}, err
	}
	key := overviewCacheKey(userID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var out types.DashboardOverview
		if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
			s.metrics.IncrementOverview(metrics.OverviewCacheHit)
			return out, nil
		}
		s.logger.Warn("corrupt overview cache entry, refetching", zap.String("user_id", userID))
	} else if !errors.Is(err, repositories.ErrCacheMiss) {
		s.logger.Warn("overview cache unavailable", zap.Error(err))
	}

	raw, err := s.backend.FetchOverview(ctx)
	if err != nil {
		return s.fallbackOverview(ctx, err), nil
	}

	out := s.parser.ParseJSON(raw)
	out.NextActions = overview.MergeActions(
		out.NextActions,
		out.KPIs.Contacts.Total > 0,
		out.KPIs.Campaigns.Total > 0,
		out.KPIs.Knowledge.Sources > 0,
	)
	if out.User.ID == "" {
		fillUser(&out.User, s.userInfo(ctx))
	}
	s.metrics.IncrementOverview(metrics.OverviewFetched)

	if encoded, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, encoded, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache overview", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return out, nil
}

func (s *DashboardService) Refresh(ctx context.Context) (types.DashboardOverview, error) {
	if _, err := utils.GetUserIDFromCtx(ctx); err != nil {
		return types.DashboardOverview{}, err
	}
	s.Invalidate(ctx)
	return s.GetOverview(ctx)
}

func (s *DashboardService) EmptyDashboard(ctx context.Context) (types.DashboardOverview, error) {
	if _, err := utils.GetUserIDFromCtx(ctx); err != nil {
		return types.DashboardOverview{}, err
	}
	return overview.EmptyDashboard(s.userInfo(ctx)), nil
}

// Invalidate сбрасывает кеш обзора. Кеш только инвалидируется, никогда не
// правится на месте.
func (s *DashboardService) Invalidate(ctx context.Context) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return
	}
	if err := s.cache.Del(ctx, overviewCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate overview cache", zap.String("user_id", userID), zap.Error(err))
	}
}

// fallbackOverview: не-2xx даёт warning, сетевой сбой даёт error с CTA
// на повторную попытку. Результат не кешируется.
func (s *DashboardService) fallbackOverview(ctx context.Context, err error) types.DashboardOverview {
	out := overview.EmptyDashboard(s.userInfo(ctx))
	out.Errors = append(out.Errors, err.Error())

	if upErr, isStatus := apperrors.IsUpstreamStatus(err); isStatus {
		s.logger.Warn("overview request returned non-2xx", zap.Int("status", upErr.Status))
		s.metrics.IncrementOverview(metrics.OverviewUpstreamErr)
		out.SystemAlerts = append(out.SystemAlerts, types.SystemAlert{
			ID:          uuid.NewString(),
			Severity:    types.SeverityWarning,
			Title:       "Dashboard data unavailable",
			Message:     fmt.Sprintf("The ARAS API answered with status %d. Showing an empty dashboard for now.", upErr.Status),
			Service:     "api",
			Dismissible: true,
		})
		return out
	}

	s.logger.Error("overview request failed", zap.Error(err))
	s.metrics.IncrementOverview(metrics.OverviewNetworkErr)
	out.SystemAlerts = append(out.SystemAlerts, types.SystemAlert{
		ID:          uuid.NewString(),
		Severity:    types.SeverityError,
		Title:       "Cannot reach ARAS",
		Message:     "The dashboard could not be loaded. Check your connection and try again.",
		Service:     "api",
		Dismissible: false,
		ActionCta: &types.Cta{
			Label:      "Retry",
			ActionType: types.ActionFixError,
			Payload:    map[string]any{"service": "api"},
		},
	})
	return out
}

func (s *DashboardService) userInfo(ctx context.Context) overview.UserInfo {
	claims, err := utils.GetClaimsFromCtx(ctx)
	if err != nil {
		userID, _ := utils.GetUserIDFromCtx(ctx)
		return overview.UserInfo{ID: userID}
	}
	return overview.UserInfo{
		ID:      claims.UserID,
		Name:    claims.Name,
		Email:   claims.Email,
		Plan:    claims.Plan,
		Company: claims.Company,
	}
}

// fillUser дополняет профиль из токена, если платформа его не прислала.
func fillUser(u *types.DashboardUser, info overview.UserInfo) {
	u.ID = info.ID
	if u.Email == "" {
		u.Email = info.Email
	}
	if u.Company == "" {
		u.Company = info.Company
	}
	if u.Name == overview.DefaultUserName && info.Name != "" {
		u.Name = info.Name
	}
	if u.Plan == overview.DefaultPlan && info.Plan != "" {
		u.Plan = info.Plan
	}
}
