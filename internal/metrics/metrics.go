package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы загрузки обзора.
const (
	OverviewCacheHit    = "cache_hit"
	OverviewFetched     = "fetched"
	OverviewUpstreamErr = "upstream_status"
	OverviewNetworkErr  = "network_error"
)

// UnknownActionType - метка для типов действий вне словаря.
const UnknownActionType = "unknown"

type Metrics struct {
	ActionsDispatched *prometheus.CounterVec
	ActionDuration    *prometheus.HistogramVec
	ActionsRejected   *prometheus.CounterVec
	OverviewLoads     *prometheus.CounterVec
}

// New регистрирует метрики в reg. В тестах передаётся prometheus.NewRegistry(),
// чтобы не ловить панику повторной регистрации.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActionsDispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aras_dashboard_actions_dispatched_total",
			Help: "Dispatched CTAs by action type and outcome",
		}, []string{"action_type", "outcome"}),
		ActionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aras_dashboard_action_duration_seconds",
			Help:    "Duration of a single dispatch including upstream calls",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"action_type"}),
		ActionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aras_dashboard_actions_rejected_total",
			Help: "Dispatch requests rejected before reaching the dispatcher",
		}, []string{"reason"}),
		OverviewLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aras_dashboard_overview_loads_total",
			Help: "Overview loads by result",
		}, []string{"result"}),
	}
}

// ObserveDispatch - outcome: success, degraded или failed.
func (m *Metrics) ObserveDispatch(actionType, outcome string, start time.Time) {
	m.ActionsDispatched.WithLabelValues(actionType, outcome).Inc()
	m.ActionDuration.WithLabelValues(actionType).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementRejected(reason string) {
	m.ActionsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementOverview(result string) {
	m.OverviewLoads.WithLabelValues(result).Inc()
}
