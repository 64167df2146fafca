package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	SessionsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSessionsCompleted,
			Help: HelpTextSessionsCompleted,
		},
	)

	SessionsAbandoned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSessionsAbandoned,
			Help: HelpTextSessionsAbandoned,
		},
		[]string{LabelCause},
	)

	FocusMinutes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFocusMinutes,
			Help: HelpTextFocusMinutes,
		},
	)

	StardustEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameStardustEarned,
			Help: HelpTextStardustEarned,
		},
	)

	AnteBurned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAnteBurned,
			Help: HelpTextAnteBurned,
		},
	)

	GachaPulls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGachaPulls,
			Help: HelpTextGachaPulls,
		},
		[]string{LabelRarity},
	)

	MilestonesAchieved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMilestonesAchieved,
			Help: HelpTextMilestonesAchieved,
		},
	)

	StyleChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStyleChanges,
			Help: HelpTextStyleChanges,
		},
		[]string{LabelChange},
	)

	UsageResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUsageResets,
			Help: HelpTextUsageResets,
		},
	)
)
