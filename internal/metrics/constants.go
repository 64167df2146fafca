package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameSessionsCompleted  = "sessions_completed_total"
	MetricNameSessionsAbandoned  = "sessions_abandoned_total"
	MetricNameFocusMinutes       = "focus_minutes_total"
	MetricNameStardustEarned     = "stardust_earned_total"
	MetricNameAnteBurned         = "stardust_ante_burned_total"
	MetricNameGachaPulls         = "gacha_pulls_total"
	MetricNameMilestonesAchieved = "milestones_achieved_total"
	MetricNameStyleChanges       = "style_changes_total"
	MetricNameUsageResets        = "usage_resets_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextSessionsCompleted  = "Total number of focus sessions completed"
	HelpTextSessionsAbandoned  = "Total number of focus sessions abandoned"
	HelpTextFocusMinutes       = "Total focused minutes across completed sessions"
	HelpTextStardustEarned     = "Total stardust paid out as session rewards"
	HelpTextAnteBurned         = "Total stardust forfeited from burned antes"
	HelpTextGachaPulls         = "Total gacha pulls by awarded rarity"
	HelpTextMilestonesAchieved = "Total milestones achieved"
	HelpTextStyleChanges       = "Total style purchases, unlocks, and upgrades"
	HelpTextUsageResets        = "Total usage records reset by daily rollover"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelRarity = "rarity"
	LabelCause  = "cause"
	LabelChange = "change"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgPayloadUnexpected = "Event payload has unexpected type"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
