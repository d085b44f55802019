package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agora_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ModerationDecisions counts classifier verdicts by content kind and decision
	// (allowed, blocked, empty, error).
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_moderation_decisions_total",
		Help: "Total moderation verdicts by content kind and decision",
	}, []string{"kind", "decision"})

	// ModerationLatency records classifier round-trip latency.
	ModerationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "agora_moderation_latency_seconds",
		Help:    "Moderation inference round-trip latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// WriteBlocks counts write requests rejected before mutation, by gate.
	WriteBlocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_write_blocks_total",
		Help: "Total write requests rejected before mutation, by gate",
	}, []string{"gate"})
)

const queryStartKey = "observability:query_start"

// DatabaseMetrics is a GORM plugin feeding DatabaseQueryLatency from
// callbacks around every statement.
type DatabaseMetrics struct{}

func NewDatabaseMetrics() *DatabaseMetrics {
	return &DatabaseMetrics{}
}

func (*DatabaseMetrics) Name() string {
	return "agora:database_metrics"
}

// Initialize registers before/after callbacks for each statement kind.
func (*DatabaseMetrics) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("agora:metrics_start_create", markQueryStart),
		cb.Create().After("gorm:create").Register("agora:metrics_finish_create", observeQuery("create")),
		cb.Query().Before("gorm:query").Register("agora:metrics_start_query", markQueryStart),
		cb.Query().After("gorm:query").Register("agora:metrics_finish_query", observeQuery("query")),
		cb.Update().Before("gorm:update").Register("agora:metrics_start_update", markQueryStart),
		cb.Update().After("gorm:update").Register("agora:metrics_finish_update", observeQuery("update")),
		cb.Delete().Before("gorm:delete").Register("agora:metrics_start_delete", markQueryStart),
		cb.Delete().After("gorm:delete").Register("agora:metrics_finish_delete", observeQuery("delete")),
		cb.Raw().Before("gorm:raw").Register("agora:metrics_start_raw", markQueryStart),
		cb.Raw().After("gorm:raw").Register("agora:metrics_finish_raw", observeQuery("raw")),
		cb.Row().Before("gorm:row").Register("agora:metrics_start_row", markQueryStart),
		cb.Row().After("gorm:row").Register("agora:metrics_finish_row", observeQuery("row")),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func observeQuery(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		value, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := value.(time.Time)
		if !ok {
			return
		}
		DatabaseQueryLatency.WithLabelValues(operation, db.Statement.Table).Observe(time.Since(start).Seconds())
	}
}

// RecordModeration increments the decision counter and observes latency.
func RecordModeration(kind, decision string, start time.Time) {
	ModerationDecisions.WithLabelValues(kind, decision).Inc()
	ModerationLatency.Observe(time.Since(start).Seconds())
}
