package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	types "github.com/yungbote/literacy-backend/internal/domain"
	"github.com/yungbote/literacy-backend/internal/platform/envutil"
	"github.com/yungbote/literacy-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *series
	apiLatency  *histogram
	apiInflight *series
	apiReqError *series

	providerRequests *series
	providerLatency  *histogram
	providerRetries  *series

	sweepRuns     *series
	sweepDuration *histogram
	sweepUnits    *series
	coverageGaps  *series

	jobRuns     *series
	jobDuration *histogram

	queueDepth *series
	pgStats    *series
	redisUp    *series
	redisPing  *series
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current returns the process metrics, or nil when metrics are disabled. All
// methods are nil-safe.
func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	d := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10)
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: newCounter("lit_api_requests_total", "Total API requests by method/route/status.", "method", "route", "status"),
		apiLatency: newHistogram(
			"lit_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		),
		apiInflight: newGauge("lit_api_inflight_requests", "In-flight API requests."),
		apiReqError: newCounter("lit_api_requests_error_total", "Total API requests answered with 5xx."),

		providerRequests: newCounter("lit_translation_provider_requests_total", "Translation provider requests by provider/status.", "provider", "status"),
		providerLatency: newHistogram(
			"lit_translation_provider_request_duration_seconds",
			"Translation provider request latency in seconds.",
			[]string{"provider", "status"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		providerRetries: newCounter("lit_translation_provider_retries_total", "Translation provider retries by provider/reason.", "provider", "reason"),

		sweepRuns: newCounter("lit_translation_sweeps_total", "Translation sweeps by kind/trigger/outcome.", "kind", "trigger", "outcome"),
		sweepDuration: newHistogram(
			"lit_translation_sweep_duration_seconds",
			"Translation sweep duration in seconds.",
			[]string{"kind", "trigger"},
			[]float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		),
		sweepUnits:   newCounter("lit_translation_units_total", "Translation units by kind/outcome.", "kind", "outcome"),
		coverageGaps: newGauge("lit_translation_coverage_gaps", "Remaining (entity, language) gaps per kind at the end of the last sweep.", "kind"),

		jobRuns: newCounter("lit_job_runs_total", "Job runs by type/status.", "job_type", "status"),
		jobDuration: newHistogram(
			"lit_job_run_duration_seconds",
			"Job run duration in seconds.",
			[]string{"job_type", "status"},
			[]float64{0.5, 1, 5, 10, 30, 60, 120, 300, 900},
		),

		queueDepth: newGauge("lit_job_queue_depth", "Job runs by status.", "status"),
		pgStats:    newGauge("lit_postgres_pool", "Database connection pool statistics.", "stat"),
		redisUp:    newGauge("lit_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:  newGauge("lit_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

type promWriter interface {
	WritePrometheus(w io.Writer) error
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []promWriter{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqError,
		m.providerRequests, m.providerLatency, m.providerRetries,
		m.sweepRuns, m.sweepDuration, m.sweepUnits, m.coverageGaps,
		m.jobRuns, m.jobDuration,
		m.queueDepth, m.pgStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.add(1, method, route, status)
	m.apiLatency.observe(dur.Seconds(), method, route, status)
	if strings.HasPrefix(status, "5") {
		m.apiReqError.add(1)
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.add(1)
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.add(-1)
}

// ObserveProviderRequest records one provider attempt. status is the HTTP
// status code, or "error" for transport failures.
func (m *Metrics) ObserveProviderRequest(provider, status string, dur time.Duration) {
	if m == nil {
		return
	}
	provider = orUnknown(provider)
	status = strings.TrimSpace(status)
	if status == "" {
		status = "0"
	}
	m.providerRequests.add(1, provider, status)
	if dur > 0 {
		m.providerLatency.observe(dur.Seconds(), provider, status)
	}
}

func (m *Metrics) IncProviderRetry(provider, reason string) {
	if m == nil {
		return
	}
	m.providerRetries.add(1, orUnknown(provider), orUnknown(reason))
}

func (m *Metrics) ObserveSweep(kind, trigger, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	kind, trigger = orUnknown(kind), orUnknown(trigger)
	m.sweepRuns.add(1, kind, trigger, orUnknown(outcome))
	m.sweepDuration.observe(dur.Seconds(), kind, trigger)
}

func (m *Metrics) IncSweepUnit(kind, outcome string) {
	if m == nil {
		return
	}
	m.sweepUnits.add(1, orUnknown(kind), orUnknown(outcome))
}

func (m *Metrics) SetCoverageGaps(kind string, gaps int64) {
	if m == nil {
		return
	}
	m.coverageGaps.set(float64(gaps), orUnknown(kind))
}

func (m *Metrics) ObserveJob(jobType, status string, dur time.Duration) {
	if m == nil {
		return
	}
	jobType, status = orUnknown(jobType), orUnknown(status)
	m.jobRuns.add(1, jobType, status)
	if dur > 0 {
		m.jobDuration.observe(dur.Seconds(), jobType, status)
	}
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.set(float64(stats.OpenConnections), "open_connections")
				m.pgStats.set(float64(stats.InUse), "in_use")
				m.pgStats.set(float64(stats.Idle), "idle")
				m.pgStats.set(float64(stats.WaitCount), "wait_count")
				m.pgStats.set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
				m.pgStats.set(float64(stats.MaxOpenConnections), "max_open_connections")
			}
		}
	}()
}

// StartRedisCollector pings the lease store on every scrape interval.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.set(1)
				m.redisPing.set(time.Since(start).Seconds())
			}
		}
	}()
}

func (m *Metrics) StartJobQueueCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	statuses := []string{
		types.JobStatusQueued,
		types.JobStatusRunning,
		types.JobStatusSucceeded,
		types.JobStatusFailed,
		types.JobStatusCanceled,
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, s := range statuses {
					m.queueDepth.set(0, s)
				}
				var rows []struct {
					Status string
					Count  int64
				}
				if err := db.WithContext(ctx).
					Model(&types.JobRun{}).
					Select("status, count(*) as count").
					Group("status").
					Scan(&rows).Error; err != nil {
					if log != nil {
						log.Warn("metrics: job queue depth query failed", "error", err)
					}
					continue
				}
				for _, row := range rows {
					m.queueDepth.set(float64(row.Count), orUnknown(row.Status))
				}
			}
		}
	}()
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
