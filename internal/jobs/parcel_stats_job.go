package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"parceltrack/internal/core/application/usecases/queries"
)

// DefaultStatsSchedule runs the refresh every 30 seconds.
const DefaultStatsSchedule = "*/30 * * * * *"

// StatsCollector counts parcels per status.
type StatsCollector interface {
	Collect(ctx context.Context) (queries.ParcelStats, error)
}

// StatusGauge receives the counts.
type StatusGauge interface {
	SetParcelsByStatus(counts map[string]int64)
}

// ParcelStatsJob periodically recounts parcels per status and publishes the
// result to the status gauge.
type ParcelStatsJob struct {
	collector StatsCollector
	gauge     StatusGauge
	schedule  string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewParcelStatsJob creates the job. An empty schedule falls back to
// DefaultStatsSchedule; schedules use the six-field format with seconds.
func NewParcelStatsJob(collector StatsCollector, gauge StatusGauge, schedule string, logger *slog.Logger) *ParcelStatsJob {
	if schedule == "" {
		schedule = DefaultStatsSchedule
	}
	return &ParcelStatsJob{
		collector: collector,
		gauge:     gauge,
		schedule:  schedule,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "parcel_stats_job"),
	}
}

// Start schedules the refresh. The first run happens on the first tick.
func (j *ParcelStatsJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Parcel stats job started", "schedule", j.schedule)
	return nil
}

// Run performs a single refresh. Failures are logged and the gauge keeps its
// previous values.
func (j *ParcelStatsJob) Run(ctx context.Context) {
	stats, err := j.collector.Collect(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Parcel stats job failed", "error", err)
		return
	}
	j.gauge.SetParcelsByStatus(stats.ByStatus)
}

// Stop waits for a running refresh to finish.
func (j *ParcelStatsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Parcel stats job stopped")
}
