package jobs

import (
	"fmt"
	"log/slog"
)

// Job is a background task with its own schedule.
type Job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs   map[string]Job
	order  []string
	logger *slog.Logger
}

// NewJobManager creates an empty manager.
func NewJobManager(logger *slog.Logger) *JobManager {
	return &JobManager{
		jobs:   make(map[string]Job),
		logger: logger.With("component", "job_manager"),
	}
}

// Add registers a job under name. Jobs start in registration order and stop
// in reverse.
func (jm *JobManager) Add(name string, job Job) {
	if _, ok := jm.jobs[name]; !ok {
		jm.order = append(jm.order, name)
	}
	jm.jobs[name] = job
}

// StartAll starts all scheduled jobs. If one fails, the ones already started
// are stopped again.
func (jm *JobManager) StartAll() error {
	for i, name := range jm.order {
		if err := jm.jobs[name].Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				jm.jobs[jm.order[j]].Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", name, err)
		}
	}
	jm.logger.Info("Jobs started", "count", len(jm.order))
	return nil
}

// StopAll stops the jobs in reverse registration order.
func (jm *JobManager) StopAll() {
	for i := len(jm.order) - 1; i >= 0; i-- {
		jm.jobs[jm.order[i]].Stop()
	}
}
