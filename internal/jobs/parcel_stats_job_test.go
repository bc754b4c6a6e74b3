package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/jobs"
)

type MockStatsCollector struct {
	mock.Mock
}

func (m *MockStatsCollector) Collect(ctx context.Context) (queries.ParcelStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(queries.ParcelStats), args.Error(1)
}

type MockStatusGauge struct {
	mock.Mock
}

func (m *MockStatusGauge) SetParcelsByStatus(counts map[string]int64) {
	m.Called(counts)
}

type MockJob struct {
	mock.Mock
}

func (m *MockJob) Start() error {
	return m.Called().Error(0)
}

func (m *MockJob) Stop() {
	m.Called()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParcelStatsJob_Run_PublishesCounts(t *testing.T) {
	collector := &MockStatsCollector{}
	gauge := &MockStatusGauge{}
	counts := map[string]int64{"PENDING": 3, "DELIVERED": 1}
	collector.On("Collect", mock.Anything).Return(queries.ParcelStats{Total: 4, ByStatus: counts}, nil)
	gauge.On("SetParcelsByStatus", counts).Once()

	job := jobs.NewParcelStatsJob(collector, gauge, "", discardLogger())
	job.Run(t.Context())

	gauge.AssertExpectations(t)
}

func TestParcelStatsJob_Run_KeepsGaugeOnFailure(t *testing.T) {
	collector := &MockStatsCollector{}
	gauge := &MockStatusGauge{}
	collector.On("Collect", mock.Anything).Return(queries.ParcelStats{}, errors.New("db down"))

	job := jobs.NewParcelStatsJob(collector, gauge, "", discardLogger())
	job.Run(t.Context())

	gauge.AssertNotCalled(t, "SetParcelsByStatus", mock.Anything)
}

func TestParcelStatsJob_Start_RejectsBadSchedule(t *testing.T) {
	job := jobs.NewParcelStatsJob(&MockStatsCollector{}, &MockStatusGauge{}, "every now and then", discardLogger())

	assert.Error(t, job.Start())
}

func TestParcelStatsJob_StartStop(t *testing.T) {
	job := jobs.NewParcelStatsJob(&MockStatsCollector{}, &MockStatusGauge{}, "0 0 0 1 1 *", discardLogger())

	require.NoError(t, job.Start())
	job.Stop()
}

func TestJobManager_StartAll_RollsBackOnFailure(t *testing.T) {
	first := &MockJob{}
	first.On("Start").Return(nil)
	first.On("Stop").Once()
	second := &MockJob{}
	second.On("Start").Return(errors.New("bad schedule"))

	manager := jobs.NewJobManager(discardLogger())
	manager.Add("first", first)
	manager.Add("second", second)

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	first.AssertExpectations(t)
	second.AssertNotCalled(t, "Stop")
}

func TestJobManager_StopAll_StopsEveryJob(t *testing.T) {
	a := &MockJob{}
	a.On("Start").Return(nil)
	a.On("Stop").Once()
	b := &MockJob{}
	b.On("Start").Return(nil)
	b.On("Stop").Once()

	manager := jobs.NewJobManager(discardLogger())
	manager.Add("a", a)
	manager.Add("b", b)

	require.NoError(t, manager.StartAll())
	manager.StopAll()

	a.AssertExpectations(t)
	b.AssertExpectations(t)
}
