package session

import (
	"fmt"

	"darkroom/internal/adjust"
	"darkroom/internal/api"
	"darkroom/internal/logging"
)

// BatchStatus is the lifecycle state of one export job.
type BatchStatus int

const (
	BatchIdle BatchStatus = iota
	BatchStarting
	BatchRunning
	BatchComplete
	BatchFailed
)

func (s BatchStatus) String() string {
	switch s {
	case BatchIdle:
		return "idle"
	case BatchStarting:
		return "starting"
	case BatchRunning:
		return "running"
	case BatchComplete:
		return "complete"
	case BatchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s BatchStatus) Terminal() bool {
	return s == BatchComplete || s == BatchFailed
}

// BatchJob is one export invocation. FileIDs and Settings are fixed at
// creation; only status, progress counters, and results evolve.
type BatchJob struct {
	ID             string
	FileIDs        []string
	Settings       adjust.Settings
	CustomFilename string
	Status         BatchStatus
	Current        int
	Total          int
	CurrentFile    string
	Results        []api.FileResult
	FailureReason  string
}

// BatchExportMonitor supervises one export job at a time through its progress
// channel. Jobs are never reused: each Start builds a fresh BatchJob.
type BatchExportMonitor struct {
	logger logging.Logger
	job    *BatchJob
}

func NewBatchExportMonitor(logger logging.Logger) *BatchExportMonitor {
	return &BatchExportMonitor{logger: logging.OrNop(logger)}
}

// Start begins a new job. It fails if no files are given or a job is still
// in flight. The caller issues the job-creation request and reports back via
// Started or StartFailed.
func (m *BatchExportMonitor) Start(fileIDs []string, settings adjust.Settings, customFilename string) (*BatchJob, error) {
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("batch export: no files selected")
	}
	if m.job != nil && !m.job.Status.Terminal() {
		return nil, fmt.Errorf("batch export: a job is already in progress")
	}

	ids := dedupe(fileIDs)
	m.job = &BatchJob{
		FileIDs:        ids,
		Settings:       settings.Clamped(),
		CustomFilename: customFilename,
		Status:         BatchStarting,
		Total:          len(ids),
	}
	return m.job, nil
}

// Started records a successful job-creation response and opens the running
// phase; the caller subscribes to the progress channel keyed by jobID.
func (m *BatchExportMonitor) Started(jobID string) {
	if m.job == nil || m.job.Status != BatchStarting {
		return
	}
	m.job.ID = jobID
	m.job.Status = BatchRunning
	m.logger.Info("batch %s running (%d files)", jobID, len(m.job.FileIDs))
}

// StartFailed records a failed job-creation request. No subscription is ever
// opened for the job.
func (m *BatchExportMonitor) StartFailed(err error) {
	if m.job == nil || m.job.Status != BatchStarting {
		return
	}
	m.job.Status = BatchFailed
	m.job.FailureReason = err.Error()
	m.logger.Error("batch start failed: %v", err)
}

// HandleEvent applies one progress event in arrival order and reports whether
// the job is now terminal. Events arriving after a terminal transition are
// ignored. Progress counters are monotonically non-decreasing.
func (m *BatchExportMonitor) HandleEvent(event api.ProgressEvent) bool {
	if m.job == nil || m.job.Status != BatchRunning {
		return m.job != nil && m.job.Status.Terminal()
	}

	if event.Current > m.job.Current {
		m.job.Current = event.Current
	}
	if event.Total > m.job.Total {
		m.job.Total = event.Total
	}
	if event.CurrentFile != "" {
		m.job.CurrentFile = event.CurrentFile
	}

	if event.Error != "" {
		m.job.Status = BatchFailed
		m.job.FailureReason = event.Error
		m.logger.Error("batch %s failed: %s", m.job.ID, event.Error)
		return true
	}
	if event.Done {
		m.job.Status = BatchComplete
		m.job.Results = event.Results
		return true
	}
	return false
}

// HandleStreamError records a transport-level failure of the progress
// channel. A job that already completed stays complete.
func (m *BatchExportMonitor) HandleStreamError(err error) {
	if m.job == nil || m.job.Status.Terminal() {
		return
	}
	m.job.Status = BatchFailed
	m.job.FailureReason = err.Error()
	m.logger.Error("batch %s stream failed: %v", m.job.ID, err)
}

// Job returns the supervised job, or nil before the first Start.
func (m *BatchExportMonitor) Job() *BatchJob {
	return m.job
}

// Status returns the current lifecycle state.
func (m *BatchExportMonitor) Status() BatchStatus {
	if m.job == nil {
		return BatchIdle
	}
	return m.job.Status
}

// Summary renders the final per-file outcome line for a completed job.
func (m *BatchExportMonitor) Summary() string {
	if m.job == nil {
		return ""
	}
	successes := 0
	for _, r := range m.job.Results {
		if r.Success {
			successes++
		}
	}
	return fmt.Sprintf("%d of %d files processed successfully", successes, m.job.Total)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
