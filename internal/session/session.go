package session

import (
	"darkroom/internal/adjust"
	"darkroom/internal/logging"
)

// Session is the top-level controller owning the working set, the adjustment
// vector, and the preview/batch state machines. There is no ambient state:
// every component hangs off this object and is mutated only through it, from
// a single host event loop.
type Session struct {
	Registry *FileRegistry
	Settings *SettingsModel
	Preview  *PreviewOrchestrator
	Compare  *ComparisonController
	Batch    *BatchExportMonitor

	logger logging.Logger
}

func New(logger logging.Logger) *Session {
	logger = logging.OrNop(logger)
	registry := NewFileRegistry()
	settings := NewSettingsModel()
	preview := NewPreviewOrchestrator(registry, settings, logger)
	return &Session{
		Registry: registry,
		Settings: settings,
		Preview:  preview,
		Compare:  NewComparisonController(preview),
		Batch:    NewBatchExportMonitor(logger),
		logger:   logger,
	}
}

// AddUpload registers a successfully uploaded file. The first upload becomes
// the active file automatically. Returns the debounce generation to arm, or
// zero when no preview needs scheduling.
func (s *Session) AddUpload(id, filename string) uint64 {
	if !s.Registry.Add(id, filename) {
		return 0
	}
	if s.Preview.ActiveFile() == "" {
		if gen, changed := s.Preview.SetActiveFile(id); changed {
			return gen
		}
	}
	return 0
}

// UpdateSetting stores one adjustment field and restarts the quiet period.
func (s *Session) UpdateSetting(field string, value float64) (uint64, bool) {
	if !s.Settings.Set(field, value) {
		return 0, false
	}
	return s.Preview.NoteChange(), true
}

// ApplyPreset replaces the whole vector and restarts the quiet period.
func (s *Session) ApplyPreset(preset adjust.Settings) uint64 {
	s.Settings.ApplyPreset(preset)
	return s.Preview.NoteChange()
}

// ResetSettings restores defaults and restarts the quiet period.
func (s *Session) ResetSettings() uint64 {
	s.Settings.Reset()
	return s.Preview.NoteChange()
}

// ActivateFile makes a file the preview target.
func (s *Session) ActivateFile(id string) (uint64, bool) {
	return s.Preview.SetActiveFile(id)
}

// DeleteFile removes a file from the working set. If it was the active file
// the orchestrator falls back to the next remaining file, or to no active
// file at all, in which case the comparison view is dismissed. The remote
// deletion is best-effort and handled by the host; registry removal proceeds
// regardless of its outcome.
func (s *Session) DeleteFile(id string) uint64 {
	wasActive := s.Preview.ActiveFile() == id
	fallback := s.Registry.NextAfter(id)
	if !s.Registry.Remove(id) {
		return 0
	}
	s.Preview.Forget(id)
	if !wasActive {
		return 0
	}

	gen, _ := s.Preview.SetActiveFile(fallback)
	if fallback == "" {
		s.Compare.SetMode(false)
		return 0
	}
	return gen
}

// StartExport begins a batch job over the currently selected files.
func (s *Session) StartExport(customFilename string) (*BatchJob, error) {
	return s.Batch.Start(s.Registry.SelectedIDs(), s.Settings.Get(), customFilename)
}
