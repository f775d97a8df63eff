package session

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"darkroom/internal/adjust"
	"darkroom/internal/logging"
)

// PreviewRequest is one outstanding fetch attempt: the file, the settings
// snapshot captured when the quiet period elapsed, and a monotonically
// increasing token used to discard stale out-of-order responses.
type PreviewRequest struct {
	FileID   string
	Settings adjust.Settings
	Token    uint64
}

// BaselineRequest asks for the fixed-default rendering of a file, used as the
// "before" side of comparison.
type BaselineRequest struct {
	FileID string
}

const recentPreviewCacheSize = 32

// PreviewOrchestrator turns rapid settings/selection changes into a
// correctly-ordered sequence of preview fetches. It is a pure state machine:
// the host event loop arms the debounce timer and performs the network I/O,
// feeding elapses and resolutions back in. Between those boundaries every
// transition runs to completion, so no locking is involved.
type PreviewOrchestrator struct {
	registry *FileRegistry
	settings *SettingsModel
	logger   logging.Logger

	activeID    string
	debounceGen uint64
	nextToken   uint64
	accepted    map[string]uint64

	current   []byte
	currentOK bool

	// Last accepted preview per file, so switching back to a file shows
	// something immediately while the fresh fetch is in flight.
	recent *lru.Cache[string, []byte]

	// Baseline is a single slot: switching the active file invalidates it.
	baselineID      string
	baselineImg     []byte
	baselineOK      bool
	baselinePending bool
}

func NewPreviewOrchestrator(registry *FileRegistry, settings *SettingsModel, logger logging.Logger) *PreviewOrchestrator {
	recent, err := lru.New[string, []byte](recentPreviewCacheSize)
	if err != nil {
		// lru.New only errors on a non-positive size.
		panic(err)
	}
	return &PreviewOrchestrator{
		registry: registry,
		settings: settings,
		logger:   logging.OrNop(logger),
		accepted: make(map[string]uint64),
		recent:   recent,
	}
}

// NoteChange registers a settings or selection mutation and returns the
// debounce generation the host should arm a timer for. Any earlier pending
// generation is dead from this moment.
func (o *PreviewOrchestrator) NoteChange() uint64 {
	o.debounceGen++
	return o.debounceGen
}

// TimerElapsed handles a debounce timer firing for the given generation.
// It returns the fetch to issue, or nil when the generation was superseded
// by a later mutation or there is no active file.
func (o *PreviewOrchestrator) TimerElapsed(gen uint64) *PreviewRequest {
	if gen != o.debounceGen {
		return nil
	}
	if o.activeID == "" {
		return nil
	}
	o.nextToken++
	return &PreviewRequest{
		FileID:   o.activeID,
		Settings: o.settings.Get(),
		Token:    o.nextToken,
	}
}

// Resolve applies a completed preview fetch. A response whose token is below
// the accepted watermark for its file is discarded: a later request already
// represents the user's intent. Failed fetches are logged and dropped; the
// displayed preview stays whatever was last accepted.
func (o *PreviewOrchestrator) Resolve(req PreviewRequest, img []byte, err error) bool {
	if err != nil {
		o.logger.Warn("preview fetch for %s (seq %d) failed: %v", req.FileID, req.Token, err)
		return false
	}
	if req.Token < o.accepted[req.FileID] {
		o.logger.Debug("preview for %s (seq %d) superseded, dropping", req.FileID, req.Token)
		return false
	}

	o.accepted[req.FileID] = req.Token
	o.recent.Add(req.FileID, img)
	if req.FileID == o.activeID {
		o.current = img
		o.currentOK = true
	}
	return true
}

// SetActiveFile switches the preview target. The debounce timer restarts and
// the cached baseline is invalidated; the caller arms a timer for the
// returned generation. Passing the current active file is a no-op.
func (o *PreviewOrchestrator) SetActiveFile(id string) (uint64, bool) {
	if id == o.activeID {
		return 0, false
	}
	if id != "" && !o.registry.Has(id) {
		return 0, false
	}

	o.activeID = id
	o.baselineID = ""
	o.baselineImg = nil
	o.baselineOK = false
	o.baselinePending = false

	o.current, o.currentOK = nil, false
	if id != "" {
		if img, ok := o.recent.Get(id); ok {
			o.current, o.currentOK = img, true
		}
	}
	return o.NoteChange(), true
}

// Forget drops the accepted-token watermark and cached preview for a file
// that left the working set.
func (o *PreviewOrchestrator) Forget(id string) {
	delete(o.accepted, id)
	o.recent.Remove(id)
}

// ActiveFile returns the current preview target, or "" when there is none.
func (o *PreviewOrchestrator) ActiveFile() string {
	return o.activeID
}

// CurrentPreview returns the authoritative preview for the active file.
func (o *PreviewOrchestrator) CurrentPreview() ([]byte, bool) {
	return o.current, o.currentOK
}

// EnsureBaseline returns the fetch needed to resolve the active file's
// baseline, or nil when it is already cached, already in flight, or there is
// no active file. The baseline always renders under fixed defaults.
func (o *PreviewOrchestrator) EnsureBaseline() *BaselineRequest {
	if o.activeID == "" {
		return nil
	}
	if o.baselinePending {
		return nil
	}
	if o.baselineOK && o.baselineID == o.activeID {
		return nil
	}
	o.baselinePending = true
	return &BaselineRequest{FileID: o.activeID}
}

// BaselineSettings is the snapshot a baseline fetch renders under,
// independent of the user's current adjustments.
func (o *PreviewOrchestrator) BaselineSettings() adjust.Settings {
	return adjust.Defaults()
}

// ResolveBaseline applies a completed baseline fetch. Results for a file
// that is no longer active are dropped.
func (o *PreviewOrchestrator) ResolveBaseline(fileID string, img []byte, err error) {
	if fileID == o.activeID {
		o.baselinePending = false
	}
	if err != nil {
		o.logger.Warn("baseline fetch for %s failed: %v", fileID, err)
		return
	}
	if fileID != o.activeID {
		return
	}
	o.baselineID = fileID
	o.baselineImg = img
	o.baselineOK = true
}

// Baseline returns the cached baseline for the active file.
func (o *PreviewOrchestrator) Baseline() ([]byte, bool) {
	if o.baselineOK && o.baselineID == o.activeID {
		return o.baselineImg, true
	}
	return nil, false
}
