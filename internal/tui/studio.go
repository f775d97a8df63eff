package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"darkroom/internal/adjust"
	"darkroom/internal/api"
	"darkroom/internal/logging"
	"darkroom/internal/session"
	"darkroom/pkg/rawmeta"
)

// StudioModel is the interactive editing session. The session core is a set
// of pure state machines; this model is the event loop that arms debounce
// timers, executes fetches as commands, and feeds results back in. All core
// mutations happen inside Update, so the core sees strictly serial input.
type StudioModel struct {
	session *session.Session
	client  *api.Client
	logger  logging.Logger
	window  time.Duration

	meta      map[string]rawmeta.CaptureInfo
	uploading int

	fieldCursor int
	naming      bool
	nameInput   textinput.Model

	preset *adjust.Settings

	exportEvents <-chan api.ProgressEvent
	exportErrs   <-chan error

	spin   spinner.Model
	bar    progress.Model
	status string
	width  int

	pendingPaths []string
}

type uploadedMsg struct {
	path string
	res  api.UploadResult
	info rawmeta.CaptureInfo
	err  error
}

type debounceMsg struct{ gen uint64 }

type previewMsg struct {
	req session.PreviewRequest
	img []byte
	err error
}

type baselineMsg struct {
	fileID string
	img    []byte
	err    error
}

type presetMsg struct {
	settings adjust.Settings
	err      error
}

type batchStartedMsg struct {
	handle api.BatchHandle
	err    error
}

type studioExportEventMsg api.ProgressEvent

type studioExportClosedMsg struct{ err error }

type fileDeletedMsg struct {
	id  string
	err error
}

func NewStudioModel(sess *session.Session, client *api.Client, logger logging.Logger, window time.Duration, paths []string) StudioModel {
	input := textinput.New()
	input.Placeholder = "custom filename (optional)"
	input.CharLimit = 64

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
	)

	m := StudioModel{
		session:   sess,
		client:    client,
		logger:    logging.OrNop(logger),
		window:    window,
		meta:      make(map[string]rawmeta.CaptureInfo),
		nameInput: input,
		spin:      spin,
		bar:       progress.New(progress.WithDefaultGradient()),
		uploading: len(paths),
	}
	m.pendingPaths = paths
	return m
}

func (m StudioModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	for _, path := range m.pendingPaths {
		cmds = append(cmds, m.uploadCmd(path))
	}
	return tea.Batch(cmds...)
}

func (m StudioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		width := msg.Width - 12
		if width > 50 {
			width = 50
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case uploadedMsg:
		m.uploading--
		if msg.err != nil {
			m.status = fmt.Sprintf("upload failed: %s: %v", filepath.Base(msg.path), msg.err)
			m.logger.Error("upload %s: %v", msg.path, msg.err)
			return m, nil
		}
		m.meta[msg.res.FileID] = msg.info
		if gen := m.session.AddUpload(msg.res.FileID, msg.res.Filename); gen != 0 {
			return m, m.debounceCmd(gen)
		}
		return m, nil

	case debounceMsg:
		if req := m.session.Preview.TimerElapsed(msg.gen); req != nil {
			return m, m.previewCmd(*req)
		}
		return m, nil

	case previewMsg:
		m.session.Preview.Resolve(msg.req, msg.img, msg.err)
		return m, nil

	case baselineMsg:
		m.session.Preview.ResolveBaseline(msg.fileID, msg.img, msg.err)
		return m, nil

	case presetMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("preset fetch failed: %v", msg.err)
			m.logger.Warn("preset fetch: %v", msg.err)
			return m, nil
		}
		preset := msg.settings
		m.preset = &preset
		return m, m.debounceCmd(m.session.ApplyPreset(preset))

	case batchStartedMsg:
		if msg.err != nil {
			m.session.Batch.StartFailed(msg.err)
			m.status = fmt.Sprintf("export failed to start: %v", msg.err)
			return m, nil
		}
		m.session.Batch.Started(msg.handle.BatchID)
		events := make(chan api.ProgressEvent, 16)
		errs := make(chan error, 1)
		client, id := m.client, msg.handle.BatchID
		go func() { errs <- client.FollowProgress(context.Background(), id, events) }()
		m.exportEvents = events
		m.exportErrs = errs
		return m, waitExportEvent(events, errs)

	case studioExportEventMsg:
		m.session.Batch.HandleEvent(api.ProgressEvent(msg))
		return m, waitExportEvent(m.exportEvents, m.exportErrs)

	case studioExportClosedMsg:
		if msg.err != nil {
			m.session.Batch.HandleStreamError(msg.err)
		}
		m.exportEvents, m.exportErrs = nil, nil
		switch m.session.Batch.Status() {
		case session.BatchComplete:
			m.status = m.session.Batch.Summary()
		case session.BatchFailed:
			m.status = "export failed: " + m.session.Batch.Job().FailureReason
		}
		return m, nil

	case fileDeletedMsg:
		if msg.err != nil {
			// Best effort: the registry already moved on.
			m.logger.Warn("remote delete %s: %v", msg.id, msg.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		return m, nil
	}
}

func (m StudioModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.naming {
		switch msg.String() {
		case "enter":
			m.naming = false
			m.nameInput.Blur()
			return m.startExport(strings.TrimSpace(m.nameInput.Value()))
		case "esc":
			m.naming = false
			m.nameInput.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.nameInput, cmd = m.nameInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
		return m, nil
	case "down", "j":
		if m.fieldCursor < len(adjust.Fields)-1 {
			m.fieldCursor++
		}
		return m, nil

	case "left", "h":
		return m.nudgeField(-1)
	case "right", "l":
		return m.nudgeField(+1)

	case "[":
		return m.activateNeighbor(-1)
	case "]":
		return m.activateNeighbor(+1)

	case " ":
		if id := m.session.Preview.ActiveFile(); id != "" {
			if f, ok := m.session.Registry.Get(id); ok {
				m.session.Registry.SetSelected(id, !f.Selected)
			}
		}
		return m, nil
	case "a":
		m.session.Registry.ToggleSelectAll()
		return m, nil

	case "x":
		id := m.session.Preview.ActiveFile()
		if id == "" {
			return m, nil
		}
		delete(m.meta, id)
		gen := m.session.DeleteFile(id)
		cmds := []tea.Cmd{m.deleteCmd(id)}
		if gen != 0 {
			cmds = append(cmds, m.debounceCmd(gen))
		}
		// Compare survives the delete when a fallback file took over; its
		// baseline was invalidated with the switch, so fetch it anew.
		if m.session.Compare.Mode() {
			if req := m.session.Preview.EnsureBaseline(); req != nil {
				cmds = append(cmds, m.baselineCmd(*req))
			}
		}
		return m, tea.Batch(cmds...)

	case "c":
		if req := m.session.Compare.SetMode(!m.session.Compare.Mode()); req != nil {
			return m, m.baselineCmd(*req)
		}
		return m, nil
	case ",":
		m.session.Compare.SetSliderPosition(m.session.Compare.View().Position - 5)
		return m, nil
	case ".":
		m.session.Compare.SetSliderPosition(m.session.Compare.View().Position + 5)
		return m, nil

	case "p":
		if m.preset != nil {
			return m, m.debounceCmd(m.session.ApplyPreset(*m.preset))
		}
		return m, m.presetCmd("landscape-lighting")
	case "r":
		return m, m.debounceCmd(m.session.ResetSettings())

	case "e":
		if m.session.Batch.Status() == session.BatchStarting || m.session.Batch.Status() == session.BatchRunning {
			m.status = "an export is already running"
			return m, nil
		}
		if len(m.session.Registry.SelectedIDs()) == 0 {
			m.status = "no files selected for export"
			return m, nil
		}
		m.naming = true
		m.nameInput.SetValue("")
		return m, m.nameInput.Focus()

	default:
		return m, nil
	}
}

func (m StudioModel) nudgeField(direction int) (tea.Model, tea.Cmd) {
	field := adjust.Fields[m.fieldCursor]
	value := field.Value(m.session.Settings.Get()) + float64(direction)*field.Step
	if gen, ok := m.session.UpdateSetting(field.Name, value); ok {
		return m, m.debounceCmd(gen)
	}
	return m, nil
}

func (m StudioModel) activateNeighbor(direction int) (tea.Model, tea.Cmd) {
	files := m.session.Registry.Files()
	if len(files) == 0 {
		return m, nil
	}
	active := m.session.Preview.ActiveFile()
	index := 0
	for i, f := range files {
		if f.ID == active {
			index = i + direction
			break
		}
	}
	if index < 0 {
		index = len(files) - 1
	}
	if index >= len(files) {
		index = 0
	}

	gen, changed := m.session.ActivateFile(files[index].ID)
	if !changed {
		return m, nil
	}
	cmds := []tea.Cmd{m.debounceCmd(gen)}
	if m.session.Compare.Mode() {
		if req := m.session.Preview.EnsureBaseline(); req != nil {
			cmds = append(cmds, m.baselineCmd(*req))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m StudioModel) startExport(customName string) (tea.Model, tea.Cmd) {
	job, err := m.session.StartExport(customName)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	client := m.client
	return m, func() tea.Msg {
		handle, err := client.StartBatch(context.Background(), job.FileIDs, job.Settings, job.CustomFilename)
		return batchStartedMsg{handle: handle, err: err}
	}
}

func (m StudioModel) uploadCmd(path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if !rawmeta.Supported(path) {
			return uploadedMsg{path: path, err: fmt.Errorf("unsupported file type %s", filepath.Ext(path))}
		}
		info, _ := rawmeta.InspectFile(path)

		f, err := os.Open(path)
		if err != nil {
			return uploadedMsg{path: path, err: err}
		}
		defer f.Close()

		res, err := client.Upload(context.Background(), filepath.Base(path), f)
		return uploadedMsg{path: path, res: res, info: info, err: err}
	}
}

func (m StudioModel) debounceCmd(gen uint64) tea.Cmd {
	return tea.Tick(m.window, func(time.Time) tea.Msg {
		return debounceMsg{gen: gen}
	})
}

func (m StudioModel) previewCmd(req session.PreviewRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		img, err := client.Preview(context.Background(), req.FileID, req.Settings)
		return previewMsg{req: req, img: img, err: err}
	}
}

func (m StudioModel) baselineCmd(req session.BaselineRequest) tea.Cmd {
	client := m.client
	defaults := m.session.Preview.BaselineSettings()
	return func() tea.Msg {
		img, err := client.Preview(context.Background(), req.FileID, defaults)
		return baselineMsg{fileID: req.FileID, img: img, err: err}
	}
}

func (m StudioModel) presetCmd(name string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		settings, err := client.Preset(context.Background(), name)
		return presetMsg{settings: settings, err: err}
	}
}

func (m StudioModel) deleteCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return fileDeletedMsg{id: id, err: client.DeleteFile(context.Background(), id)}
	}
}

func waitExportEvent(events <-chan api.ProgressEvent, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return studioExportClosedMsg{err: <-errs}
		}
		return studioExportEventMsg(event)
	}
}
