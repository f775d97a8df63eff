package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"darkroom/internal/api"
	"darkroom/internal/session"
)

// ExportModel renders a running batch export: one progress channel in, a bar
// and per-file status out. The monitor is mutated only from this model's
// Update loop.
type ExportModel struct {
	monitor *session.BatchExportMonitor
	events  <-chan api.ProgressEvent

	spin     spinner.Model
	bar      progress.Model
	started  time.Time
	width    int
	quitting bool
}

type exportEventMsg api.ProgressEvent

type exportStreamDoneMsg struct{}

func NewExportModel(monitor *session.BatchExportMonitor, events <-chan api.ProgressEvent) ExportModel {
	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent)),
	)
	return ExportModel{
		monitor: monitor,
		events:  events,
		spin:    spin,
		bar:     progress.New(progress.WithDefaultGradient()),
		started: time.Now(),
	}
}

func (m ExportModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, listenForEvents(m.events))
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportEventMsg:
		m.monitor.HandleEvent(api.ProgressEvent(msg))
		return m, listenForEvents(m.events)
	case exportStreamDoneMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		width := msg.Width - 12
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m ExportModel) View() string {
	if m.quitting {
		return ""
	}

	job := m.monitor.Job()
	if job == nil {
		return exportDimStyle.Render("waiting for job...")
	}

	ratio := 0.0
	if job.Total > 0 {
		ratio = float64(job.Current) / float64(job.Total)
		if ratio > 1 {
			ratio = 1
		}
	}

	current := job.CurrentFile
	if current == "" {
		current = "..."
	}

	lines := []string{
		exportTitleStyle.Render("darkroom export"),
		m.spin.View() + exportLabelStyle.Render(fmt.Sprintf(" processing %s", current)),
		exportLabelStyle.Render(fmt.Sprintf("Files: %d/%d", job.Current, job.Total)),
		m.bar.ViewAs(ratio),
		exportDimStyle.Render(fmt.Sprintf("Elapsed: %s", time.Since(m.started).Round(time.Millisecond))),
	}
	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan api.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return exportStreamDoneMsg{}
		}
		return exportEventMsg(event)
	}
}

var (
	exportTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	exportLabelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	exportDimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
