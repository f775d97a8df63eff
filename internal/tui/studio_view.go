package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"darkroom/internal/adjust"
	"darkroom/internal/session"
)

const sliderWidth = 20

func (m StudioModel) View() string {
	var b strings.Builder

	b.WriteString(studioTitleStyle.Render("darkroom studio"))
	b.WriteString("\n\n")

	b.WriteString(m.viewFiles())
	b.WriteString("\n")
	b.WriteString(m.viewAdjustments())
	b.WriteString("\n")
	b.WriteString(m.viewPreview())
	b.WriteString("\n")
	b.WriteString(m.viewExport())

	if m.naming {
		b.WriteString("\n")
		b.WriteString(studioLabelStyle.Render("export as: "))
		b.WriteString(m.nameInput.View())
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(studioWarnStyle.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(studioDimStyle.Render(
		"[/] file  ↑↓ field  ←→ adjust  space select  a all  c compare  ,. slider  p preset  r reset  e export  x delete  q quit"))
	return b.String()
}

func (m StudioModel) viewFiles() string {
	files := m.session.Registry.Files()
	lines := []string{studioHeadStyle.Render("Files")}

	if m.uploading > 0 {
		lines = append(lines, m.spin.View()+studioDimStyle.Render(fmt.Sprintf(" uploading %d file(s)...", m.uploading)))
	}
	if len(files) == 0 && m.uploading == 0 {
		lines = append(lines, studioDimStyle.Render("  no files"))
	}

	active := m.session.Preview.ActiveFile()
	for _, f := range files {
		marker := "  "
		if f.ID == active {
			marker = studioAccentStyle.Render("> ")
		}
		check := "[ ]"
		if f.Selected {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", marker, check, f.Filename)
		if info, ok := m.meta[f.ID]; ok && !info.Empty() {
			detail := info.CameraModel
			if !info.CapturedAt.IsZero() {
				if detail != "" {
					detail += ", "
				}
				detail += info.CapturedAt.Format("2006-01-02 15:04")
			}
			line += studioDimStyle.Render("  (" + detail + ")")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m StudioModel) viewAdjustments() string {
	lines := []string{studioHeadStyle.Render("Adjustments")}
	settings := m.session.Settings.Get()

	for i, field := range adjust.Fields {
		cursor := "  "
		if i == m.fieldCursor {
			cursor = studioAccentStyle.Render("> ")
		}
		value := field.Value(settings)
		lines = append(lines, fmt.Sprintf("%s%-10s %s %s",
			cursor, field.Name, renderSlider(field, value), fmt.Sprintf("%.2f", value)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m StudioModel) viewPreview() string {
	compare := m.session.Compare.View()
	if compare.Mode {
		lines := []string{studioHeadStyle.Render("Compare")}
		before := "fetching baseline..."
		if compare.BeforeOK {
			before = fmt.Sprintf("baseline %s", byteCount(len(compare.Before)))
		}
		after := "no preview yet"
		if compare.AfterOK {
			after = fmt.Sprintf("adjusted %s", byteCount(len(compare.After)))
		}
		lines = append(lines,
			fmt.Sprintf("  %s | %s", before, after),
			"  "+renderDivider(compare.Position),
		)
		return strings.Join(lines, "\n") + "\n"
	}

	lines := []string{studioHeadStyle.Render("Preview")}
	if img, ok := m.session.Preview.CurrentPreview(); ok {
		lines = append(lines, studioLabelStyle.Render(fmt.Sprintf("  %s rendered", byteCount(len(img)))))
	} else if m.session.Preview.ActiveFile() == "" {
		lines = append(lines, studioDimStyle.Render("  no active file"))
	} else {
		lines = append(lines, m.spin.View()+studioDimStyle.Render(" rendering..."))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m StudioModel) viewExport() string {
	job := m.session.Batch.Job()
	if job == nil {
		return ""
	}

	lines := []string{studioHeadStyle.Render("Export")}
	switch job.Status {
	case session.BatchStarting:
		lines = append(lines, m.spin.View()+studioDimStyle.Render(" starting..."))
	case session.BatchRunning:
		ratio := 0.0
		if job.Total > 0 {
			ratio = float64(job.Current) / float64(job.Total)
		}
		current := job.CurrentFile
		if current == "" {
			current = "..."
		}
		lines = append(lines,
			m.spin.View()+studioLabelStyle.Render(fmt.Sprintf(" %s (%d/%d)", current, job.Current, job.Total)),
			"  "+m.bar.ViewAs(ratio),
		)
	case session.BatchComplete:
		lines = append(lines, studioOKStyle.Render("  "+m.session.Batch.Summary()))
		for _, r := range job.Results {
			mark := studioOKStyle.Render("+")
			if !r.Success {
				mark = studioWarnStyle.Render("-")
			}
			lines = append(lines, fmt.Sprintf("  %s %s", mark, r.Filename))
		}
	case session.BatchFailed:
		lines = append(lines, studioWarnStyle.Render("  failed: "+job.FailureReason))
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderSlider(field adjust.FieldSpec, value float64) string {
	span := field.Max - field.Min
	pos := 0
	if span > 0 {
		pos = int((value - field.Min) / span * float64(sliderWidth-1))
	}
	if pos < 0 {
		pos = 0
	}
	if pos > sliderWidth-1 {
		pos = sliderWidth - 1
	}
	return "[" + strings.Repeat("─", pos) + "●" + strings.Repeat("─", sliderWidth-1-pos) + "]"
}

func renderDivider(percent float64) string {
	pos := int(percent / 100 * float64(sliderWidth-1))
	return fmt.Sprintf("[%s|%s] %.0f%%",
		strings.Repeat("◀", pos), strings.Repeat("▶", sliderWidth-1-pos), percent)
}

func byteCount(n int) string {
	if n >= 1024*1024 {
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
	if n >= 1024 {
		return fmt.Sprintf("%.0f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d B", n)
}

var (
	studioTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	studioHeadStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccentAlt)
	studioLabelStyle  = lipgloss.NewStyle().Foreground(ColorInk)
	studioDimStyle    = lipgloss.NewStyle().Foreground(ColorDim)
	studioAccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	studioOKStyle     = lipgloss.NewStyle().Foreground(ColorSuccess)
	studioWarnStyle   = lipgloss.NewStyle().Foreground(ColorError)
)
