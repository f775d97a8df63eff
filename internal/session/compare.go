package session

// CompareView is everything the presentation layer needs to draw the
// before/after comparison.
type CompareView struct {
	Mode     bool
	Position float64
	Before   []byte
	BeforeOK bool
	After    []byte
	AfterOK  bool
}

// ComparisonController tracks compare-mode state. It performs no network
// activity itself; entering compare mode may yield a baseline fetch for the
// host to execute.
type ComparisonController struct {
	orch     *PreviewOrchestrator
	mode     bool
	position float64
}

func NewComparisonController(orch *PreviewOrchestrator) *ComparisonController {
	return &ComparisonController{orch: orch, position: 50}
}

// SetMode toggles comparison. Every mode change resets the slider to 50%.
// Entering compare mode returns the baseline fetch to issue if the active
// file's baseline is not cached yet.
func (c *ComparisonController) SetMode(on bool) *BaselineRequest {
	if on == c.mode {
		return nil
	}
	c.mode = on
	c.position = 50
	if !on {
		return nil
	}
	return c.orch.EnsureBaseline()
}

// Mode reports whether comparison is engaged.
func (c *ComparisonController) Mode() bool {
	return c.mode
}

// SetSliderPosition moves the divider, clamped to [0, 100].
func (c *ComparisonController) SetSliderPosition(percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c.position = percent
}

// View resolves the current comparison state for rendering.
func (c *ComparisonController) View() CompareView {
	view := CompareView{Mode: c.mode, Position: c.position}
	view.Before, view.BeforeOK = c.orch.Baseline()
	view.After, view.AfterOK = c.orch.CurrentPreview()
	return view
}
