package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"flagdeck/internal/overlay"
	"flagdeck/internal/tour"
)

// tooltipCopy returns the title and body for a tour step.
func tooltipCopy(step tour.Step) (title, body string) {
	switch step {
	case tour.StepWelcome:
		return "Welcome to flagdeck",
			"This console manages your feature flags.\nUse tab or 1-4 to move between panels."
	case tour.StepCreateFlag:
		return "Create your first flag",
			"Press c on the flags panel to open the\ncreate form. Flags are scoped per environment."
	case tour.StepDocumentation:
		return "Integration docs",
			"Press D to open the quick-start guide\nfor wiring the SDK into your service."
	case tour.StepAPIKey:
		return "Generate an API key",
			"Press g on the API Keys panel. The full\nkey is shown exactly once - copy it then."
	}
	return "", ""
}

// preferredSide returns the side a step's tooltip prefers to anchor on.
// The docs link sits at the right edge of the header, so its tooltip opens
// leftward; everything else hangs below its anchor.
func preferredSide(step tour.Step) overlay.Side {
	if step == tour.StepDocumentation {
		return overlay.SideLeft
	}
	return overlay.SideBottom
}

// renderTooltip renders the bordered tooltip box for a step.
func (m Model) renderTooltip(step tour.Step) string {
	title, body := tooltipCopy(step)
	if title == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(tooltipTitleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render(fmt.Sprintf("step %d/4   .:next  ,:back  x:skip", int(step)+1)))
	return tooltipStyle.Render(sb.String())
}

// overlayTooltip composites the current step's tooltip onto the base view
// at the position the placement math resolves. The anchor highlight is set
// before the base renders (see renderView); this only handles placement.
func (m Model) overlayTooltip(base string) string {
	step := m.Tour.Step()
	name := stepTarget(step)

	target, ok := m.Targets.Lookup(name)
	if !ok {
		// Anchor not on screen: no tooltip, and no stale highlight either.
		m.Targets.ClearHighlight()
		return base
	}

	tip := m.renderTooltip(step)
	if tip == "" {
		return base
	}

	tipRect := overlay.Rect{W: lipgloss.Width(tip), H: lipgloss.Height(tip)}
	viewport := overlay.Rect{X: 0, Y: 0, W: m.Width, H: m.Height}

	pos, _ := overlay.Place(target, tipRect, preferredSide(step), viewport, nil)

	return compositeAt(base, tip, pos.X, pos.Y, m.Width)
}

// compositeAt overlays tip onto base with its top-left corner at (x, y),
// preserving the styling of the base text around it. Width-aware: base rows
// are cut on display cells, not bytes.
func compositeAt(base, tip string, x, y, width int) string {
	baseLines := strings.Split(base, "\n")
	tipLines := strings.Split(tip, "\n")
	tipWidth := 0
	for _, l := range tipLines {
		if w := ansi.StringWidth(l); w > tipWidth {
			tipWidth = w
		}
	}

	for i, tipLine := range tipLines {
		row := y + i
		if row < 0 {
			continue
		}
		for row >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		baseLines[row] = compositeRow(baseLines[row], tipLine, x, tipWidth, width)
	}

	return strings.Join(baseLines, "\n")
}

// compositeRow splices one tooltip line into one base row at column x.
func compositeRow(baseRow, tipLine string, x, tipWidth, width int) string {
	if x < 0 {
		x = 0
	}

	left := ansi.Truncate(baseRow, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	right := ansi.TruncateLeft(baseRow, x+tipWidth, "")

	// Pad the tooltip line to its box width so the underlying text never
	// bleeds through mid-box.
	if pad := tipWidth - ansi.StringWidth(tipLine); pad > 0 {
		tipLine += strings.Repeat(" ", pad)
	}

	row := left + tipLine + right
	if width > 0 {
		row = ansi.Truncate(row, width, "")
	}
	return row
}
