package console

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"flagdeck/internal/overlay"
	"flagdeck/internal/statefile"
	"flagdeck/internal/tour"
)

func TestCompositeRowSplicesAtColumn(t *testing.T) {
	base := strings.Repeat("a", 20)
	got := compositeRow(base, "XXX", 5, 3, 20)
	want := "aaaaaXXXaaaaaaaaaaaa"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompositeRowPadsShortBase(t *testing.T) {
	got := compositeRow("ab", "XX", 5, 2, 20)
	want := "ab   XX"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompositeRowPadsShortTipLine(t *testing.T) {
	base := strings.Repeat("b", 10)
	// Tip box is 4 wide but this line is 2: the box interior must still
	// cover the base text.
	got := compositeRow(base, "XX", 3, 4, 10)
	want := "bbbXX  bbb"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCompositeRowPreservesStyledBase(t *testing.T) {
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render(strings.Repeat("c", 12))
	got := compositeRow(styled, "XX", 4, 2, 12)
	if w := ansi.StringWidth(got); w != 12 {
		t.Errorf("width = %d, want 12", w)
	}
	plain := ansi.Strip(got)
	if plain != "ccccXXcccccc" {
		t.Errorf("plain = %q", plain)
	}
}

func TestCompositeAtPlacesEveryTipLine(t *testing.T) {
	var baseLines []string
	for i := 0; i < 10; i++ {
		baseLines = append(baseLines, strings.Repeat(".", 30))
	}
	base := strings.Join(baseLines, "\n")

	tip := "AAA\nBBB"
	out := compositeAt(base, tip, 10, 4, 30)
	outLines := strings.Split(out, "\n")

	if !strings.Contains(outLines[4], "AAA") || !strings.Contains(outLines[5], "BBB") {
		t.Errorf("tip rows not placed:\n%s", out)
	}
	if strings.Contains(outLines[3], "AAA") || strings.Contains(outLines[6], "BBB") {
		t.Error("tip bled outside its rows")
	}
}

func TestCompositeAtExtendsBaseWhenTipHangsPast(t *testing.T) {
	out := compositeAt("one line", "XX\nYY", 0, 1, 20)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "YY") {
		t.Errorf("hanging tip row missing:\n%s", out)
	}
}

func TestOverlayTooltipAnchorsBelowTarget(t *testing.T) {
	m := NewModel(&fakeAPI{}, statefile.New(t.TempDir()), "test")
	m.Width, m.Height = 120, 80

	// A wide, tall view with an anchor far enough from the top edge that
	// the edge-margin clamp stays out of the way.
	m.Targets.Register("nav", overlay.Rect{X: 30, Y: 10, W: 10, H: 1})
	var rows []string
	for i := 0; i < 80; i++ {
		rows = append(rows, strings.Repeat(" ", 120))
	}
	base := strings.Join(rows, "\n")

	out := m.overlayTooltip(base)
	if out == base {
		t.Fatal("welcome tooltip should render")
	}

	// Bottom placement: box top row = target bottom + anchor gap; the
	// title sits one row further down, inside the border.
	lines := strings.Split(out, "\n")
	tipRow := 11 + overlay.AnchorGap
	if !strings.Contains(ansi.Strip(lines[tipRow+1]), "Welcome") {
		t.Errorf("tooltip title not at row %d:\n%s", tipRow+1, ansi.Strip(lines[tipRow+1]))
	}
}

func TestOverlayTooltipMissingAnchorClearsHighlight(t *testing.T) {
	m := NewModel(&fakeAPI{}, statefile.New(t.TempDir()), "test")
	m.Width, m.Height = 120, 40

	m.Targets.Register("nav", overlay.Rect{X: 30, Y: 2, W: 10, H: 1})
	m.Targets.Highlight("nav")
	if !m.Targets.Highlighted("nav") {
		t.Fatal("setup: highlight expected")
	}

	// Advance to a step whose anchor is not registered.
	m.Tour.Next()
	out := m.overlayTooltip("base")
	if out != "base" {
		t.Error("missing anchor should render nothing")
	}
	if m.Targets.Highlighted("nav") {
		t.Error("stale highlight must be cleared")
	}
}

func TestStepTargetsAndRoutes(t *testing.T) {
	tests := []struct {
		step   tour.Step
		target string
		route  string
	}{
		{tour.StepWelcome, "nav", ""},
		{tour.StepCreateFlag, "new-flag-button", "flags"},
		{tour.StepDocumentation, "docs-link", "docs"},
		{tour.StepAPIKey, "generate-key-button", "api-keys"},
	}

	for _, tt := range tests {
		if got := stepTarget(tt.step); got != tt.target {
			t.Errorf("stepTarget(%v) = %q, want %q", tt.step, got, tt.target)
		}
		if got := stepRoute(tt.step); got != tt.route {
			t.Errorf("stepRoute(%v) = %q, want %q", tt.step, got, tt.route)
		}
	}

	// The welcome step shows on any route; pinned steps only on theirs.
	if !RouteMatches(tour.StepWelcome, "api-keys") {
		t.Error("welcome should match every route")
	}
	if RouteMatches(tour.StepAPIKey, "flags") {
		t.Error("api-key step should not match flags")
	}
	if !RouteMatches(tour.StepAPIKey, "api-keys") {
		t.Error("api-key step should match its route")
	}
}
