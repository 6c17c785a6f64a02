package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var (
	colorOK     = lipgloss.Color("78")
	colorNotice = lipgloss.Color("214")
	colorFail   = lipgloss.Color("203")
	colorAccent = lipgloss.Color("80")
	colorMark   = lipgloss.Color("221")
	colorText   = lipgloss.Color("252")
	colorMuted  = lipgloss.Color("244")

	colorCursorBg = lipgloss.Color("237")
	colorCursorFg = lipgloss.Color("231")
	colorStripe   = lipgloss.Color("235")
)

// commitFlash is stepped through for a row whose repository just got
// new commits: two blinks, then a fade to the background.
var commitFlash = []lipgloss.Color{
	"48", "236", "48", "236",
	"42", "36", "30", "24", "236",
}

var busyFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	iconRepo          = "○"
	iconRepoDirty     = "●"
	iconWorktree      = "◇"
	iconWorktreeDirty = "◆"
	iconPicked        = "■"
	iconUnpicked      = "□"
	iconChart         = "▦"
	iconInfo          = "ℹ"
	iconDone          = "✓"
	iconAlert         = "!"
	iconFail          = "✗"
)

var (
	styleTitle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorMuted)
	styleName   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	styleBranch = lipgloss.NewStyle().Foreground(colorAccent)
	styleOK     = lipgloss.NewStyle().Foreground(colorOK)
	styleNotice = lipgloss.NewStyle().Foreground(colorNotice)
	styleFail   = lipgloss.NewStyle().Foreground(colorFail).Bold(true)
	styleColumn = lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Underline(true)
	styleMark   = lipgloss.NewStyle().Foreground(colorMark)
	styleKey    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	styleToast   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	styleOutcome = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

func renderBusy(frame int) string {
	return styleTitle.UnsetBold().Render(busyFrames[frame%len(busyFrames)])
}

// truncate shortens s to width cells, ending it with an ellipsis when
// something was cut.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func padRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
