package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jackchuka/gitactivity/internal/model"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	body := m.renderTable()
	switch {
	case m.showHelp:
		body = m.renderHelp()
	case m.screen == ScreenResult:
		body = m.renderResult()
	}

	view := lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
	view = lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, view)

	if len(m.toasts) > 0 {
		stack := m.renderToasts()
		x := m.width - lipgloss.Width(stack) - 2
		y := m.height - lipgloss.Height(stack) - 2
		view = placeOverlay(x, y, stack, view)
	}
	return view
}

// bodyHeight is the number of lines between header and footer.
func (m *Model) bodyHeight() int {
	return m.visibleRows() + 1
}

func (m *Model) renderHeader() string {
	left := styleTitle.Render("gitactivity")
	if label := m.phaseLabel(); label != "" {
		left += "  " + renderBusy(m.anim.frame) + " " + label
	}
	switch {
	case m.filterMode:
		left += "  " + m.filterInput.View()
	case m.filterText != "":
		left += "  " + styleDim.Render("/"+m.filterText)
	}

	count := func(label string, n int, c lipgloss.Color) string {
		return styleDim.Render(label+" ") + lipgloss.NewStyle().Bold(true).Foreground(c).Render(fmt.Sprint(n))
	}
	stats := []string{count("repos", len(m.repos), colorText)}
	if n := len(m.selected); n > 0 {
		stats = append(stats, count("picked", n, colorMark))
	}
	if m.scanWarnings > 0 {
		stats = append(stats, count("unreadable", m.scanWarnings, colorNotice))
	}
	stats = append(stats, styleDim.Render(m.cfg.StartDate+" → "+m.cfg.EndDate))
	right := strings.Join(stats, "  ")

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right + "\n" + rule(m.width)
}

func (m *Model) phaseLabel() string {
	switch m.phase {
	case PhaseScanning:
		return "Discovering repositories..."
	case PhaseLoading:
		return "Reading branches..."
	case PhaseRunning:
		return "Analyzing " + m.runLabel() + "..."
	}
	return ""
}

func (m *Model) runLabel() string {
	if len(m.runPaths) == 1 {
		return m.repoName(m.runPaths[0])
	}
	return fmt.Sprintf("%d repositories", len(m.runPaths))
}

func rule(width int) string {
	return styleDim.Render(strings.Repeat("─", width))
}

type layout struct {
	name, branch, age, path int
}

func newLayout(width int) layout {
	usable := max(width-2, 40)
	l := layout{
		name:   max(usable*3/10, 12),
		branch: max(usable*2/10, 8),
		age:    max(usable/8, 11),
	}
	l.path = usable - l.name - l.branch - l.age
	return l
}

func (m *Model) renderTable() string {
	height := m.bodyHeight()
	if len(m.rows) == 0 {
		return padLines("\n "+styleDim.Render(m.emptyMessage()), m.width, height)
	}

	l := newLayout(m.width)
	lines := []string{" " +
		styleColumn.Render(padRight("REPOSITORY", l.name)) +
		styleColumn.Render(padRight("BRANCH", l.branch)) +
		styleColumn.Render(padRight("LAST COMMIT", l.age)) +
		styleColumn.Render(padRight("PATH", l.path))}

	first, last := m.window(m.visibleRows())
	now := time.Now()
	for i := first; i < last; i++ {
		lines = append(lines, m.renderRow(i, l, now))
	}
	return padLines(strings.Join(lines, "\n"), m.width, height)
}

func (m *Model) emptyMessage() string {
	switch {
	case m.phase == PhaseScanning:
		return "Looking for repositories..."
	case m.filterText != "":
		return "Nothing matches " + m.filterText
	}
	return "No git repositories found under " + strings.Join(m.folders, ", ")
}

// window scrolls the table so the cursor stays visible and returns the
// range of rows to draw.
func (m *Model) window(visible int) (first, last int) {
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	m.scrollOffset = max(m.scrollOffset, 0)
	return m.scrollOffset, min(m.scrollOffset+visible, len(m.rows))
}

func (m *Model) renderRow(i int, l layout, now time.Time) string {
	repo := m.rows[i].Repo
	cursor := i == m.cursor

	base := lipgloss.NewStyle()
	switch {
	case cursor:
		base = base.Background(colorCursorBg)
	case i%2 == 1:
		base = base.Background(colorStripe)
	}
	on := func(s lipgloss.Style) lipgloss.Style { return s.Inherit(base) }

	edge := " "
	step, flashing := m.anim.flash[repo.Path]
	if flashing {
		edge = lipgloss.NewStyle().Foreground(commitFlash[step]).Render("▎")
	}

	mark := on(styleDim).Render(iconUnpicked)
	if m.selected[repo.Path] {
		mark = on(styleMark).Render(iconPicked)
	}

	nameStyle := on(styleName)
	if cursor && !flashing {
		nameStyle = nameStyle.Foreground(colorCursorFg)
	}
	nameWidth := l.name - 5
	parent := ""
	if repo.IsWorktree && repo.MainWorktree != "" {
		if i > 0 && m.rows[i-1].Repo.Path == repo.MainWorktree {
			parent = "└ "
		} else {
			parent = filepath.Base(repo.MainWorktree) + "/"
		}
		nameWidth -= lipgloss.Width(parent)
		parent = on(styleDim).Render(parent)
	}
	space := base.Render(" ")
	name := base.Width(l.name).Render(mark + space + m.stateIcon(repo, on) + space +
		parent + nameStyle.Render(truncate(repo.DisplayName(), nameWidth)))

	branch := on(styleDim).Width(l.branch).Render("...")
	age := base.Width(l.age).Render("")
	if s := repo.Summary; s != nil {
		branch = on(styleBranch).Width(l.branch).Render(truncate(s.BranchLabel(), l.branch-1))
		a := s.CommitAge(now)
		if a == "" {
			a = "no commits"
		}
		age = on(styleDim).Width(l.age).Render(a)
	}
	path := on(styleDim).Width(l.path).Render(truncate(repo.Path, l.path-1))

	return edge + name + branch + age + path
}

// stateIcon shows worktree-ness and, once the summary is known, whether
// the working tree is dirty.
func (m *Model) stateIcon(repo *model.Repository, on func(lipgloss.Style) lipgloss.Style) string {
	s := repo.Summary
	if s == nil {
		return on(styleDim).Render("·")
	}
	icon, style := iconRepo, styleOK
	if repo.IsWorktree {
		icon = iconWorktree
	}
	if s.Dirty {
		icon, style = iconRepoDirty, styleNotice
		if repo.IsWorktree {
			icon = iconWorktreeDirty
		}
	}
	return on(style).Render(icon)
}

func (m *Model) renderResult() string {
	height := m.bodyHeight()
	res := m.result
	if res == nil {
		return padLines(" "+styleDim.Render("No analysis yet"), m.width, height)
	}

	mode := model.ModeSingleRepo
	if len(m.runPaths) > 1 {
		mode = model.ModeMultiRepo
	}
	summary := styleDim.Render(fmt.Sprintf("%s-repo analysis of %s · took %s",
		mode, m.runLabel(), res.Duration.Round(time.Millisecond)))

	var (
		border lipgloss.Color
		body   []string
	)
	switch res.Outcome() {
	case model.OutcomeArtifact:
		border = colorOK
		body = []string{
			styleOK.Render(iconChart + " Chart generated"),
			"",
			styleName.Render(res.ArtifactPath),
			"",
			styleKey.Render("o") + " open  " + styleKey.Render("y") + " copy path  " + styleKey.Render("r") + " re-run",
		}
	case model.OutcomeNoArtifact:
		border = colorNotice
		body = []string{
			styleNotice.Render(iconInfo + " Analysis finished without a chart"),
			"",
			styleDim.Render("The script exited cleanly but printed no chart path."),
			styleDim.Render("Its output is shown below."),
		}
	default:
		border = colorFail
		body = []string{styleFail.Render(iconFail + " Analysis failed"), "", res.Message}
	}

	box := styleOutcome.BorderForeground(border).Width(max(m.width-8, 20)).Render(strings.Join(body, "\n"))
	out := []string{" " + summary, box}

	if res.Outcome() != model.OutcomeArtifact {
		if tail := outputTail(res.Stdout, 8); tail != "" {
			out = append(out, " "+styleColumn.Render("OUTPUT"))
			for _, l := range strings.Split(tail, "\n") {
				out = append(out, " "+styleDim.Render(truncate(l, m.width-2)))
			}
		}
	}
	return padLines(strings.Join(out, "\n"), m.width, height)
}

// outputTail returns the last n non-blank lines of s.
func outputTail(s string, n int) string {
	var kept []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept[max(len(kept)-n, 0):], "\n")
}

func (m *Model) renderFooter() string {
	type hint struct{ key, desc string }
	var hints []hint
	if m.screen == ScreenResult {
		hints = []hint{{"o", "open"}, {"y", "copy"}, {"r", "re-run"}, {"esc", "back"}}
	} else {
		hints = []hint{{"space", "pick"}, {"a", "all"}, {"enter", "analyze"}, {"/", "filter"}, {"R", "rescan"}}
		if m.result != nil {
			hints = append(hints, hint{"esc", "last result"})
		}
	}
	hints = append(hints, hint{"?", "help"}, hint{"q", "quit"})

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = styleKey.Render(h.key) + " " + h.desc
	}
	return rule(m.width) + "\n " + truncate(strings.Join(parts, "  "), m.width-2)
}

func (m *Model) renderToasts() string {
	boxes := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		border, text := colorAccent, t.Message
		switch t.Level {
		case ToastSuccess:
			border, text = colorOK, iconDone+" "+text
		case ToastError:
			border, text = colorFail, iconAlert+" "+text
		}
		boxes[i] = styleToast.BorderForeground(border).Render(text)
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func (m *Model) renderHelp() string {
	box := styleOutcome.
		BorderForeground(colorAccent).
		Width(52).
		Render(m.keys.helpText() + "\n\n" + styleDim.Render("any key closes this"))
	return lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Center, lipgloss.Center, box)
}

// placeOverlay draws fg over bg with its top-left corner at column x,
// row y. Styled bg lines are split with ansi.Cut so escapes stay intact.
func placeOverlay(x, y int, fg, bg string) string {
	rows := strings.Split(bg, "\n")
	x = max(x, 0)
	for i, over := range strings.Split(fg, "\n") {
		r := y + i
		if r < 0 || r >= len(rows) {
			continue
		}
		under := rows[r]
		width := ansi.StringWidth(under)
		if x >= width {
			rows[r] = under + strings.Repeat(" ", x-width) + over
			continue
		}
		rows[r] = ansi.Cut(under, 0, x) + over + ansi.Cut(under, x+ansi.StringWidth(over), width)
	}
	return strings.Join(rows, "\n")
}

// padLines fits content to exactly height lines of at least width cells.
func padLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padRight(lines[i], width)
	}
	return strings.Join(lines, "\n")
}
