package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackchuka/gitactivity/internal/model"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case animTickMsg:
		m.advanceAnimation()
		if m.animating() {
			return m, m.nextFrame()
		}
		m.anim.running = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case reposLoadedMsg:
		previous := m.repos
		m.repos = msg.repos
		m.scanWarnings = msg.warnings
		m.phase = PhaseLoading

		known := make(map[string]bool, len(m.repos))
		for _, r := range m.repos {
			known[r.Path] = true
		}
		// Forget repos that vanished since the last scan
		for p := range m.selected {
			if !known[p] {
				delete(m.selected, p)
			}
		}
		m.buildRows()

		if m.watcher != nil {
			for _, r := range previous {
				if !known[r.Path] {
					m.watcher.Unwatch(r.Path)
				}
			}
			for _, r := range m.repos {
				_ = m.watcher.Watch(r.Path)
			}
		}

		if len(m.repos) > 0 {
			return m, tea.Batch(m.loadSummaries(), m.ensureAnimTick())
		}
		m.phase = PhaseIdle
		return m, nil

	case summariesLoadedMsg:
		if m.phase == PhaseLoading {
			m.phase = PhaseIdle
		}
		for i := range m.repos {
			if s, ok := msg.summaries[m.repos[i].Path]; ok {
				m.repos[i].Summary = s
			}
		}
		m.buildRows()
		return m, nil

	case analysisDoneMsg:
		m.phase = PhaseIdle
		m.runCancel = nil
		res := msg.result
		m.result = &res
		m.runPaths = msg.paths
		m.screen = ScreenResult

		switch res.Outcome() {
		case model.OutcomeArtifact:
			return m, m.addToast("Chart generated", ToastSuccess)
		case model.OutcomeFailure:
			return m, m.addToast("Analysis failed", ToastError)
		}
		return m, nil

	case repoChangedMsg:
		m.anim.flash[msg.path] = 0
		return m, tea.Batch(
			m.refreshRepo(msg.path),
			m.listenForChanges(),
			m.addToast("New commits in "+m.repoName(msg.path), ToastInfo),
			m.ensureAnimTick(),
		)

	case errMsg:
		if m.phase != PhaseRunning {
			m.phase = PhaseIdle
		}
		return m, m.addToast("Error: "+msg.err.Error(), ToastError)

	case toastExpiredMsg:
		m.dropToast(msg.id)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes the help overlay
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) && !m.filterMode {
		m.showHelp = true
		return m, nil
	}

	if m.screen == ScreenResult {
		return m.handleResultKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.screen = ScreenList

	case key.Matches(msg, m.keys.Rerun):
		if m.phase == PhaseRunning || len(m.runPaths) == 0 {
			return m, nil
		}
		return m, tea.Batch(m.runAnalysis(m.runPaths), m.ensureAnimTick())

	case key.Matches(msg, m.keys.Open):
		if m.result != nil && m.result.HasArtifact() {
			return m, m.openArtifact(m.result.ArtifactPath)
		}
		return m, m.addToast("No chart to open", ToastInfo)

	case key.Matches(msg, m.keys.CopyPath):
		if m.result != nil && m.result.HasArtifact() {
			return m, tea.Batch(
				m.copyToClipboard(m.result.ArtifactPath),
				m.addToast("Copied chart path", ToastInfo),
			)
		}
		return m, m.addToast("No chart path to copy", ToastInfo)
	}

	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filterMode {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-len(m.rows))
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(len(m.rows))
	case key.Matches(msg, m.keys.HalfDown):
		m.moveCursor(m.visibleRows() / 2)
	case key.Matches(msg, m.keys.HalfUp):
		m.moveCursor(-m.visibleRows() / 2)

	case key.Matches(msg, m.keys.Filter):
		m.filterMode = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Escape):
		if m.filterText != "" {
			m.clearFilter()
		} else if m.result != nil {
			m.screen = ScreenResult
		}

	// Selection
	case key.Matches(msg, m.keys.Toggle):
		if repo := m.selectedRepo(); repo != nil {
			m.toggleSelected(repo.Path)
			m.moveCursor(1)
		}

	case key.Matches(msg, m.keys.SelectAll):
		m.toggleAll()

	// Actions
	case key.Matches(msg, m.keys.Run):
		if m.phase == PhaseRunning || m.phase == PhaseScanning {
			return m, nil
		}
		paths := m.selectedPaths()
		if len(paths) == 0 {
			return m, m.addToast("No repository to analyze", ToastInfo)
		}
		return m, tea.Batch(m.runAnalysis(paths), m.ensureAnimTick())

	case key.Matches(msg, m.keys.Rescan):
		if m.phase == PhaseRunning {
			return m, nil
		}
		m.phase = PhaseScanning
		return m, tea.Batch(m.loadRepos(), m.ensureAnimTick())

	case key.Matches(msg, m.keys.CopyPath):
		if repo := m.selectedRepo(); repo != nil {
			return m, tea.Batch(
				m.copyToClipboard(repo.Path),
				m.addToast(fmt.Sprintf("Copied %s path", repo.DisplayName()), ToastInfo),
			)
		}
	}

	return m, nil
}

// handleFilterKey edits the filter live; enter keeps it, esc drops it.
func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) {
		m.filterMode = false
		m.clearFilter()
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterText = strings.TrimSpace(m.filterInput.Value())
	m.buildRows()
	return m, cmd
}

func (m *Model) clearFilter() {
	m.filterInput.Reset()
	m.filterInput.Blur()
	m.filterText = ""
	m.buildRows()
}

// visibleRows is the number of table rows that fit between the two-line
// header, the column titles and the two-line footer.
func (m *Model) visibleRows() int {
	return max(m.height-5, 1)
}
