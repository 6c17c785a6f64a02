package tui

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/jackchuka/gitactivity/internal/analysis"
	"github.com/jackchuka/gitactivity/internal/config"
	"github.com/jackchuka/gitactivity/internal/desktop"
	"github.com/jackchuka/gitactivity/internal/model"
	"github.com/jackchuka/gitactivity/internal/scanner"
	"github.com/jackchuka/gitactivity/internal/status"
	"github.com/jackchuka/gitactivity/internal/watcher"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseScanning
	PhaseLoading
	PhaseRunning
)

type Screen int

const (
	ScreenList Screen = iota
	ScreenResult
)

type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

type Toast struct {
	ID        int
	Message   string
	Level     ToastLevel
	CreatedAt time.Time
}

type TableRow struct {
	Repo *model.Repository
}

// animation drives the busy indicator and the commit flash on rows whose
// repository just moved. flash maps a repo path to its commitFlash step.
type animation struct {
	frame   int
	flash   map[string]int
	running bool
}

// analyzer runs one analysis; *analysis.Orchestrator satisfies it.
type analyzer interface {
	Run(ctx context.Context, req model.AnalysisRequest) model.AnalysisResult
}

type Model struct {
	cfg     *config.Config
	folders []string
	logger  *log.Logger

	repos    []model.Repository
	rows     []TableRow
	cursor   int
	selected map[string]bool

	width, height int
	scrollOffset  int

	phase        Phase
	screen       Screen
	filterMode   bool
	filterInput  textinput.Model
	filterText   string
	showHelp     bool
	scanWarnings int

	result   *model.AnalysisResult
	runPaths []string

	anim   animation
	toasts []Toast

	scanner     scanner.Scanner
	reader      status.Reader
	analyzer    analyzer
	watcher     watcher.RepoWatcher
	watchCancel context.CancelFunc
	runCancel   context.CancelFunc

	keys        keyMap
	nextToastID int
}

// NewModel wires the list to a Walker over folders, a git summary reader
// and an analysis orchestrator. Commits are watched only when
// cfg.PollInterval is positive.
func NewModel(cfg *config.Config, folders []string, logger *log.Logger) *Model {
	m := &Model{
		cfg:         cfg,
		folders:     folders,
		logger:      logger,
		selected:    make(map[string]bool),
		keys:        newKeyMap(),
		scanner:     scanner.NewWalker(cfg.ScanConfig(), logger),
		reader:      status.NewGitReader(),
		analyzer:    analysis.New(cfg, analysis.WithLogger(logger)),
		filterInput: textinput.New(),
		anim:        animation{flash: make(map[string]int)},
	}
	m.filterInput.Placeholder = "name or path"
	m.filterInput.CharLimit = 64
	if cfg.PollInterval > 0 {
		m.watcher = watcher.NewPoller(cfg.PollInterval)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	m.phase = PhaseScanning
	m.anim.running = true
	startup := []tea.Cmd{m.loadRepos(), func() tea.Msg { return animTickMsg{} }}
	if m.watcher != nil {
		startup = append(startup, m.startWatcher())
	}
	return tea.Batch(startup...)
}

type reposLoadedMsg struct {
	repos    []model.Repository
	warnings int
}
type summariesLoadedMsg struct{ summaries map[string]*model.RepoSummary }
type analysisDoneMsg struct {
	result model.AnalysisResult
	paths  []string
}
type repoChangedMsg struct{ path string }
type errMsg struct{ err error }
type animTickMsg struct{}
type toastExpiredMsg struct{ id int }

// buildRows rebuilds the visible table from m.repos and the filter text.
func (m *Model) buildRows() {
	visible := make([]model.Repository, 0, len(m.repos))
	for _, r := range m.repos {
		if m.matchesFilter(r) {
			visible = append(visible, r)
		}
	}
	sortRepos(visible)

	m.rows = make([]TableRow, len(visible))
	for i := range visible {
		m.rows[i].Repo = &visible[i]
	}
	m.moveCursor(0)
}

func (m *Model) matchesFilter(r model.Repository) bool {
	if m.filterText == "" {
		return true
	}
	needle := strings.ToLower(m.filterText)
	return strings.Contains(strings.ToLower(r.DisplayName()), needle) ||
		strings.Contains(strings.ToLower(r.Path), needle)
}

// moveCursor shifts the cursor by delta rows, clamped to the table.
func (m *Model) moveCursor(delta int) {
	m.cursor = min(m.cursor+delta, len(m.rows)-1)
	m.cursor = max(m.cursor, 0)
}

func (m *Model) selectedRepo() *model.Repository {
	if m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Repo
}

// selectedPaths returns the checked repositories in discovery order, or
// the repository under the cursor when nothing is checked.
func (m *Model) selectedPaths() []string {
	var paths []string
	for _, r := range m.repos {
		if m.selected[r.Path] {
			paths = append(paths, r.Path)
		}
	}
	if len(paths) > 0 {
		return paths
	}
	if repo := m.selectedRepo(); repo != nil {
		return []string{repo.Path}
	}
	return nil
}

func (m *Model) toggleSelected(path string) {
	if m.selected[path] {
		delete(m.selected, path)
		return
	}
	m.selected[path] = true
}

// toggleAll checks every visible row, or clears the selection when all
// visible rows are already checked.
func (m *Model) toggleAll() {
	all := len(m.rows) > 0
	for _, row := range m.rows {
		if !m.selected[row.Repo.Path] {
			all = false
			break
		}
	}
	for _, row := range m.rows {
		if all {
			delete(m.selected, row.Repo.Path)
		} else {
			m.selected[row.Repo.Path] = true
		}
	}
}

func (m *Model) repoName(path string) string {
	for _, r := range m.repos {
		if r.Path == path {
			return r.DisplayName()
		}
	}
	return path
}

const (
	toastTTL  = 3 * time.Second
	frameRate = 100 * time.Millisecond
)

// addToast shows msg until toastTTL passes.
func (m *Model) addToast(msg string, level ToastLevel) tea.Cmd {
	t := Toast{ID: m.nextToastID, Message: msg, Level: level, CreatedAt: time.Now()}
	m.nextToastID++
	m.toasts = append(m.toasts, t)
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{t.ID} })
}

func (m *Model) dropToast(id int) {
	m.toasts = slices.DeleteFunc(m.toasts, func(t Toast) bool { return t.ID == id })
}

// advanceAnimation moves one frame; a commit flash steps every third frame.
func (m *Model) advanceAnimation() {
	m.anim.frame++
	if m.anim.frame%3 != 0 {
		return
	}
	for path, step := range m.anim.flash {
		if step+1 >= len(commitFlash) {
			delete(m.anim.flash, path)
			continue
		}
		m.anim.flash[path] = step + 1
	}
}

func (m *Model) animating() bool {
	return m.phase != PhaseIdle || len(m.anim.flash) > 0
}

func (m *Model) nextFrame() tea.Cmd {
	m.anim.running = true
	return tea.Tick(frameRate, func(time.Time) tea.Msg { return animTickMsg{} })
}

// ensureAnimTick starts the frame loop unless it is already running.
func (m *Model) ensureAnimTick() tea.Cmd {
	if m.anim.running {
		return nil
	}
	return m.nextFrame()
}

func (m *Model) loadRepos() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, err := m.scanner.DiscoverAll(ctx, m.folders)
		if err != nil {
			return errMsg{err}
		}
		return reposLoadedMsg{repos: res.Repos, warnings: len(res.Errors)}
	}
}

func (m *Model) loadSummaries() tea.Cmd {
	paths := model.Paths(m.repos)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		summaries, errs := m.reader.GetSummaryBatch(ctx, paths)
		for path, err := range errs {
			m.logger.Debug("cannot read summary", "path", path, "err", err)
		}
		return summariesLoadedMsg{summaries}
	}
}

func (m *Model) refreshRepo(path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s, err := m.reader.GetSummary(ctx, path)
		if err != nil {
			return errMsg{err}
		}
		return summariesLoadedMsg{map[string]*model.RepoSummary{path: s}}
	}
}

// runAnalysis starts one analysis over paths. The request is built here
// so an empty selection never reaches the orchestrator.
func (m *Model) runAnalysis(paths []string) tea.Cmd {
	req, err := model.NewAnalysisRequest(paths, m.cfg.StartDate, m.cfg.EndDate)
	if err != nil {
		return m.addToast(err.Error(), ToastError)
	}

	m.phase = PhaseRunning
	m.runPaths = req.RepoPaths

	ctx, cancel := context.WithCancel(context.Background())
	m.runCancel = cancel
	a := m.analyzer
	return func() tea.Msg {
		defer cancel()
		return analysisDoneMsg{result: a.Run(ctx, req), paths: req.RepoPaths}
	}
}

func (m *Model) startWatcher() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel
	go m.watcher.Run(ctx)
	return m.listenForChanges()
}

func (m *Model) listenForChanges() tea.Cmd {
	return func() tea.Msg {
		if m.watcher == nil {
			return nil
		}
		event, ok := <-m.watcher.Events()
		if !ok {
			return nil
		}
		return repoChangedMsg{path: event.RepoPath}
	}
}

func (m *Model) openArtifact(path string) tea.Cmd {
	return func() tea.Msg {
		if err := desktop.Open(path); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m *Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := desktop.Copy(text); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// sortRepos orders by path, keeping each worktree right after its main
// repository.
func sortRepos(repos []model.Repository) {
	group := func(r model.Repository) string {
		if r.IsWorktree && r.MainWorktree != "" {
			return r.MainWorktree
		}
		return r.Path
	}
	rank := func(r model.Repository) int {
		if r.IsWorktree {
			return 1
		}
		return 0
	}
	slices.SortStableFunc(repos, func(a, b model.Repository) int {
		return cmp.Or(
			cmp.Compare(group(a), group(b)),
			cmp.Compare(rank(a), rank(b)),
			cmp.Compare(a.DisplayName(), b.DisplayName()),
		)
	})
}

// Run starts the full-screen program and blocks until the user quits.
// The last chart path, if any, is printed once the alternate screen is gone.
func Run(cfg *config.Config, folders []string, logger *log.Logger) error {
	m := NewModel(cfg, folders, logger)
	defer m.shutdown()

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	if m.result != nil && m.result.HasArtifact() {
		fmt.Println(m.result.ArtifactPath)
	}
	return nil
}

func (m *Model) shutdown() {
	for _, cancel := range []context.CancelFunc{m.runCancel, m.watchCancel} {
		if cancel != nil {
			cancel()
		}
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}
