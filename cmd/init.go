package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jackchuka/gitactivity/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up the script directory and workspace folders interactively",
	// Skip config loading so a broken file can be replaced
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

var analysisScripts = []string{"gitstat.sh", "gitstat-multi.sh"}

type wizardStep int

const (
	stepWelcome wizardStep = iota
	stepOverwrite
	stepScripts
	stepFolders
	stepConfirm
	stepDone
)

type initModel struct {
	step       wizardStep
	configPath string
	exists     bool

	scriptInput textinput.Model
	scriptDir   string
	scriptWarn  string

	folderInput textinput.Model
	folders     []string
	missing     map[string]bool
	needFolder  bool

	cancelled bool
	err       error
}

func newInitModel(configPath string, exists bool) *initModel {
	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 256
		ti.Width = 50
		return ti
	}
	return &initModel{
		step:        stepWelcome,
		configPath:  configPath,
		exists:      exists,
		scriptInput: newInput("~/tools/gitstat"),
		folderInput: newInput("~/src"),
		missing:     make(map[string]bool),
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	_, statErr := os.Stat(path)

	final, err := tea.NewProgram(newInitModel(path, statErr == nil)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*initModel); ok {
		return m.err
	}
	return nil
}

func (m *initModel) Init() tea.Cmd { return nil }

func (m *initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if km.Type == tea.KeyCtrlC {
		return m.cancel()
	}

	switch m.step {
	case stepWelcome:
		return m.updateWelcome(km)
	case stepOverwrite:
		if s := km.String(); s == "y" || s == "Y" {
			return m, m.focusScripts()
		}
		return m.cancel()
	case stepScripts:
		return m.updateScripts(km)
	case stepFolders:
		return m.updateFolders(km)
	case stepConfirm:
		return m.updateConfirm(km)
	}
	return m, tea.Quit
}

func (m *initModel) cancel() (tea.Model, tea.Cmd) {
	m.cancelled = true
	return m, tea.Quit
}

func (m *initModel) updateWelcome(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case km.Type == tea.KeyEnter && m.exists:
		m.step = stepOverwrite
	case km.Type == tea.KeyEnter:
		return m, m.focusScripts()
	case km.Type == tea.KeyEsc || km.String() == "q":
		return m.cancel()
	}
	return m, nil
}

func (m *initModel) updateScripts(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch km.Type {
	case tea.KeyEsc:
		return m.cancel()
	case tea.KeyEnter:
		dir := strings.TrimSpace(m.scriptInput.Value())
		if dir == "" {
			m.scriptWarn = "Enter the directory holding " + analysisScripts[0]
			return m, nil
		}
		m.scriptDir = dir
		m.scriptWarn = missingScripts(dir)
		m.scriptInput.Blur()
		m.step = stepFolders
		m.folderInput.Focus()
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	m.scriptInput, cmd = m.scriptInput.Update(km)
	return m, cmd
}

func (m *initModel) updateFolders(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch km.Type {
	case tea.KeyEsc:
		m.folderInput.Blur()
		return m, m.focusScripts()
	case tea.KeyEnter:
		folder := strings.TrimSpace(m.folderInput.Value())
		m.folderInput.Reset()
		switch {
		case folder == "" && len(m.folders) == 0:
			m.needFolder = true
		case folder == "":
			m.step = stepConfirm
		case !slices.Contains(m.folders, folder):
			m.folders = append(m.folders, folder)
			if _, err := os.Stat(config.ExpandHome(folder)); err != nil {
				m.missing[folder] = true
			}
			m.needFolder = false
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.folderInput, cmd = m.folderInput.Update(km)
	return m, cmd
}

func (m *initModel) updateConfirm(km tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch km.Type {
	case tea.KeyEsc:
		m.step = stepFolders
		m.folderInput.Focus()
		return m, textinput.Blink
	case tea.KeyEnter:
		cfg := config.NewConfig()
		cfg.ScriptDir = m.scriptDir
		cfg.WorkspaceFolders = m.folders
		m.err = config.Save(cfg, m.configPath)
		m.step = stepDone
		return m, tea.Quit
	}
	return m, nil
}

func (m *initModel) focusScripts() tea.Cmd {
	m.step = stepScripts
	m.scriptInput.Focus()
	return textinput.Blink
}

func (m *initModel) View() string {
	var b strings.Builder
	line := func(format string, a ...any) { fmt.Fprintf(&b, format+"\n", a...) }

	switch m.step {
	case stepWelcome:
		line("%s\n", styleTitle.Render("gitactivity setup"))
		line("The config will be written to %s\n", styleDim.Render(m.configPath))
		line("%s", styleDim.Render("enter: continue · esc: cancel"))

	case stepOverwrite:
		line("%s at %s\n", styleWarn.Render("A config already exists"), styleDim.Render(m.configPath))
		line("Replace it? %s", styleDim.Render("[y/N]"))

	case stepScripts:
		line("%s\n", styleTitle.Render("Analysis scripts"))
		line("Directory containing %s:", strings.Join(analysisScripts, " and "))
		line("%s", m.scriptInput.View())
		if m.scriptWarn != "" {
			line("  %s", styleWarn.Render(m.scriptWarn))
		}

	case stepFolders:
		line("%s", styleTitle.Render("Workspace folders"))
		scripts := styleDim.Render("scripts: " + m.scriptDir)
		if m.scriptWarn != "" {
			scripts += "  " + styleWarn.Render(m.scriptWarn)
		}
		line("%s\n", scripts)
		for _, f := range m.folders {
			line("  %s", styleSuccess.Render("+ "+f))
			if m.missing[f] {
				line("    %s", styleWarn.Render(config.ExpandHome(f)+" does not exist yet"))
			}
		}
		if len(m.folders) == 0 {
			line("Folder to search for repositories:")
		} else {
			line("\nAnother folder (empty to finish):")
		}
		line("%s", m.folderInput.View())
		if m.needFolder {
			line("  %s", styleWarn.Render("At least one folder is required"))
		}

	case stepConfirm:
		line("%s\n", styleTitle.Render("Write this config?"))
		line("  scripts  %s", m.scriptDir)
		line("  range    %s → %s", config.DefaultStartDate, config.DefaultEndDate)
		line("  folders  %s\n", strings.Join(m.folders, ", "))
		line("%s", styleDim.Render("enter: write · esc: back"))

	case stepDone:
		if m.err != nil {
			line("%s", styleError.Render("Could not write config: "+m.err.Error()))
			break
		}
		line("%s\n", styleSuccess.Render("Saved "+m.configPath))
		line("Run %s to pick repositories and chart them.", styleTitle.Render("gitactivity"))
	}

	return b.String()
}

// missingScripts returns a warning when dir lacks either analysis script.
func missingScripts(dir string) string {
	expanded := config.ExpandHome(dir)
	var missing []string
	for _, name := range analysisScripts {
		if _, err := os.Stat(filepath.Join(expanded, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return strings.Join(missing, ", ") + " not found in " + expanded
}
