package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jackchuka/gitactivity/internal/config"
)

func testWizard(t *testing.T) *initModel {
	t.Helper()
	return newInitModel(filepath.Join(t.TempDir(), "gitactivity", "config.yaml"), false)
}

func typeText(m *initModel, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func pressEnter(m *initModel) {
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestInitModel_WritesConfig(t *testing.T) {
	m := testWizard(t)
	scripts := t.TempDir()
	folder := t.TempDir()

	pressEnter(m)
	if m.step != stepScripts {
		t.Fatalf("step = %v, want stepScripts", m.step)
	}

	typeText(m, scripts)
	pressEnter(m)
	if m.step != stepFolders {
		t.Fatalf("step = %v, want stepFolders", m.step)
	}
	if m.scriptWarn == "" {
		t.Error("empty script dir should warn about missing scripts")
	}

	// Enter with no folders asks for one
	pressEnter(m)
	if !m.needFolder {
		t.Error("needFolder should be set before any folder is added")
	}

	typeText(m, folder)
	pressEnter(m)
	typeText(m, folder)
	pressEnter(m)
	if len(m.folders) != 1 {
		t.Errorf("paths = %v, want duplicates ignored", m.folders)
	}

	pressEnter(m)
	if m.step != stepConfirm {
		t.Fatalf("step = %v, want stepConfirm", m.step)
	}
	pressEnter(m)
	if m.err != nil {
		t.Fatalf("save error = %v", m.err)
	}

	cfg, err := config.Load(m.configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ScriptDir != scripts {
		t.Errorf("ScriptDir = %q, want %q", cfg.ScriptDir, scripts)
	}
	if len(cfg.WorkspaceFolders) != 1 || cfg.WorkspaceFolders[0] != folder {
		t.Errorf("WorkspaceFolders = %v, want [%s]", cfg.WorkspaceFolders, folder)
	}
}

func TestInitModel_EmptyScriptDir(t *testing.T) {
	m := testWizard(t)
	pressEnter(m)
	pressEnter(m)

	if m.step != stepScripts {
		t.Errorf("step = %v, want to stay on stepScripts", m.step)
	}
	if m.scriptWarn == "" {
		t.Error("an empty script dir should be rejected with a warning")
	}
}

func TestInitModel_DeclineOverwrite(t *testing.T) {
	m := testWizard(t)
	m.exists = true

	pressEnter(m)
	if m.step != stepOverwrite {
		t.Fatalf("step = %v, want stepOverwrite", m.step)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if !m.cancelled {
		t.Error("declining overwrite should cancel")
	}
}

func TestInitModel_MissingFolderWarning(t *testing.T) {
	m := testWizard(t)
	pressEnter(m)
	typeText(m, t.TempDir())
	pressEnter(m)

	gone := filepath.Join(t.TempDir(), "not-there")
	typeText(m, gone)
	pressEnter(m)

	if !m.missing[gone] {
		t.Errorf("missing[%q] = false, want true", gone)
	}
	if got := m.View(); !strings.Contains(got, "does not exist yet") {
		t.Error("View() should warn about the missing folder")
	}
}
