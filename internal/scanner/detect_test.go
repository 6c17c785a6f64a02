package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectRepo_NormalRepo(t *testing.T) {
	tmpDir := t.TempDir()
	mkRepo(t, tmpDir)

	result, err := detectRepo(tmpDir, ".git")
	if err != nil {
		t.Fatalf("detectRepo() error = %v", err)
	}

	if result == nil {
		t.Fatal("detectRepo() returned nil")
	}

	if result.IsWorktree {
		t.Error("IsWorktree should be false for normal repo")
	}

	if result.Path != tmpDir {
		t.Errorf("Path = %q, want %q", result.Path, tmpDir)
	}
}

func TestDetectRepo_Worktree(t *testing.T) {
	tmpDir := t.TempDir()

	mainRepo := mkRepo(t, filepath.Join(tmpDir, "main"))
	worktree := mkDir(t, filepath.Join(tmpDir, "worktree"))

	content := "gitdir: " + filepath.Join(mainRepo, ".git", "worktrees", "worktree")
	mustWrite(t, filepath.Join(worktree, ".git"), content)

	result, err := detectRepo(worktree, ".git")
	if err != nil {
		t.Fatalf("detectRepo() error = %v", err)
	}

	if result == nil {
		t.Fatal("detectRepo() returned nil")
	}

	if !result.IsWorktree {
		t.Error("IsWorktree should be true for worktree")
	}

	if result.MainWorktree != mainRepo {
		t.Errorf("MainWorktree = %q, want %q", result.MainWorktree, mainRepo)
	}
}

func TestDetectRepo_CustomMarker(t *testing.T) {
	tmpDir := t.TempDir()
	mkDir(t, filepath.Join(tmpDir, ".hg"))

	result, err := detectRepo(tmpDir, ".hg")
	if err != nil {
		t.Fatalf("detectRepo() error = %v", err)
	}
	if result == nil {
		t.Fatal("detectRepo() should honor a custom marker")
	}

	result, err = detectRepo(tmpDir, ".git")
	if err != nil {
		t.Fatalf("detectRepo() error = %v", err)
	}
	if result != nil {
		t.Error("detectRepo() should not match a different marker")
	}
}

func TestDetectRepo_NotARepo(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := detectRepo(tmpDir, ".git")
	if err != nil {
		t.Fatalf("detectRepo() error = %v", err)
	}

	if result != nil {
		t.Error("detectRepo() should return nil for non-repo")
	}
}
