package scanner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jackchuka/gitactivity/internal/model"
)

func TestLocateClosest_InsideRepo(t *testing.T) {
	tmpDir := t.TempDir()
	repo := mkRepo(t, filepath.Join(tmpDir, "project"))
	deep := mkDir(t, filepath.Join(repo, "src", "pkg", "internal", "util"))
	mkDir(t, filepath.Join(repo, "docs", "api"))

	w := NewWalker(model.DefaultScanConfig(), nil)

	for _, start := range []string{repo, deep, filepath.Join(repo, "docs")} {
		t.Run(filepath.Base(start), func(t *testing.T) {
			got, err := w.LocateClosest(context.Background(), start)
			if err != nil {
				t.Fatalf("LocateClosest() error = %v", err)
			}
			if got == nil {
				t.Fatal("LocateClosest() returned nil")
			}
			if got.Path != repo {
				t.Errorf("LocateClosest(%q) = %q, want %q", start, got.Path, repo)
			}
		})
	}
}

func TestLocateClosest_PrefersNearestAncestor(t *testing.T) {
	tmpDir := t.TempDir()
	outer := mkRepo(t, filepath.Join(tmpDir, "outer"))
	inner := mkRepo(t, filepath.Join(outer, "vendored", "inner"))
	start := mkDir(t, filepath.Join(inner, "lib"))

	w := NewWalker(model.DefaultScanConfig(), nil)
	got, err := w.LocateClosest(context.Background(), start)
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if got == nil || got.Path != inner {
		t.Errorf("LocateClosest() = %v, want %q", got, inner)
	}
}

func TestLocateClosest_ContainerFolder(t *testing.T) {
	tmpDir := t.TempDir()
	container := mkDir(t, filepath.Join(tmpDir, "container"))
	alpha := mkRepo(t, filepath.Join(container, "alpha"))
	mkRepo(t, filepath.Join(container, "beta"))
	mkRepo(t, filepath.Join(container, "gamma"))

	w := NewWalker(model.DefaultScanConfig(), nil)

	first, err := w.LocateClosest(context.Background(), container)
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if first == nil {
		t.Fatal("LocateClosest() returned nil for a container of repos")
	}
	if first.Path != alpha {
		t.Errorf("LocateClosest() = %q, want %q (first in directory order)", first.Path, alpha)
	}

	again, err := w.LocateClosest(context.Background(), container)
	if err != nil {
		t.Fatal(err)
	}
	if again == nil || again.Path != first.Path {
		t.Errorf("second LocateClosest() = %v, want %q", again, first.Path)
	}
}

func TestLocateClosest_FallbackIsOneLevel(t *testing.T) {
	tmpDir := t.TempDir()
	container := mkDir(t, filepath.Join(tmpDir, "container"))
	mkRepo(t, filepath.Join(container, "group", "too-deep"))

	w := NewWalker(model.DefaultScanConfig(), nil)
	got, err := w.LocateClosest(context.Background(), container)
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if got != nil {
		t.Errorf("LocateClosest() = %q, want nil (fallback scans one level)", got.Path)
	}
}

func TestLocateClosest_FallbackUsesDefaultExclusions(t *testing.T) {
	tmpDir := t.TempDir()
	container := mkDir(t, filepath.Join(tmpDir, "container"))
	work := mkRepo(t, filepath.Join(container, "work"))
	mkRepo(t, filepath.Join(container, "node_modules", "dep"))

	cfg := model.DefaultScanConfig()
	cfg.ExcludedNames = []string{"work"}

	w := NewWalker(cfg, nil)
	got, err := w.LocateClosest(context.Background(), container)
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if got == nil || got.Path != work {
		t.Errorf("LocateClosest() = %v, want %q", got, work)
	}
}

func TestLocateClosest_NothingFound(t *testing.T) {
	tmpDir := t.TempDir()
	mkDir(t, filepath.Join(tmpDir, "empty", "dirs"))

	w := NewWalker(model.DefaultScanConfig(), nil)
	got, err := w.LocateClosest(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if got != nil {
		t.Errorf("LocateClosest() = %q, want nil", got.Path)
	}
}

func TestLocateClosest_Worktree(t *testing.T) {
	tmpDir := t.TempDir()
	mainRepo := mkRepo(t, filepath.Join(tmpDir, "main"))
	wt := mkDir(t, filepath.Join(tmpDir, "wt"))
	content := "gitdir: " + filepath.Join(mainRepo, ".git", "worktrees", "wt")
	mustWrite(t, filepath.Join(wt, ".git"), content)

	w := NewWalker(model.DefaultScanConfig(), nil)
	got, err := w.LocateClosest(context.Background(), wt)
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if got == nil || got.Path != wt {
		t.Fatalf("LocateClosest() = %v, want %q", got, wt)
	}
	if !got.IsWorktree {
		t.Error("IsWorktree should be true")
	}
	if got.MainWorktree != mainRepo {
		t.Errorf("MainWorktree = %q, want %q", got.MainWorktree, mainRepo)
	}
}

func TestLocateClosest_RelativeStart(t *testing.T) {
	tmpDir := t.TempDir()
	repo := mkRepo(t, filepath.Join(tmpDir, "project"))
	sub := mkDir(t, filepath.Join(repo, "sub"))
	t.Chdir(sub)

	w := NewWalker(model.DefaultScanConfig(), nil)
	got, err := w.LocateClosest(context.Background(), ".")
	if err != nil {
		t.Fatalf("LocateClosest() error = %v", err)
	}
	if got == nil {
		t.Fatal("LocateClosest() returned nil")
	}
	want, _ := filepath.EvalSymlinks(repo)
	have, _ := filepath.EvalSymlinks(got.Path)
	if have != want {
		t.Errorf("LocateClosest(\".\") = %q, want %q", got.Path, repo)
	}
}
