package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jackchuka/gitactivity/internal/model"
)

// detectRepo reports whether path holds the repository marker. A marker
// directory is a normal repository; a marker file is a linked worktree.
// Returns nil, nil when the marker is absent.
func detectRepo(path, marker string) (*model.Repository, error) {
	markerPath := filepath.Join(path, marker)

	info, err := os.Stat(markerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	repo := &model.Repository{
		Path: path,
	}

	if info.IsDir() {
		return repo, nil
	}

	repo.IsWorktree = true

	content, err := os.ReadFile(markerPath)
	if err != nil {
		return nil, err
	}

	// Parse "gitdir: /path/to/main/.git/worktrees/name"
	line := strings.TrimSpace(string(content))
	if strings.HasPrefix(line, "gitdir:") {
		gitdir := filepath.ToSlash(strings.TrimSpace(strings.TrimPrefix(line, "gitdir:")))
		sep := "/" + marker + "/worktrees/"
		if idx := strings.Index(gitdir, sep); idx != -1 {
			repo.MainWorktree = filepath.FromSlash(gitdir[:idx])
		}
	}

	return repo, nil
}
