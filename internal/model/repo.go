package model

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"
)

type Repository struct {
	Path         string       // Absolute path to repo root
	Name         string       // Display name (derived from path or config)
	IsWorktree   bool         // True if the marker is a gitdir file, not a directory
	MainWorktree string       // If IsWorktree, path to main repo
	Summary      *RepoSummary // Branch and last-commit info (nil if not loaded)
}

func (r *Repository) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return filepath.Base(r.Path)
}

// Paths returns the repository paths in order.
func Paths(repos []Repository) []string {
	paths := make([]string, len(repos))
	for i, r := range repos {
		paths[i] = r.Path
	}
	return paths
}

type RepoSummary struct {
	Branch       string // Current branch name (empty if detached)
	DetachedHead bool   // True if HEAD is detached
	CommitHash   string // Short hash of HEAD
	Dirty        bool   // Any staged, modified or untracked entries

	LastCommit time.Time // Time of last commit (zero if no commits)
}

// BranchLabel returns the branch name, or the short hash when detached.
func (s *RepoSummary) BranchLabel() string {
	if s.DetachedHead {
		if s.CommitHash != "" {
			return "(" + s.CommitHash + ")"
		}
		return "(detached)"
	}
	return s.Branch
}

// CommitAge formats the time since the last commit, e.g. "3h ago".
// Returns "" when the repository has no commits.
func (s *RepoSummary) CommitAge(now time.Time) string {
	if s.LastCommit.IsZero() {
		return ""
	}
	d := now.Sub(s.LastCommit)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// ScanConfig bounds a repository scan.
type ScanConfig struct {
	MaxDepth       int
	ExcludedNames  []string
	Marker         string
	FollowSymlinks bool
}

const (
	DefaultMaxDepth = 3
	DefaultMarker   = ".git"
)

// DefaultExcludedNames lists dependency-cache directories never scanned.
// Dot-directories are always skipped in addition to these.
func DefaultExcludedNames() []string {
	return []string{"node_modules", "bower_components", "vendor", "__pycache__", "venv"}
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		MaxDepth:      DefaultMaxDepth,
		ExcludedNames: DefaultExcludedNames(),
		Marker:        DefaultMarker,
	}
}

// Excludes reports whether a directory entry named name is skipped.
func (c ScanConfig) Excludes(name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	return slices.Contains(c.ExcludedNames, name)
}

// WithMaxDepth returns a copy of c with MaxDepth replaced.
func (c ScanConfig) WithMaxDepth(depth int) ScanConfig {
	c.MaxDepth = depth
	return c
}
