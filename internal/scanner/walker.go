package scanner

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jackchuka/gitactivity/internal/model"
)

type Walker struct {
	cfg    model.ScanConfig
	logger *log.Logger
}

// NewWalker returns a Walker that discovers workspaces with cfg. A nil
// logger discards output.
func NewWalker(cfg model.ScanConfig, logger *log.Logger) *Walker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Marker == "" {
		cfg.Marker = model.DefaultMarker
	}
	return &Walker{cfg: cfg, logger: logger}
}

// Config returns the scan settings used by DiscoverAll.
func (w *Walker) Config() model.ScanConfig {
	return w.cfg
}

type frame struct {
	path  string
	depth int
}

// ScanPath finds repository roots below root, at most cfg.MaxDepth levels
// deep. Repositories are not searched for nested repositories. Unreadable
// directories are recorded in ScanResult.Errors and skipped; only context
// cancellation aborts the scan.
func (w *Walker) ScanPath(ctx context.Context, root string, cfg model.ScanConfig) (res ScanResult, err error) {
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	if cfg.Marker == "" {
		cfg.Marker = model.DefaultMarker
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		res.Errors = append(res.Errors, ScanError{Path: root, Err: err})
		return res, nil
	}

	// Shallowest depth each canonical directory was expanded at, and the
	// canonical repos already reported.
	visited := make(map[string]int)
	reported := make(map[string]bool)
	stack := []frame{{path: abs, depth: 0}}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.depth > cfg.MaxDepth {
			continue
		}

		// Symlinked directories can lead back to an ancestor
		canonical, err := filepath.EvalSymlinks(f.path)
		if err != nil {
			w.skip(&res, f.path, err)
			continue
		}
		if d, seen := visited[canonical]; seen && d <= f.depth {
			continue
		}
		visited[canonical] = f.depth

		repo, err := detectRepo(f.path, cfg.Marker)
		if err != nil {
			w.skip(&res, f.path, err)
			continue
		}
		if repo != nil {
			if !reported[canonical] {
				reported[canonical] = true
				res.Repos = append(res.Repos, *repo)
			}
			continue // Don't descend into git repos
		}

		entries, err := os.ReadDir(f.path)
		if err != nil {
			w.skip(&res, f.path, err)
			continue
		}

		children := make([]frame, 0, len(entries))
		for _, e := range entries {
			if cfg.Excludes(e.Name()) {
				continue
			}
			child := filepath.Join(f.path, e.Name())
			if !w.isDir(&res, child, e, cfg.FollowSymlinks) {
				continue
			}
			children = append(children, frame{path: child, depth: f.depth + 1})
		}

		// Push in reverse so entries pop in directory order
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	w.logger.Debug("scan finished", "root", abs, "repos", len(res.Repos), "warnings", len(res.Errors))
	return res, nil
}

// DiscoverAll scans each folder in order with the walker's config and
// concatenates the results. Folders are not deduplicated.
func (w *Walker) DiscoverAll(ctx context.Context, folders []string) (ScanResult, error) {
	var all ScanResult
	for _, folder := range folders {
		res, err := w.ScanPath(ctx, folder, w.cfg)
		all.merge(res)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}

func (w *Walker) isDir(res *ScanResult, path string, e fs.DirEntry, followSymlinks bool) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 || !followSymlinks {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		w.skip(res, path, err)
		return false
	}
	return info.IsDir()
}

func (w *Walker) skip(res *ScanResult, path string, err error) {
	res.Errors = append(res.Errors, ScanError{Path: path, Err: err})
	w.logger.Debug("skipping unreadable directory", "path", path, "err", err)
}
