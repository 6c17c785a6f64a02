package scanner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackchuka/gitactivity/internal/model"
)

// LocateClosest returns the repository that encloses startPath, checking
// startPath and then every parent up to the filesystem root. When no
// ancestor is a repository, the immediate subdirectories of startPath are
// scanned and the first repository found wins. Returns nil, nil when
// nothing is found.
func (w *Walker) LocateClosest(ctx context.Context, startPath string) (*model.Repository, error) {
	abs, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", startPath, err)
	}

	for current := abs; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		repo, err := detectRepo(current, w.cfg.Marker)
		if err != nil {
			w.logger.Debug("cannot inspect ancestor", "path", current, "err", err)
		} else if repo != nil {
			return repo, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	// Container folder holding repositories one level down. The fallback
	// uses the default exclusions whatever the workspace config says.
	fallback := model.DefaultScanConfig().WithMaxDepth(1)
	fallback.Marker = w.cfg.Marker
	res, err := w.ScanPath(ctx, abs, fallback)
	if err != nil {
		return nil, err
	}
	if len(res.Repos) == 0 {
		return nil, nil
	}
	repo := res.Repos[0]
	return &repo, nil
}
