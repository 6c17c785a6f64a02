package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackchuka/gitactivity/internal/model"
)

// ErrNoRepository reports an empty discovery. Callers present it to the
// user; it is never returned by the scanner itself.
var ErrNoRepository = errors.New("no git repository found")

type Scanner interface {
	ScanPath(ctx context.Context, path string, cfg model.ScanConfig) (ScanResult, error)
	DiscoverAll(ctx context.Context, folders []string) (ScanResult, error)
	LocateClosest(ctx context.Context, startPath string) (*model.Repository, error)
}

type ScanResult struct {
	Repos    []model.Repository
	Errors   []ScanError
	Duration time.Duration
}

// ScanError is a directory that could not be read. The branch below it was
// skipped; the rest of the scan continued.
type ScanError struct {
	Path string
	Err  error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

func (r *ScanResult) merge(other ScanResult) {
	r.Repos = append(r.Repos, other.Repos...)
	r.Errors = append(r.Errors, other.Errors...)
	r.Duration += other.Duration
}
