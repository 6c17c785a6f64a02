package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	minInterval  = time.Second
	gitTimeout   = 5 * time.Second
	pollParallel = 4
)

// Event reports that a watched repository's branch tips or HEAD moved.
type Event struct {
	RepoPath string
	Time     time.Time
}

// Poller detects new commits by fingerprinting each repository's refs on
// an interval. Working tree edits move no ref and produce no event.
type Poller struct {
	interval time.Duration
	events   chan Event

	mu     sync.Mutex
	tips   map[string]string // repo path -> refs fingerprint
	closed bool
}

func NewPoller(interval time.Duration) *Poller {
	return &Poller{
		interval: max(interval, minInterval),
		events:   make(chan Event, 64),
		tips:     make(map[string]string),
	}
}

func (p *Poller) Events() <-chan Event {
	return p.events
}

// Watch records the current fingerprint of repoPath. Watching a path twice
// is a no-op; a path git cannot read is an error.
func (p *Poller) Watch(repoPath string) error {
	p.mu.Lock()
	_, known := p.tips[repoPath]
	p.mu.Unlock()
	if known {
		return nil
	}

	fp, err := fingerprint(context.Background(), repoPath)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, known := p.tips[repoPath]; !known {
		p.tips[repoPath] = fp
	}
	return nil
}

func (p *Poller) Unwatch(repoPath string) {
	p.mu.Lock()
	delete(p.tips, repoPath)
	p.mu.Unlock()
}

// Run checks every watched repository once per interval until ctx ends.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check(ctx)
		}
	}
}

// check fingerprints all watched repositories and emits one event per
// repository whose fingerprint changed.
func (p *Poller) check(ctx context.Context) {
	p.mu.Lock()
	last := make(map[string]string, len(p.tips))
	for path, fp := range p.tips {
		last[path] = fp
	}
	p.mu.Unlock()

	var (
		moved   = make(map[string]string)
		movedMu sync.Mutex
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pollParallel)
	for path, prev := range last {
		g.Go(func() error {
			fp, err := fingerprint(gctx, path)
			if err != nil || fp == prev {
				// A failing git call is not a change.
				return nil
			}
			movedMu.Lock()
			moved[path] = fp
			movedMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(moved) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	now := time.Now()
	for path, fp := range moved {
		if _, still := p.tips[path]; !still {
			continue
		}
		select {
		case p.events <- Event{RepoPath: path, Time: now}:
			p.tips[path] = fp
		default:
			// Buffer full: keep the old fingerprint so the next tick retries.
		}
	}
}

// Close stops event delivery and closes the Events channel. It is safe to
// call more than once.
func (p *Poller) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	return nil
}

// fingerprint hashes every local branch tip plus HEAD.
func fingerprint(ctx context.Context, repoPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	refs, err := exec.CommandContext(ctx, "git", "-C", repoPath,
		"for-each-ref", "--format=%(objectname)", "refs/heads").Output()
	if err != nil {
		return "", fmt.Errorf("reading refs of %s: %w", repoPath, err)
	}
	// An unborn HEAD fails; the empty output still fingerprints fine.
	head, _ := exec.CommandContext(ctx, "git", "-C", repoPath, "rev-parse", "--verify", "-q", "HEAD").Output()

	sum := sha256.Sum256(append(refs, head...))
	return hex.EncodeToString(sum[:]), nil
}
