package status

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackchuka/gitactivity/internal/model"
)

type GitReader struct {
	concurrency int
}

func NewGitReader() *GitReader {
	return &GitReader{
		concurrency: 8,
	}
}

// GetSummary reads branch, dirtiness and last commit time for a repo.
func (r *GitReader) GetSummary(ctx context.Context, repoPath string) (*model.RepoSummary, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	output, err := r.runGit(cmdCtx, repoPath, "status", "--porcelain=v2", "--branch")
	if err != nil {
		return nil, err
	}
	summary := parsePorcelainV2(output)

	logCtx, logCancel := context.WithTimeout(ctx, 5*time.Second)
	defer logCancel()

	// Fails on a repo without commits; LastCommit stays zero
	if logOutput, err := r.runGit(logCtx, repoPath, "log", "-1", "--format=%ct"); err == nil {
		if ts, err := strconv.ParseInt(strings.TrimSpace(logOutput), 10, 64); err == nil {
			summary.LastCommit = time.Unix(ts, 0)
		}
	}

	return summary, nil
}

func (r *GitReader) GetSummaryBatch(ctx context.Context, paths []string) (map[string]*model.RepoSummary, map[string]error) {
	results := make(map[string]*model.RepoSummary)
	errors := make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup

	sem := make(chan struct{}, r.concurrency)

	for _, path := range paths {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				errors[p] = ctx.Err()
				mu.Unlock()
				return
			}
			defer func() { <-sem }()

			summary, err := r.GetSummary(ctx, p)
			mu.Lock()
			if err != nil {
				errors[p] = err
			}
			if summary != nil {
				results[p] = summary
			}
			mu.Unlock()
		}(path)
	}

	wg.Wait()
	return results, errors
}

func (r *GitReader) runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s: %s", args[0], msg)
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}

	return stdout.String(), nil
}
