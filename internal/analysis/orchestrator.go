// Package analysis runs the external activity-report scripts against one
// or more repositories and locates the image they produce.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/jackchuka/gitactivity/internal/config"
	"github.com/jackchuka/gitactivity/internal/model"
)

// Invocation is the resolved command line for one analysis run.
type Invocation struct {
	Mode   model.Mode
	Script string   // Absolute script path
	Name   string   // Program to execute (interpreter or script)
	Args   []string // Arguments passed to Name
	Dir    string   // Working directory
}

func (i Invocation) String() string {
	return strings.Join(append([]string{i.Name}, i.Args...), " ")
}

type Orchestrator struct {
	cfg    *config.Config
	runner Runner
	logger *log.Logger

	// Runs share the artifact directory; one at a time.
	sem *semaphore.Weighted
}

type Option func(*Orchestrator)

func WithRunner(r Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		runner: ExecRunner{},
		logger: log.New(io.Discard),
		sem:    semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Invocation builds the command line for req. Single-repo runs pass the
// dates only; multi-repo runs append every repository path. The working
// directory is always the first repository.
func (o *Orchestrator) Invocation(req model.AnalysisRequest) Invocation {
	mode := req.Mode()

	scriptName := o.cfg.SingleScript
	args := []string{req.StartDate, req.EndDate}
	if mode == model.ModeMultiRepo {
		scriptName = o.cfg.MultiScript
		args = append(args, req.RepoPaths...)
	}

	script := o.resolveScript(scriptName)
	inv := Invocation{
		Mode:   mode,
		Script: script,
		Name:   script,
		Args:   args,
		Dir:    req.WorkDir(),
	}
	if o.cfg.Interpreter != "" {
		inv.Name = o.cfg.Interpreter
		inv.Args = append([]string{script}, args...)
	}
	return inv
}

// Run executes one analysis and never retries. Failures are reported in
// the result, never as a Go error. Concurrent calls are serialized.
func (o *Orchestrator) Run(ctx context.Context, req model.AnalysisRequest) model.AnalysisResult {
	if len(req.RepoPaths) == 0 {
		return model.Failure(model.ErrNoRepositories.Error())
	}

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return model.Failure(fmt.Sprintf("analysis not started: %v", err))
	}
	defer o.sem.Release(1)

	inv := o.Invocation(req)
	logger := o.logger.With("mode", inv.Mode, "repos", len(req.RepoPaths))

	if _, err := os.Stat(inv.Script); err != nil {
		logger.Error("analysis script missing", "script", inv.Script, "err", err)
		return model.Failure("analysis script not found: " + inv.Script)
	}

	logger.Debug("starting analysis", "cmd", inv.String(), "dir", inv.Dir)

	runCtx, cancel := o.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	out, err := o.runner.Run(runCtx, inv.Dir, inv.Name, inv.Args...)
	result := model.AnalysisResult{
		Stdout:   string(out.Stdout),
		Stderr:   string(out.Stderr),
		Duration: time.Since(start),
	}

	if err != nil {
		result.Status = model.StatusFailure
		result.Message = failureMessage(runCtx, inv, out, err, o.cfg.Timeout)
		logger.Error("analysis failed", "duration", result.Duration, "err", result.Message)
		return result
	}

	result.Status = model.StatusSuccess
	if name, ok := ParseArtifact(result.Stdout); ok {
		result.ArtifactPath = ResolveArtifact(name, req.WorkDir())
	}

	logger.Info("analysis finished", "duration", result.Duration.Round(time.Millisecond), "outcome", result.Outcome(), "artifact", result.ArtifactPath)
	return result
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.cfg.Timeout)
}

func failureMessage(ctx context.Context, inv Invocation, out Output, err error, timeout time.Duration) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("analysis timed out after %s", timeout)
	}
	if msg := strings.TrimSpace(string(out.Stderr)); msg != "" {
		return msg
	}
	return fmt.Sprintf("failed to run %s: %v", filepath.Base(inv.Script), err)
}

// resolveScript makes a configured script name absolute: relative to
// ScriptDir when set, then from PATH for bare names, then from the
// current directory.
func (o *Orchestrator) resolveScript(name string) string {
	p := o.cfg.ScriptPath(name)
	if filepath.IsAbs(p) {
		return p
	}
	if !strings.ContainsRune(p, filepath.Separator) {
		if found, err := exec.LookPath(p); err == nil {
			if abs, err := filepath.Abs(found); err == nil {
				return abs
			}
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// RunError carries a failed result through error-returning call chains.
type RunError struct {
	Result model.AnalysisResult
}

func (e *RunError) Error() string {
	return "analysis failed: " + e.Result.Message
}
