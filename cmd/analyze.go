package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gitactivity/internal/analysis"
	"github.com/jackchuka/gitactivity/internal/desktop"
	"github.com/jackchuka/gitactivity/internal/model"
	"github.com/jackchuka/gitactivity/internal/watcher"
)

type analysisOptions struct {
	open  bool
	watch bool
}

func addAnalysisFlags(c *cobra.Command, o *analysisOptions) {
	c.Flags().BoolVar(&o.open, "open", false, "open the generated chart with the default viewer")
	c.Flags().BoolVar(&o.watch, "watch", false, "re-run the analysis whenever new commits land")
}

// analyze runs one analysis over paths and, with --watch, keeps re-running
// it until interrupted.
func analyze(cmd *cobra.Command, paths []string, opts analysisOptions) error {
	orch := analysis.New(cfg, analysis.WithLogger(logger))

	res, err := analyzeOnce(cmd, orch, paths, opts.open)
	if err != nil {
		return err
	}
	if !opts.watch {
		return resultError(res)
	}

	if res.Outcome() == model.OutcomeFailure {
		printFailure(cmd.ErrOrStderr(), res)
	}
	return watchAndRerun(cmd, orch, paths, opts.open)
}

func analyzeOnce(cmd *cobra.Command, orch *analysis.Orchestrator, paths []string, open bool) (model.AnalysisResult, error) {
	req, err := model.NewAnalysisRequest(paths, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return model.AnalysisResult{}, &ExitError{Code: ExitNoRepository, Err: err}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s Running %s-repo analysis on %s (%s → %s)\n",
		styleDim.Render("→"), req.Mode(), repoLabel(paths), req.StartDate, req.EndDate)

	res := orch.Run(cmd.Context(), req)
	printResult(w, res)

	if open && res.HasArtifact() {
		if err := desktop.Open(res.ArtifactPath); err != nil {
			logger.Warn("cannot open chart", "path", res.ArtifactPath, "err", err)
		}
	}
	return res, nil
}

// resultError converts a failed result into an ExitError; fang renders
// the message.
func resultError(res model.AnalysisResult) error {
	if code := exitCode(res); code != ExitOK {
		return &ExitError{Code: code, Err: &analysis.RunError{Result: res}}
	}
	return nil
}

func printResult(w io.Writer, res model.AnalysisResult) {
	switch res.Outcome() {
	case model.OutcomeArtifact:
		fmt.Fprintf(w, "%s Chart generated: %s\n", styleSuccess.Render("✓"), res.ArtifactPath)
	case model.OutcomeNoArtifact:
		fmt.Fprintf(w, "%s Analysis finished, but the script reported no chart path.\n", styleWarn.Render("!"))
	}
}

func printFailure(w io.Writer, res model.AnalysisResult) {
	fmt.Fprintf(w, "%s %s\n", styleError.Render("✗"), res.Message)
}

func watchAndRerun(cmd *cobra.Command, orch *analysis.Orchestrator, paths []string, open bool) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	poller := watcher.NewPoller(cfg.PollInterval)
	for _, p := range paths {
		if err := poller.Watch(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}

	defer startPoller(ctx, poller)()

	fmt.Fprintf(w, "\n%s Watching %s for new commits (Ctrl+C to stop)...\n\n",
		styleDim.Render("→"), plural(len(paths), "repository", "repositories"))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-poller.Events():
			changed := drainEvents(poller.Events(), ev)
			logger.Debug("new commits detected", "repos", changed)
			fmt.Fprintf(w, "%s New commits in %s. Re-running...\n", styleDim.Render("→"), repoLabel(changed))

			res, err := analyzeOnce(cmd, orch, paths, open)
			if err != nil {
				return err
			}
			if res.Outcome() == model.OutcomeFailure {
				printFailure(cmd.ErrOrStderr(), res)
			}
			fmt.Fprintf(w, "\n%s Watching for new commits...\n\n", styleDim.Render("→"))
		}
	}
}

// startPoller runs poller until the returned stop function is called or
// ctx ends. stop waits for the poller to exit, then closes it.
func startPoller(ctx context.Context, poller *watcher.Poller) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		poller.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
		_ = poller.Close()
	}
}

// drainEvents collects every event already queued behind first so one
// burst of commits triggers a single re-run.
func drainEvents(events <-chan watcher.Event, first watcher.Event) []string {
	changed := []string{first.RepoPath}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return changed
			}
			changed = append(changed, ev.RepoPath)
		default:
			return changed
		}
	}
}

func repoLabel(paths []string) string {
	if len(paths) > 3 {
		return plural(len(paths), "repository", "repositories")
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = styleTitle.Render(filepath.Base(p))
	}
	return strings.Join(names, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
