package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gitactivity/internal/config"
	"github.com/jackchuka/gitactivity/internal/model"
	"github.com/jackchuka/gitactivity/internal/scanner"
)

var (
	workspaceOpts  analysisOptions
	workspaceRepos []string
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace [folders...]",
	Short: "Analyze every repository under the workspace folders",
	Long: `Discover git repositories under each folder (default: the configured
workspace_folders, else the current directory) and analyze them together.
Use --repo to name repositories explicitly and skip discovery.`,
	RunE: runWorkspace,
}

func init() {
	addAnalysisFlags(workspaceCmd, &workspaceOpts)
	workspaceCmd.Flags().StringArrayVar(&workspaceRepos, "repo", nil, "repository path to analyze (repeatable, skips discovery)")
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspace(cmd *cobra.Command, args []string) error {
	if len(workspaceRepos) > 0 {
		paths := make([]string, len(workspaceRepos))
		for i, r := range workspaceRepos {
			abs, err := filepath.Abs(config.ExpandHome(r))
			if err != nil {
				return fmt.Errorf("resolving %s: %w", r, err)
			}
			paths[i] = abs
		}
		return analyze(cmd, paths, workspaceOpts)
	}

	folders, err := workspaceFolders(args)
	if err != nil {
		return err
	}

	repos, err := discover(cmd, folders)
	if err != nil {
		return err
	}
	return analyze(cmd, model.Paths(repos), workspaceOpts)
}

// discover runs workspace discovery and turns an empty result into an
// ExitError carrying the no-repository exit code.
func discover(cmd *cobra.Command, folders []string) ([]model.Repository, error) {
	walker := scanner.NewWalker(cfg.ScanConfig(), logger)
	res, err := walker.DiscoverAll(cmd.Context(), folders)
	if err != nil {
		return nil, err
	}

	for _, e := range res.Errors {
		logger.Debug("scan warning", "path", e.Path, "err", e.Err)
	}
	logger.Debug("discovery finished", "repos", len(res.Repos), "warnings", len(res.Errors), "duration", res.Duration)

	if len(res.Repos) == 0 {
		return nil, &ExitError{
			Code: ExitNoRepository,
			Err:  fmt.Errorf("%w under %s", scanner.ErrNoRepository, strings.Join(folders, ", ")),
		}
	}
	return res.Repos, nil
}
