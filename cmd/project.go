package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gitactivity/internal/config"
	"github.com/jackchuka/gitactivity/internal/scanner"
)

var projectOpts analysisOptions

var projectCmd = &cobra.Command{
	Use:   "project [path]",
	Short: "Analyze the repository enclosing a path",
	Long: `Analyze the git repository that encloses path (default: the current
directory). Parent directories are searched upward; when none of them is
a repository, the first repository directly below path is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProject,
}

func init() {
	addAnalysisFlags(projectCmd, &projectOpts)
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	start, err := startPath(args)
	if err != nil {
		return err
	}

	walker := scanner.NewWalker(cfg.ScanConfig(), logger)
	repo, err := walker.LocateClosest(cmd.Context(), start)
	if err != nil {
		return err
	}
	if repo == nil {
		return &ExitError{
			Code: ExitNoRepository,
			Err:  fmt.Errorf("%w in %s or its parents", scanner.ErrNoRepository, start),
		}
	}

	logger.Debug("located repository", "path", repo.Path, "worktree", repo.IsWorktree)
	return analyze(cmd, []string{repo.Path}, projectOpts)
}

func startPath(args []string) (string, error) {
	if len(args) > 0 {
		return config.ExpandHome(args[0]), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return wd, nil
}
