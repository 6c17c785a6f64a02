package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackchuka/gitactivity/internal/model"
	"github.com/jackchuka/gitactivity/internal/status"
)

var scanStatus bool

var scanCmd = &cobra.Command{
	Use:   "scan [folders...]",
	Short: "List the repositories workspace discovery finds",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanStatus, "status", false, "show branch, dirty state and last commit")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	folders, err := workspaceFolders(args)
	if err != nil {
		return err
	}

	repos, err := discover(cmd, folders)
	if err != nil {
		return err
	}

	if scanStatus {
		reader := status.NewGitReader()
		summaries, errs := reader.GetSummaryBatch(cmd.Context(), model.Paths(repos))
		for path, err := range errs {
			logger.Warn("cannot read status", "path", path, "err", err)
		}
		for i := range repos {
			repos[i].Summary = summaries[repos[i].Path]
		}
	}

	printRepos(cmd.OutOrStdout(), repos, time.Now())
	return nil
}

func printRepos(w io.Writer, repos []model.Repository, now time.Time) {
	for _, r := range repos {
		line := styleTitle.Render(r.DisplayName())
		if r.IsWorktree {
			line += styleDim.Render(" (worktree)")
		}
		if s := r.Summary; s != nil {
			line += " " + styleBranch.Render(s.BranchLabel())
			if s.Dirty {
				line += styleWarn.Render(" *")
			}
			if age := s.CommitAge(now); age != "" {
				line += styleDim.Render(" · " + age)
			}
		}
		fmt.Fprintf(w, "%s\n  %s\n", line, styleDim.Render(r.Path))
	}
	fmt.Fprintf(w, "\n%s\n", styleDim.Render(plural(len(repos), "repository", "repositories")+" found"))
}
