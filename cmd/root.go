package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jackchuka/gitactivity/internal/config"
	"github.com/jackchuka/gitactivity/tui"
)

var (
	// Version is set via -ldflags.
	Version = "dev"

	cfgFile string
	verbose bool
	cfg     *config.Config
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gitactivity",
	Short: "Find git repositories and chart their recent activity",
	Long: `
  gitactivity locates the git repository you are working in, or
  discovers every repository under your workspace folders, and runs
  the gitstat analysis scripts over them to render an activity chart.

  Run without arguments to pick repositories interactively.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		folders, err := workspaceFolders(nil)
		if err != nil {
			return err
		}

		tuiLogger, closeLog, err := tuiLogger()
		if err != nil {
			return err
		}
		defer closeLog()

		return tui.Run(cfg, folders, tuiLogger)
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/gitactivity/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("start", "", `analysis start date (default "30 days ago")`)
	rootCmd.PersistentFlags().String("end", "", `analysis end date (default "now")`)
	rootCmd.PersistentFlags().Duration("timeout", 0, "analysis timeout (default 10m)")
	rootCmd.PersistentFlags().Int("depth", -1, "maximum workspace scan depth (default 3)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := applyFlagOverrides(cmd, cfg); err != nil {
		return err
	}

	logger = newLogger(cmd.ErrOrStderr(), verbose, cfg.LogLevel)
	logger.Debug("config loaded", "path", cfgFile)
	return nil
}

// applyFlagOverrides copies explicitly set flags over file values.
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("start") {
		c.StartDate, _ = flags.GetString("start")
	}
	if flags.Changed("end") {
		c.EndDate, _ = flags.GetString("end")
	}
	if flags.Changed("timeout") {
		c.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("depth") {
		c.MaxDepth, _ = flags.GetInt("depth")
	}
	return c.Validate()
}

func newLogger(w io.Writer, verbose bool, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "gitactivity",
		Level:           lvl,
		ReportTimestamp: verbose,
	})
}

// tuiLogger keeps log lines off the alternate screen: they go to a
// file in the temp dir with --verbose and are dropped otherwise.
func tuiLogger() (*log.Logger, func(), error) {
	if !verbose {
		return log.New(io.Discard), func() {}, nil
	}
	path := filepath.Join(os.TempDir(), "gitactivity-debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening debug log: %w", err)
	}
	return newLogger(f, true, cfg.LogLevel), func() { _ = f.Close() }, nil
}

// workspaceFolders picks the folders to discover in: explicit args,
// then the configured workspace folders, then the working directory.
func workspaceFolders(args []string) ([]string, error) {
	if len(args) > 0 {
		folders := make([]string, len(args))
		for i, a := range args {
			folders[i] = config.ExpandHome(a)
		}
		return folders, nil
	}
	if len(cfg.WorkspaceFolders) > 0 {
		return cfg.WorkspaceFolders, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	return []string{wd}, nil
}
