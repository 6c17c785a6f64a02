package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackchuka/gitactivity/internal/model"
)

type Config struct {
	// Discovery
	WorkspaceFolders []string `yaml:"workspace_folders"`
	ExcludedNames    []string `yaml:"excluded_names"`
	MaxDepth         int      `yaml:"max_depth"`
	Marker           string   `yaml:"marker"`
	FollowSymlinks   bool     `yaml:"follow_symlinks"`

	// Analysis scripts
	ScriptDir    string        `yaml:"script_dir"`
	SingleScript string        `yaml:"single_script"`
	MultiScript  string        `yaml:"multi_script"`
	Interpreter  string        `yaml:"interpreter"`
	StartDate    string        `yaml:"start_date"`
	EndDate      string        `yaml:"end_date"`
	Timeout      time.Duration `yaml:"timeout"`

	// Watch mode
	PollInterval time.Duration `yaml:"poll_interval"`

	LogLevel string `yaml:"log_level"`
}

const (
	DefaultStartDate = "30 days ago"
	DefaultEndDate   = "now"
)

func NewConfig() *Config {
	return &Config{
		WorkspaceFolders: []string{},
		ExcludedNames:    model.DefaultExcludedNames(),
		MaxDepth:         model.DefaultMaxDepth,
		Marker:           model.DefaultMarker,
		SingleScript:     "gitstat.sh",
		MultiScript:      "gitstat-multi.sh",
		Interpreter:      "bash",
		StartDate:        DefaultStartDate,
		EndDate:          DefaultEndDate,
		Timeout:          10 * time.Minute,
		PollInterval:     30 * time.Second,
		LogLevel:         "warn",
	}
}

// ScanConfig returns the traversal settings for workspace discovery.
func (c *Config) ScanConfig() model.ScanConfig {
	excluded := make([]string, len(c.ExcludedNames))
	copy(excluded, c.ExcludedNames)
	return model.ScanConfig{
		MaxDepth:       c.MaxDepth,
		ExcludedNames:  excluded,
		Marker:         c.Marker,
		FollowSymlinks: c.FollowSymlinks,
	}
}

// ScriptPath resolves a script name against ScriptDir.
func (c *Config) ScriptPath(name string) string {
	if filepath.IsAbs(name) || c.ScriptDir == "" {
		return name
	}
	return filepath.Join(c.ScriptDir, name)
}

func (c *Config) Validate() error {
	var errs []error
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must be non-negative, got %d", c.MaxDepth))
	}
	if c.Marker == "" {
		errs = append(errs, errors.New("marker must not be empty"))
	}
	if c.SingleScript == "" || c.MultiScript == "" {
		errs = append(errs, errors.New("single_script and multi_script must be set"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}
