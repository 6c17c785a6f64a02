package cmd

import (
	"fmt"

	"github.com/jackchuka/gitactivity/internal/model"
)

const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitNoRepository = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCode maps an analysis outcome to the process exit code. A run
// that succeeds without printing an artifact line still exits 0.
func exitCode(res model.AnalysisResult) int {
	if res.Outcome() == model.OutcomeFailure {
		return ExitFailure
	}
	return ExitOK
}
