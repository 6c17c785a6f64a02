package cmd

import (
	"errors"
	"testing"

	"github.com/jackchuka/gitactivity/internal/analysis"
	"github.com/jackchuka/gitactivity/internal/model"
	"github.com/jackchuka/gitactivity/internal/scanner"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		res  model.AnalysisResult
		want int
	}{
		{"artifact", model.AnalysisResult{Status: model.StatusSuccess, ArtifactPath: "/r/out.png"}, ExitOK},
		{"no artifact", model.AnalysisResult{Status: model.StatusSuccess}, ExitOK},
		{"failure", model.Failure("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.res); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResultError(t *testing.T) {
	if err := resultError(model.AnalysisResult{Status: model.StatusSuccess}); err != nil {
		t.Errorf("resultError(success) = %v, want nil", err)
	}

	err := resultError(model.Failure("boom"))
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("resultError(failure) = %T, want *ExitError", err)
	}
	if exitErr.Code != ExitFailure {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitFailure)
	}
	var runErr *analysis.RunError
	if !errors.As(err, &runErr) {
		t.Fatal("ExitError should wrap *analysis.RunError")
	}
	if runErr.Result.Message != "boom" {
		t.Errorf("Message = %q, want %q", runErr.Result.Message, "boom")
	}
}

func TestExitError(t *testing.T) {
	err := &ExitError{Code: ExitNoRepository, Err: scanner.ErrNoRepository}
	if err.Error() != scanner.ErrNoRepository.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), scanner.ErrNoRepository.Error())
	}
	if !errors.Is(err, scanner.ErrNoRepository) {
		t.Error("errors.Is should see the wrapped sentinel")
	}

	bare := &ExitError{Code: 3}
	if bare.Error() != "exit status 3" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 3")
	}
}
