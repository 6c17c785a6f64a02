package analysis

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// Output is the fully buffered output of a finished process.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner starts a process in dir and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Output, error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	// Children of a killed script may hold the pipes open
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}
