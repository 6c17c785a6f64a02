// Package desktop hands paths to the host OS: opening files in the
// default viewer and copying text to the clipboard.
package desktop

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// OpenCommand returns the command that opens path with the OS default
// application for goos.
func OpenCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("explorer", path)
	default:
		return exec.Command("xdg-open", path)
	}
}

func Open(path string) error {
	cmd := OpenCommand(runtime.GOOS, path)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	// The viewer outlives us; reap it in the background.
	go func() { _ = cmd.Wait() }()
	return nil
}

func Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
