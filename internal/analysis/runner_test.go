package analysis

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackchuka/gitactivity/internal/config"
	"github.com/jackchuka/gitactivity/internal/model"
)

func requireBash(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not found in PATH")
	}
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/bash\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestExecRunner_CapturesOutput(t *testing.T) {
	requireBash(t)

	dir := t.TempDir()
	out, err := ExecRunner{}.Run(context.Background(), dir, "bash", "-c", "pwd; echo oops >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(string(out.Stdout)))
	wantDir, _ := filepath.EvalSymlinks(dir)
	if gotDir != wantDir {
		t.Errorf("working dir = %q, want %q", gotDir, wantDir)
	}
	if strings.TrimSpace(string(out.Stderr)) != "oops" {
		t.Errorf("Stderr = %q, want oops", out.Stderr)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	requireBash(t)

	out, err := ExecRunner{}.Run(context.Background(), t.TempDir(), "bash", "-c", "echo partial; exit 3")
	if err == nil {
		t.Fatal("Run() should fail on non-zero exit")
	}
	if strings.TrimSpace(string(out.Stdout)) != "partial" {
		t.Errorf("Stdout = %q, want output captured before exit", out.Stdout)
	}
}

func TestOrchestrator_RealScripts(t *testing.T) {
	requireBash(t)

	scripts := t.TempDir()
	writeScript(t, scripts, "gitstat.sh", `echo "range: $1 .. $2"
echo "Grafico generato con successo: activity_$(basename "$PWD").png"
`)
	writeScript(t, scripts, "gitstat-multi.sh", `shift 2
echo "repos: $#"
echo
echo "Report multi-progetto (Impact Score) generato con successo: $PWD/multi.png"
`)

	cfg := config.NewConfig()
	cfg.ScriptDir = scripts
	o := New(cfg)

	repoA := filepath.Join(t.TempDir(), "alpha")
	repoB := filepath.Join(t.TempDir(), "beta")
	for _, r := range []string{repoA, repoB} {
		if err := os.MkdirAll(r, 0755); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("single", func(t *testing.T) {
		req, _ := model.NewAnalysisRequest([]string{repoA}, "2 weeks ago", "now")
		res := o.Run(context.Background(), req)
		if res.Outcome() != model.OutcomeArtifact {
			t.Fatalf("Outcome() = %v, want artifact (message %q)", res.Outcome(), res.Message)
		}
		if want := filepath.Join(repoA, "activity_alpha.png"); res.ArtifactPath != want {
			t.Errorf("ArtifactPath = %q, want %q", res.ArtifactPath, want)
		}
		if !strings.Contains(res.Stdout, "range: 2 weeks ago .. now") {
			t.Errorf("Stdout = %q, want dates passed through", res.Stdout)
		}
	})

	t.Run("multi", func(t *testing.T) {
		req, _ := model.NewAnalysisRequest([]string{repoA, repoB}, "30 days ago", "now")
		res := o.Run(context.Background(), req)
		if res.Outcome() != model.OutcomeArtifact {
			t.Fatalf("Outcome() = %v, want artifact (message %q)", res.Outcome(), res.Message)
		}
		if !strings.Contains(res.Stdout, "repos: 2") {
			t.Errorf("Stdout = %q, want both repos passed", res.Stdout)
		}
		got, _ := filepath.EvalSymlinks(filepath.Dir(res.ArtifactPath))
		want, _ := filepath.EvalSymlinks(repoA)
		if got != want {
			t.Errorf("ArtifactPath = %q, want inside first repo %q", res.ArtifactPath, repoA)
		}
	})
}

func TestOrchestrator_RealScriptFailure(t *testing.T) {
	requireBash(t)

	scripts := t.TempDir()
	writeScript(t, scripts, "gitstat.sh", "echo boom >&2\nexit 1\n")

	cfg := config.NewConfig()
	cfg.ScriptDir = scripts
	o := New(cfg)

	req, _ := model.NewAnalysisRequest([]string{t.TempDir()}, "30 days ago", "now")
	res := o.Run(context.Background(), req)

	if res.Status != model.StatusFailure {
		t.Fatalf("Status = %v, want failure", res.Status)
	}
	if res.Message != "boom" {
		t.Errorf("Message = %q, want boom", res.Message)
	}
}

func TestOrchestrator_RealScriptTimeout(t *testing.T) {
	requireBash(t)

	scripts := t.TempDir()
	writeScript(t, scripts, "gitstat.sh", "exec sleep 5\n")

	cfg := config.NewConfig()
	cfg.ScriptDir = scripts
	cfg.Timeout = 100 * time.Millisecond
	o := New(cfg)

	req, _ := model.NewAnalysisRequest([]string{t.TempDir()}, "30 days ago", "now")
	start := time.Now()
	res := o.Run(context.Background(), req)

	if res.Status != model.StatusFailure {
		t.Fatalf("Status = %v, want failure", res.Status)
	}
	if !strings.Contains(res.Message, "timed out") {
		t.Errorf("Message = %q, want timeout", res.Message)
	}
	if elapsed := time.Since(start); elapsed > 4*time.Second {
		t.Errorf("Run took %v, want it killed near the timeout", elapsed)
	}
}
