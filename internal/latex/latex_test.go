package latex

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"wikibook/internal/errors"
)

func TestRenderWithStubBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}

	binDir := t.TempDir()
	stub := filepath.Join(binDir, "pdflatex")
	script := "#!/bin/sh\necho run >> \"$PWD/passes.log\"\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	if !Available() {
		t.Fatal("stub binary not visible on PATH")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.pdf"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRunner()
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if err := r.Render(context.Background(), dir); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Stale PDF removed before the first pass.
	if _, err := os.Stat(filepath.Join(dir, "main.pdf")); !os.IsNotExist(err) {
		t.Errorf("stale main.pdf survived: err=%v", err)
	}

	log, err := os.ReadFile(filepath.Join(dir, "passes.log"))
	if err != nil {
		t.Fatalf("stub never ran: %v", err)
	}
	if got := string(log); got != "run\nrun\n" {
		t.Errorf("expected two passes, log = %q", got)
	}
}

func TestRenderFailureCategory(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}

	binDir := t.TempDir()
	stub := filepath.Join(binDir, "pdflatex")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	r, err := NewRunner()
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	err = r.Render(context.Background(), t.TempDir())
	if err == nil {
		t.Fatal("expected failure from non-zero exit")
	}
	if !errors.IsCategory(err, errors.CategoryLatex) {
		t.Errorf("wrong category: %v", err)
	}
}

func TestNewRunnerMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if Available() {
		t.Fatal("unexpected pdflatex on empty PATH")
	}
	if _, err := NewRunner(); err == nil {
		t.Fatal("expected error when binary is missing")
	}
}
