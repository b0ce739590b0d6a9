// Package latex runs pdflatex over a generated book directory.
package latex

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"wikibook/internal/errors"
	"wikibook/internal/logfields"
)

const binary = "pdflatex"

// Runner invokes pdflatex inside the output directory.
type Runner struct {
	path string
}

// NewRunner locates the pdflatex binary on PATH.
func NewRunner() (*Runner, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, errors.LatexRunFailed(err).WithContext("reason", "binary not found in PATH")
	}
	return &Runner{path: path}, nil
}

// Available reports whether a pdflatex binary can be found on PATH.
func Available() bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

// Render compiles main.tex in dir. It removes any stale main.pdf first and
// runs pdflatex twice so the table of contents picks up the final page
// numbers.
func (r *Runner) Render(ctx context.Context, dir string) error {
	stale := filepath.Join(dir, "main.pdf")
	if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
		return errors.WorkspaceError("remove stale main.pdf", err)
	}

	for pass := 1; pass <= 2; pass++ {
		slog.Info("Running pdflatex", logfields.Path(dir), logfields.Pass(pass))
		cmd := exec.CommandContext(ctx, r.path, "-interaction=nonstopmode", "main.tex")
		cmd.Dir = dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return errors.LatexRunFailed(err).WithContext("pass", pass)
		}
	}
	return nil
}
