// Package convert wraps the external pandoc binary behind a small Converter
// interface so the rest of the pipeline treats markup conversion as a pure
// text-to-text function.
package convert

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"wikibook/internal/errors"
)

// Format names understood by pandoc. Opaque strings as far as callers go.
const (
	FormatMediaWiki = "mediawiki"
	FormatHTML      = "html"
	FormatLaTeX     = "latex"
)

// Converter converts text between markup formats.
type Converter interface {
	Convert(ctx context.Context, text, from, to string) (string, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, text, from, to string) (string, error)

func (f ConverterFunc) Convert(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}

// Pandoc converts markup by invoking the pandoc binary.
type Pandoc struct {
	path string
}

// NewPandoc locates the pandoc binary on PATH (or at the given override path)
// and returns a Converter backed by it.
func NewPandoc(override string) (*Pandoc, error) {
	candidate := override
	if candidate == "" {
		candidate = "pandoc"
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConvert, errors.SeverityFatal, "pandoc binary not found").
			WithContext("path", candidate)
	}
	return &Pandoc{path: path}, nil
}

// Convert runs pandoc -f <from> -t <to> with text on stdin.
func (p *Pandoc) Convert(ctx context.Context, text, from, to string) (string, error) {
	cmd := exec.CommandContext(ctx, p.path, "-f", from, "-t", to)
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		converr := errors.ConversionFailed(from, to, err)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			converr = converr.WithContext("stderr", msg)
		}
		return "", converr
	}
	return stdout.String(), nil
}
