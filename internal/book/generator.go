package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"wikibook/internal/config"
	"wikibook/internal/convert"
	"wikibook/internal/errors"
	"wikibook/internal/logfields"
	"wikibook/internal/toc"
)

// ChaptersDirName is the subdirectory of the output directory that holds
// the generated per-chapter files referenced from main.tex.
const ChaptersDirName = "chapters"

// MainFileName is the top-level LaTeX document the renderer produces.
const MainFileName = "main.tex"

// Store looks up exported page wikitext by title.
type Store interface {
	Lookup(title string) (string, bool)
}

// Resolver expands transclusion markers inside page wikitext.
type Resolver interface {
	Resolve(ctx context.Context, body string) (string, error)
}

// Report summarizes a rendering run.
type Report struct {
	Chapters int
	Skipped  int
	Missing  int
}

// Generator renders an ordered chapter tree into a LaTeX book: one file per
// chapter under chapters/, plus a main.tex whose \include sequence preserves
// the tree's pre-order.
type Generator struct {
	book      config.BookConfig
	store     Store
	conv      convert.Converter
	resolver  Resolver
	outputDir string

	// safe name -> source title, for duplicate detection
	seen map[string]string
}

func NewGenerator(book config.BookConfig, store Store, conv convert.Converter, resolver Resolver, outputDir string) *Generator {
	return &Generator{
		book:      book,
		store:     store,
		conv:      conv,
		resolver:  resolver,
		outputDir: outputDir,
		seen:      make(map[string]string),
	}
}

// WriteBook renders the tree into the output directory and returns a report.
// Chapter files are written before their include line lands in main.tex, so
// a failed run never leaves main.tex referencing a missing file.
func (g *Generator) WriteBook(ctx context.Context, nodes []*toc.Node) (*Report, error) {
	if err := os.MkdirAll(filepath.Join(g.outputDir, ChaptersDirName), 0o755); err != nil {
		return nil, errors.WorkspaceError("create chapters directory", err)
	}

	mainPath := filepath.Join(g.outputDir, MainFileName)
	f, err := os.Create(mainPath)
	if err != nil {
		return nil, errors.WorkspaceError("create "+MainFileName, err)
	}
	defer f.Close()

	if err := g.writePreamble(f); err != nil {
		return nil, errors.WorkspaceError("write "+MainFileName, err)
	}

	rep := &Report{}
	if err := g.renderNodes(ctx, f, nodes, rep); err != nil {
		return nil, err
	}

	if _, err := io.WriteString(f, "\n\\end{document}\n"); err != nil {
		return nil, errors.WorkspaceError("write "+MainFileName, err)
	}
	if err := f.Close(); err != nil {
		return nil, errors.WorkspaceError("close "+MainFileName, err)
	}
	return rep, nil
}

func (g *Generator) writePreamble(w io.Writer) error {
	_, err := fmt.Fprintf(w, `\documentclass{%s}


\title{%s}
\author{%s}
\date{\today}

\begin{document}

\maketitle
\tableofcontents
\cleardoublepage

`, g.book.DocumentClass, g.book.Title, g.book.Author)
	return err
}

func (g *Generator) renderNodes(ctx context.Context, w io.Writer, nodes []*toc.Node, rep *Report) error {
	for _, node := range nodes {
		if g.skip(node.Title) {
			slog.Info("Skipping reserved page", logfields.Title(node.Title))
			rep.Skipped++
			continue
		}

		safe := SafeName(node.Title)
		if prev, ok := g.seen[safe]; ok {
			return errors.DuplicateChapterFile(safe+".tex", node.Title, prev)
		}
		g.seen[safe] = node.Title

		body, err := g.chapterBody(ctx, node, rep)
		if err != nil {
			return err
		}

		path := filepath.Join(g.outputDir, ChaptersDirName, safe+".tex")
		content := fmt.Sprintf("\\%s{%s}\n\n%s", headingFor(node.Depth), node.Title, DemoteHeadings(body))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return errors.WorkspaceError("write chapter "+safe+".tex", err)
		}
		slog.Debug("Chapter written", logfields.Title(node.Title), logfields.File(safe+".tex"), logfields.Depth(node.Depth))
		rep.Chapters++

		indent := strings.Repeat("  ", node.Depth)
		if _, err := fmt.Fprintf(w, "%s\\include{%s/%s}\n", indent, ChaptersDirName, safe); err != nil {
			return errors.WorkspaceError("write "+MainFileName, err)
		}

		if err := g.renderNodes(ctx, w, node.Children, rep); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) chapterBody(ctx context.Context, node *toc.Node, rep *Report) (string, error) {
	if !node.HasLink {
		return "", nil
	}
	raw, ok := g.store.Lookup(node.Title)
	if !ok {
		slog.Warn("Page missing from export, writing empty chapter", logfields.Title(node.Title))
		rep.Missing++
		return "", nil
	}
	expanded, err := g.resolver.Resolve(ctx, raw)
	if err != nil {
		return "", err
	}
	rendered, err := g.conv.Convert(ctx, expanded, convert.FormatMediaWiki, convert.FormatLaTeX)
	if err != nil {
		if be, ok := err.(*errors.BuildError); ok {
			return "", be.WithContext("title", node.Title)
		}
		return "", err
	}
	return PostProcess(rendered), nil
}

func (g *Generator) skip(title string) bool {
	for _, prefix := range g.book.SkipPrefixes {
		if prefix != "" && strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// headingFor maps tree depth to a LaTeX sectioning command: top-level nodes
// become parts, everything below them chapters.
func headingFor(depth int) string {
	if depth == 0 {
		return "part"
	}
	return "chapter"
}
