package book

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikibook/internal/config"
	"wikibook/internal/convert"
	"wikibook/internal/errors"
	"wikibook/internal/toc"
)

type mapStore map[string]string

func (m mapStore) Lookup(title string) (string, bool) {
	text, ok := m[title]
	return text, ok
}

type resolverFunc func(ctx context.Context, body string) (string, error)

func (f resolverFunc) Resolve(ctx context.Context, body string) (string, error) {
	return f(ctx, body)
}

func passthroughResolver() Resolver {
	return resolverFunc(func(_ context.Context, body string) (string, error) {
		return body, nil
	})
}

func echoConverter() convert.Converter {
	return convert.ConverterFunc(func(_ context.Context, text, from, to string) (string, error) {
		return "[" + to + "] " + text, nil
	})
}

func testBookConfig() config.BookConfig {
	return config.BookConfig{
		Title:         "Test Book",
		Author:        "Test Author",
		DocumentClass: "style",
		SkipPrefixes:  []string{":Category:"},
	}
}

func TestWriteBookTree(t *testing.T) {
	dir := t.TempDir()
	store := mapStore{
		"Alpha": "alpha text",
		"Beta":  "beta text",
	}
	tree := []*toc.Node{
		{
			Title: "Alpha", HasLink: true, Depth: 0,
			Children: []*toc.Node{
				{Title: "Beta", HasLink: true, Depth: 1},
				{Title: "Gamma", HasLink: true, Depth: 1}, // absent from the store
			},
		},
		{Title: "Heading only", HasLink: false, Depth: 0},
	}

	g := NewGenerator(testBookConfig(), store, echoConverter(), passthroughResolver(), dir)
	rep, err := g.WriteBook(context.Background(), tree)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Chapters)
	assert.Equal(t, 1, rep.Missing)
	assert.Equal(t, 0, rep.Skipped)

	main, err := os.ReadFile(filepath.Join(dir, "main.tex"))
	require.NoError(t, err)
	text := string(main)

	assert.Contains(t, text, `\documentclass{style}`)
	assert.Contains(t, text, `\title{Test Book}`)
	assert.Contains(t, text, `\author{Test Author}`)
	assert.Contains(t, text, `\tableofcontents`)
	assert.True(t, strings.HasSuffix(text, "\\end{document}\n"))

	// Pre-order includes, indented by depth.
	wantIncludes := "\\include{chapters/Alpha}\n" +
		"  \\include{chapters/Beta}\n" +
		"  \\include{chapters/Gamma}\n" +
		"\\include{chapters/Heading_only}\n"
	assert.Contains(t, text, wantIncludes)

	alpha, err := os.ReadFile(filepath.Join(dir, "chapters", "Alpha.tex"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(alpha), "\\part{Alpha}\n\n"))
	assert.Contains(t, string(alpha), "[latex] alpha text")

	beta, err := os.ReadFile(filepath.Join(dir, "chapters", "Beta.tex"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(beta), "\\chapter{Beta}\n\n"))

	// Missing page still yields a chapter with a heading and empty body.
	gamma, err := os.ReadFile(filepath.Join(dir, "chapters", "Gamma.tex"))
	require.NoError(t, err)
	assert.Equal(t, "\\chapter{Gamma}\n\n", string(gamma))

	// Unlinked node gets a heading-only chapter without a store lookup.
	heading, err := os.ReadFile(filepath.Join(dir, "chapters", "Heading_only.tex"))
	require.NoError(t, err)
	assert.Equal(t, "\\part{Heading only}\n\n", string(heading))
}

func TestWriteBookSkipsReservedSubtree(t *testing.T) {
	dir := t.TempDir()
	tree := []*toc.Node{
		{
			Title: ":Category:Internal", HasLink: true, Depth: 0,
			Children: []*toc.Node{
				{Title: "Hidden child", HasLink: true, Depth: 1},
			},
		},
		{Title: "Visible", HasLink: false, Depth: 0},
	}

	g := NewGenerator(testBookConfig(), mapStore{}, echoConverter(), passthroughResolver(), dir)
	rep, err := g.WriteBook(context.Background(), tree)
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Chapters)
	assert.Equal(t, 1, rep.Skipped)

	main, err := os.ReadFile(filepath.Join(dir, "main.tex"))
	require.NoError(t, err)
	assert.NotContains(t, string(main), "Internal")
	assert.NotContains(t, string(main), "Hidden_child")

	entries, err := os.ReadDir(filepath.Join(dir, "chapters"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Visible.tex", entries[0].Name())
}

func TestWriteBookDuplicateChapterFile(t *testing.T) {
	dir := t.TempDir()
	tree := []*toc.Node{
		{Title: "Same name", HasLink: false, Depth: 0},
		{Title: "Same-name", HasLink: false, Depth: 0},
	}

	g := NewGenerator(testBookConfig(), mapStore{}, echoConverter(), passthroughResolver(), dir)
	_, err := g.WriteBook(context.Background(), tree)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))
	assert.Contains(t, err.Error(), "same chapter file")
}

func TestWriteBookConverterErrorCarriesTitle(t *testing.T) {
	dir := t.TempDir()
	failing := convert.ConverterFunc(func(_ context.Context, _, from, to string) (string, error) {
		return "", errors.ConversionFailed(from, to, os.ErrInvalid)
	})
	tree := []*toc.Node{{Title: "Broken", HasLink: true, Depth: 0}}

	g := NewGenerator(testBookConfig(), mapStore{"Broken": "x"}, failing, passthroughResolver(), dir)
	_, err := g.WriteBook(context.Background(), tree)
	require.Error(t, err)

	be, ok := err.(*errors.BuildError)
	require.True(t, ok)
	assert.Equal(t, "Broken", be.Context["title"])
}
