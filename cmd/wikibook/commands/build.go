package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wikibook/internal/book"
	"wikibook/internal/config"
	"wikibook/internal/convert"
	"wikibook/internal/errors"
	"wikibook/internal/export"
	"wikibook/internal/latex"
	"wikibook/internal/manifest"
	"wikibook/internal/toc"
	"wikibook/internal/transclude"
	"wikibook/internal/wiki"
	"wikibook/internal/workspace"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output     string `short:"o" help:"Output directory for the generated LaTeX book (overrides config)"`
	RenderMode string `name:"render-mode" help:"Override build.render_mode (auto|always|never). Precedence: --render-mode > env vars (skip/run) > config."`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to load configuration").
			WithContext("path", root.Config)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	if b.RenderMode != "" {
		if rm := config.NormalizeRenderMode(b.RenderMode); rm != "" {
			cfg.Build.RenderMode = rm
			slog.Info("Render mode overridden via CLI flag", "mode", rm)
		} else {
			slog.Warn("Ignoring invalid --render-mode value", "value", b.RenderMode)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return RunBuild(ctx, cfg)
}

// RunBuild executes the full pipeline: download the wiki export, parse the
// outline into a chapter tree, render every chapter to LaTeX and optionally
// compile the PDF.
func RunBuild(ctx context.Context, cfg *config.Config) error {
	fmt.Println("Starting wikibook build")
	started := time.Now()

	m := manifest.New()
	m.Inputs = manifest.Inputs{
		WikiURL:    cfg.Wiki.BaseURL,
		ExportRoot: cfg.Book.ExportRoot,
		TocPage:    cfg.Book.TocPage,
	}
	if hash, err := manifest.HashConfig(cfg); err == nil {
		m.Inputs.ConfigHash = hash
	}

	ws := workspace.NewManager(cfg.Output)
	if err := ws.Prepare(); err != nil {
		return err
	}

	client, err := wiki.NewClient(cfg.Wiki, cfg.Build.RetryPolicy())
	if err != nil {
		return err
	}

	if client.HasCredentials() {
		slog.Info("Logging in to wiki", "url", cfg.Wiki.BaseURL, "user", cfg.Wiki.Username)
		if err := client.Login(ctx); err != nil {
			return err
		}
	} else {
		slog.Info("No credentials configured, proceeding anonymously")
	}

	slog.Info("Downloading export", "root", cfg.Book.ExportRoot, "depth", cfg.Book.ExportDepth)
	data, err := client.DownloadExport(ctx, cfg.Book.ExportRoot, cfg.Book.ExportDepth)
	if err != nil {
		return err
	}
	m.Inputs.ExportBytes = int64(len(data))
	if err := os.WriteFile(ws.ExportPath(), data, 0o644); err != nil {
		return errors.WorkspaceError("write export bundle", err)
	}
	slog.Info("Export downloaded", "bytes", len(data), "path", ws.ExportPath())

	store, err := export.Parse(data)
	if err != nil {
		return err
	}
	slog.Info("Export parsed", "pages", store.Len())

	tree, conv, err := buildOutline(ctx, cfg, client, store)
	if err != nil {
		return err
	}
	slog.Info("Table of contents parsed", "entries", toc.Count(tree))

	fetch := transclude.RenderedTableFetcher(client.ParsePage, conv)
	resolver := transclude.NewResolver(fetch, cfg.Build.Transclusions)

	gen := book.NewGenerator(cfg.Book, store, conv, resolver, ws.OutputDir())
	rep, err := gen.WriteBook(ctx, tree)
	if err != nil {
		return err
	}
	slog.Info("Book generated",
		"chapters", rep.Chapters,
		"skipped", rep.Skipped,
		"missing", rep.Missing,
		"main", filepath.Join(ws.OutputDir(), book.MainFileName))

	m.Outputs = manifest.Outputs{
		Chapters:     rep.Chapters,
		Skipped:      rep.Skipped,
		MissingPages: rep.Missing,
		MainFile:     book.MainFileName,
	}

	renderErr := maybeRenderPDF(ctx, cfg, ws.OutputDir(), m)

	status := "success"
	if renderErr != nil {
		status = "latex_failed"
	}
	m.Finish(status, started)
	if err := m.Write(filepath.Join(ws.OutputDir(), manifest.FileName)); err != nil {
		slog.Warn("Failed to write build manifest", "error", err)
	}

	if renderErr != nil {
		return renderErr
	}
	fmt.Printf("Build complete: %d chapters in %s\n", rep.Chapters, ws.OutputDir())
	return nil
}

// buildOutline fetches the outline page from the export, converts it to HTML
// and parses the nested list into the ordered chapter tree.
func buildOutline(ctx context.Context, cfg *config.Config, client *wiki.Client, store *export.Store) ([]*toc.Node, convert.Converter, error) {
	outline, err := store.Outline(cfg.Book.TocPage)
	if err != nil {
		return nil, nil, err
	}

	conv, err := convert.NewPandoc(cfg.Build.PandocPath)
	if err != nil {
		return nil, nil, err
	}

	outlineHTML, err := conv.Convert(ctx, outline, convert.FormatMediaWiki, convert.FormatHTML)
	if err != nil {
		return nil, nil, err
	}

	tree, err := toc.BuildTree(outlineHTML, client.BaseURL())
	if err != nil {
		return nil, nil, err
	}
	return tree, conv, nil
}

// maybeRenderPDF runs pdflatex according to the effective render mode.
func maybeRenderPDF(ctx context.Context, cfg *config.Config, dir string, m *manifest.BuildManifest) error {
	switch config.ResolveEffectiveRenderMode(cfg) {
	case config.RenderModeNever:
		slog.Info("Skipping pdflatex run (render mode never)")
		return nil
	case config.RenderModeAuto:
		if !latex.Available() {
			slog.Warn("pdflatex not found in PATH, skipping PDF render")
			return nil
		}
	}

	runner, err := latex.NewRunner()
	if err != nil {
		return err
	}
	if err := runner.Render(ctx, dir); err != nil {
		return err
	}
	m.Outputs.PDFRendered = true
	slog.Info("PDF rendered", "path", filepath.Join(dir, "main.pdf"))
	return nil
}
