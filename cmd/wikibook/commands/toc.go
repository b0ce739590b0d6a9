package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wikibook/internal/config"
	"wikibook/internal/errors"
	"wikibook/internal/export"
	"wikibook/internal/toc"
	"wikibook/internal/wiki"
)

// TocCmd implements the 'toc' command: it downloads the export, parses the
// outline and prints the resulting chapter tree without writing any output.
type TocCmd struct{}

func (t *TocCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to load configuration").
			WithContext("path", root.Config)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := wiki.NewClient(cfg.Wiki, cfg.Build.RetryPolicy())
	if err != nil {
		return err
	}
	if client.HasCredentials() {
		if err := client.Login(ctx); err != nil {
			return err
		}
	}

	data, err := client.DownloadExport(ctx, cfg.Book.ExportRoot, cfg.Book.ExportDepth)
	if err != nil {
		return err
	}
	store, err := export.Parse(data)
	if err != nil {
		return err
	}
	slog.Debug("Export parsed", "pages", store.Len())

	tree, _, err := buildOutline(ctx, cfg, client, store)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d entries)\n", cfg.Book.TocPage, toc.Count(tree))
	printTree(tree)
	return nil
}

func printTree(nodes []*toc.Node) {
	for _, n := range nodes {
		marker := " "
		if n.HasLink {
			marker = "*"
		}
		fmt.Printf("%s%s %s\n", strings.Repeat("  ", n.Depth), marker, n.Title)
		printTree(n.Children)
	}
}
