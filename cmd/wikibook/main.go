package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"wikibook/cmd/wikibook/commands"
	"wikibook/internal/errors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("wikibook"),
		kong.Description("Build a LaTeX book from a MediaWiki table-of-contents page."),
		kong.Vars{"version": version},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(err)
	}
}
