package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/refdoc/cmd/refdoc/commands"
	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/version"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{Logger: slog.Default()}

	kctx := kong.Parse(&cli,
		kong.Name("refdoc"),
		kong.Description("Generate Markdown API reference pages for a .NET assembly."),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
		kong.UsageOnError(),
	)

	if err := kctx.Run(global, &cli); err != nil {
		// HandleError prints, logs and exits with the category's code.
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
