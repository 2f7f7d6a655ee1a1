package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/refdoc/internal/config"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Metadata string `arg:"" optional:"" help:"Metadata dump (YAML) of the assembly; overrides input.metadata" type:"path"`
	Output   string `arg:"" optional:"" help:"Output directory; overrides output.directory" type:"path"`

	Comments      string `name:"comments" help:"Documentation comment file (default: metadata path with .xml extension)" type:"path"`
	Workers       int    `name:"workers" help:"Concurrent page writers (default: configuration or CPU count)"`
	FrontMatter   bool   `name:"frontmatter" help:"Prefix pages with YAML front matter"`
	NoVerifyLinks bool   `name:"no-verify-links" help:"Skip checking links between generated pages"`
	Clean         bool   `name:"clean" help:"Remove pages not produced by this run"`
	MetricsFile   string `name:"metrics-file" help:"Write Prometheus metrics to this textfile" type:"path"`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig(global)
	if err != nil {
		return err
	}
	if err := g.apply(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	_, err = runGenerate(ctx, cfg, global)
	return err
}

// apply overrides configuration values with flags and re-validates.
func (g *GenerateCmd) apply(cfg *config.Config) error {
	if g.Metadata != "" {
		cfg.Input.Metadata = g.Metadata
		if g.Comments == "" {
			// The configured comments file belongs to the configured metadata.
			cfg.Input.Comments = ""
		}
	}
	if g.Comments != "" {
		cfg.Input.Comments = g.Comments
	}
	if g.Output != "" {
		cfg.Output.Directory = g.Output
	}
	if g.Workers > 0 {
		cfg.Render.Workers = g.Workers
	}
	if g.FrontMatter {
		cfg.Output.FrontMatter = true
	}
	if g.NoVerifyLinks {
		off := false
		cfg.Render.VerifyLinks = &off
	}
	if g.Clean {
		cfg.Output.Clean = true
	}
	if g.MetricsFile != "" {
		cfg.Metrics.Textfile = g.MetricsFile
	}
	return config.ValidateConfig(cfg)
}
