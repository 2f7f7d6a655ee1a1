// Package commands implements the refdoc subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/refdoc/internal/config"
	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/metrics"
	"git.home.luguber.info/inful/refdoc/internal/pipeline"
	"git.home.luguber.info/inful/refdoc/internal/storage"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing progress lines. Nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition and global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (optional)" default:"refdoc.yaml" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json); overrides the configuration"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate Markdown API pages from a metadata dump"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate whenever the metadata or comment file changes"`
}

// AfterApply runs after flag parsing; it installs a logger from the flags
// alone. Commands refine it once the configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	g.Logger = c.newLogger(config.LoggingConfig{})
	slog.SetDefault(g.Logger)
	return nil
}

// newLogger builds the logger: -v forces debug, --log-format overrides
// the configured format.
func (c *CLI) newLogger(lc config.LoggingConfig) *slog.Logger {
	level := config.NormalizeLogLevel(string(lc.Level)).SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	format := config.NormalizeLogFormat(string(lc.Format))
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// loadConfig reads the configuration file when present and reconfigures
// logging from it.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, found, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = c.newLogger(cfg.Logging)
	slog.SetDefault(g.Logger)
	if found {
		g.Logger.Debug("configuration loaded", logfields.Path(c.Config))
	}
	return cfg, nil
}

// runGenerate performs one generation run from a resolved configuration and
// writes the metrics textfile when configured.
func runGenerate(ctx context.Context, cfg *config.Config, g *Global) (*pipeline.RunReport, error) {
	if cfg.Input.Metadata == "" {
		return nil, ferrors.ValidationError("no metadata file given").
			WithHint("pass the metadata dump as an argument or set input.metadata").Build()
	}
	store, err := storage.NewFSStore(cfg.Output.Directory)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryOutput, "prepare output directory").
			WithContext("path", cfg.Output.Directory).Build()
	}
	defer func() { _ = store.Close() }()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if cfg.Metrics.Textfile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	report := ""
	if cfg.Output.ReportEnabled() {
		report = cfg.Output.Report
	}
	gen := pipeline.New(store, pipeline.Options{
		Workers:     cfg.Render.Workers,
		FrontMatter: cfg.Output.FrontMatter,
		VerifyLinks: cfg.Render.ShouldVerifyLinks(),
		Clean:       cfg.Output.Clean,
		ReportName:  report,
	}, pipeline.WithLogger(g.Logger), pipeline.WithRecorder(recorder))

	result, runErr := gen.Run(ctx, pipeline.Source{
		MetadataPath: cfg.Input.Metadata,
		CommentsPath: cfg.Input.CommentsPath(),
	})

	if registry != nil {
		if err := metrics.WriteTextfile(registry, cfg.Metrics.Textfile); err != nil {
			g.Logger.Warn("metrics textfile not written", logfields.Path(cfg.Metrics.Textfile), logfields.Error(err))
		}
	}
	if result != nil {
		_, _ = fmt.Fprintf(g.out(), "Generated %d pages (%d unchanged, %d failed) for %s into %s: %s\n",
			result.Pages.Written, result.Pages.Unchanged, result.Pages.Failed,
			result.Assembly, cfg.Output.Directory, result.Outcome)
	}
	return result, runErr
}
