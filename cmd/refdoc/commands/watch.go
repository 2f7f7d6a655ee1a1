package commands

import (
	"context"
	"os/signal"
	"syscall"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/refdoc/internal/logfields"
	"git.home.luguber.info/inful/refdoc/internal/watch"
)

// WatchCmd implements the 'watch' command: one generation up front, then one
// per debounced change of the inputs.
type WatchCmd struct {
	GenerateCmd `embed:""`

	Debounce string `name:"debounce" help:"Quiet period before regenerating (default: watch.debounce)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	cfg, err := root.loadConfig(global)
	if err != nil {
		return err
	}
	if w.Debounce != "" {
		cfg.Watch.Debounce = w.Debounce
	}
	if err := w.apply(cfg); err != nil {
		return err
	}
	if cfg.Input.Metadata == "" {
		return ferrors.ValidationError("no metadata file to watch").
			WithHint("pass the metadata dump as an argument or set input.metadata").Build()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	regenerate := func(ctx context.Context) error {
		_, err := runGenerate(ctx, cfg, global)
		return err
	}
	if err := regenerate(ctx); err != nil {
		// Keep watching; the next edit may fix the input.
		global.Logger.Error("initial generation failed", logfields.Error(err))
	}

	watcher, err := watch.New(
		[]string{cfg.Input.Metadata, cfg.Input.CommentsPath()},
		cfg.Watch.DebounceDuration(),
		regenerate,
		global.Logger,
	)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
