package config

import (
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/refdoc/internal/foundation/errors"
)

// MaxWorkers bounds render.workers.
const MaxWorkers = 256

// ValidateConfig validates a normalized, defaulted configuration.
func ValidateConfig(cfg *Config) error {
	if cfg.Version != CurrentVersion {
		return ferrors.ValidationError("unsupported configuration version").
			WithContext("version", cfg.Version).
			WithContext("expected", CurrentVersion).
			Build()
	}
	if cfg.Render.Workers < 1 || cfg.Render.Workers > MaxWorkers {
		return ferrors.ValidationError("render.workers out of range").
			WithContext("workers", cfg.Render.Workers).
			WithContext("max", MaxWorkers).
			Build()
	}
	if cfg.Output.Report != ReportDisabled && strings.ContainsAny(cfg.Output.Report, `/\`) {
		return ferrors.ValidationError("output.report must be a file name, not a path").
			WithContext("report", cfg.Output.Report).
			Build()
	}
	if cfg.Output.Report != ReportDisabled && filepath.Ext(cfg.Output.Report) == ".md" {
		return ferrors.ValidationError("output.report must not be a Markdown file").
			WithContext("report", cfg.Output.Report).
			Build()
	}
	if d, err := time.ParseDuration(cfg.Watch.Debounce); err != nil || d <= 0 {
		return ferrors.ValidationError("watch.debounce must be a positive duration").
			WithContext("debounce", cfg.Watch.Debounce).
			Build()
	}
	if cfg.Input.Metadata != "" && cfg.Input.Comments != "" &&
		filepath.Clean(cfg.Input.Metadata) == filepath.Clean(cfg.Input.Comments) {
		return ferrors.ValidationError("input.comments must differ from input.metadata").Build()
	}
	return nil
}
