package config

import "strings"

// normalizeConfig case-folds enumerations and trims paths. Unknown enumeration
// values are validation errors rather than silently defaulted.
func normalizeConfig(cfg *Config) error {
	cfg.Version = strings.TrimSpace(cfg.Version)
	cfg.Input.Metadata = strings.TrimSpace(cfg.Input.Metadata)
	cfg.Input.Comments = strings.TrimSpace(cfg.Input.Comments)
	cfg.Output.Directory = strings.TrimSpace(cfg.Output.Directory)
	cfg.Output.Report = strings.TrimSpace(cfg.Output.Report)
	cfg.Metrics.Textfile = strings.TrimSpace(cfg.Metrics.Textfile)

	if raw := string(cfg.Logging.Level); raw != "" {
		level, err := logLevelNormalizer.Parse(raw)
		if err != nil {
			return err
		}
		cfg.Logging.Level = level
	}
	if raw := string(cfg.Logging.Format); raw != "" {
		format, err := logFormatNormalizer.Parse(raw)
		if err != nil {
			return err
		}
		cfg.Logging.Format = format
	}
	return nil
}
