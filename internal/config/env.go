package config

import (
	"log/slog"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/refdoc/internal/logfields"
)

// envFiles are tried in order; variables already set are never overridden.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads every env file that exists. godotenv.Load keeps
// existing variables, so the process environment always wins.
func loadEnvFiles() {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err == nil {
			slog.Debug("Loaded environment file", logfields.Path(path))
		}
	}
}
