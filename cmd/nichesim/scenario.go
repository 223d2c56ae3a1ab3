package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"niche-ca/internal/config"
	"niche-ca/internal/sims/competition"
)

// loadScenario resolves --config, NICHE_* variables and --set overrides into a
// validated competition config and installs the configured logger.
func loadScenario(cmd *cobra.Command) (competition.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	sets, _ := cmd.Flags().GetStringArray("set")

	scenario, err := config.Load(path)
	if err != nil {
		return competition.Config{}, nil, fmt.Errorf("loading scenario: %w", err)
	}
	logger := newLogger(cmd.ErrOrStderr(), scenario.LogLevel())

	cfg, err := scenario.Competition()
	if err != nil {
		return competition.Config{}, nil, err
	}
	overrides, err := parseSets(sets)
	if err != nil {
		return competition.Config{}, nil, err
	}
	if cfg, err = cfg.With(overrides); err != nil {
		return competition.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return competition.Config{}, nil, err
	}
	return cfg, logger, nil
}

func parseSets(sets []string) (map[string]string, error) {
	out := make(map[string]string, len(sets))
	for _, s := range sets {
		key, val, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("--set expects key=value, got %q", s)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	return out, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func rosterNames(cfg competition.Config) []string {
	names := make([]string, len(cfg.Populations))
	for i, p := range cfg.Populations {
		names[i] = p.Name
	}
	return names
}
