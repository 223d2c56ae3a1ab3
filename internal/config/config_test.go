package config

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"niche-ca/internal/sims/competition"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	s := Default()
	if s.Grid.Rows != 101 || s.Grid.Cols != 101 {
		t.Errorf("expected a 101x101 grid, got %dx%d", s.Grid.Rows, s.Grid.Cols)
	}
	if s.Simulation.Seed != 1 {
		t.Errorf("expected seed 1, got %d", s.Simulation.Seed)
	}
	if s.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", s.Logging.Level)
	}
	if len(s.Populations) != 2 {
		t.Fatalf("expected two default populations, got %d", len(s.Populations))
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	cfg, err := s.Competition()
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}
	def := competition.DefaultConfig()
	if cfg.Rows != def.Rows || cfg.Params != def.Params || cfg.Populations[1].Name != "B" {
		t.Fatalf("converted defaults differ: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, "scenario.yaml", `
grid:
  rows: 20
  cols: 30
simulation:
  seed: 9
  iterations: 50
  mode: variable
conditions:
  generator: normal
  mean: 0.5
  variance: 0.2
occupancy:
  generator: pointStart
  point_count: 4
populations:
  - name: A
    niche: [1]
    tolerance: [[1]]
    diffusion_speed: 1
  - name: B
    niche: [0]
    tolerance: [[0.5]]
    diffusion_speed: 2
  - name: C
    niche: [0.5]
    tolerance: [[2]]
    diffusion_speed: 1
logging:
  level: debug
`)
	s, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if s.Grid.Rows != 20 || s.Grid.Cols != 30 || s.Simulation.Iterations != 50 {
		t.Errorf("unexpected sizes %+v %+v", s.Grid, s.Simulation)
	}
	if s.Conditions.Unit != 0.1 {
		t.Errorf("unset keys should keep defaults, unit = %v", s.Conditions.Unit)
	}
	if s.LogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", s.LogLevel())
	}

	cfg, err := s.Competition()
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}
	if cfg.Mode != competition.ModeVariable || cfg.Params.DistVar != 0.2 || cfg.Params.PointCount != 4 {
		t.Errorf("unexpected conversion %+v", cfg)
	}
	if cfg.Populations[1].Tolerance[0][0] != 0.5 || cfg.Populations[1].DiffusionSpeed != 2 {
		t.Errorf("population B = %+v", cfg.Populations[1])
	}
	if _, err := competition.New(cfg); err != nil {
		t.Fatalf("scenario should build: %v", err)
	}
}

func TestLoadFromFileRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "typo.yaml", `
grid:
  rows: 5
  colums: 5
`)
	_, err := LoadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "colums") {
		t.Fatalf("expected an unknown-field error, got %v", err)
	}
}

func TestValidateMissingKeys(t *testing.T) {
	cases := map[string]struct {
		yaml string
		key  string
	}{
		"rows":        {"grid: {cols: 5}\nsimulation: {iterations: 3}\npopulations: [{name: A, niche: [1], tolerance: [[1]]}]", "grid.rows"},
		"cols":        {"grid: {rows: 5}\nsimulation: {iterations: 3}\npopulations: [{name: A, niche: [1], tolerance: [[1]]}]", "grid.cols"},
		"iterations":  {"grid: {rows: 5, cols: 5}\npopulations: [{name: A, niche: [1], tolerance: [[1]]}]", "simulation.iterations"},
		"populations": {"grid: {rows: 5, cols: 5}\nsimulation: {iterations: 3}", "populations"},
		"niche":       {"grid: {rows: 5, cols: 5}\nsimulation: {iterations: 3}\npopulations: [{name: A, tolerance: [[1]]}]", "populations[0].niche"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := LoadFromFile(writeFile(t, "s.yaml", tc.yaml))
			if err != nil {
				t.Fatalf("LoadFromFile: %v", err)
			}
			err = s.Validate()
			if !errors.Is(err, ErrMissingKey) || !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("expected missing %s, got %v", tc.key, err)
			}
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	s := Default()
	s.Logging.Level = "chatty"
	if err := s.Validate(); err == nil {
		t.Fatal("expected an invalid level error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NICHE_SEED", "77")
	t.Setenv("NICHE_ITERATIONS", "12")
	t.Setenv("NICHE_LOG_LEVEL", "warn")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Simulation.Seed != 77 || s.Simulation.Iterations != 12 {
		t.Errorf("overrides not applied: %+v", s.Simulation)
	}
	if s.LogLevel() != slog.LevelWarn {
		t.Errorf("expected warn, got %v", s.LogLevel())
	}

	t.Setenv("NICHE_SEED", "abc")
	if _, err := Load(""); err == nil {
		t.Fatal("expected a parse error for NICHE_SEED")
	}
}

func TestCompetitionRejectsBadRoster(t *testing.T) {
	s := Default()
	s.Populations[0].Tolerance = [][]float64{{1, 0}, {0, 1}}
	if _, err := s.Competition(); !errors.Is(err, competition.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestCompetitionLoadsImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.png")
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.SetGray(0, 0, color.Gray{Y: 0})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := Default()
	s.Grid = GridConfig{Rows: 2, Cols: 3}
	s.Conditions.Generator = "image"
	s.Conditions.Images = []ImageConfig{{Path: path}}
	cfg, err := s.Competition()
	if err != nil {
		t.Fatalf("Competition: %v", err)
	}
	if len(cfg.Channels) != 1 || cfg.Channels[0][0] != 15 || cfg.Channels[0][1] != 0 {
		t.Fatalf("channels = %v", cfg.Channels)
	}

	s.Grid = GridConfig{Rows: 3, Cols: 3}
	if _, err := s.Competition(); err == nil {
		t.Fatal("expected a dimension error for a mismatched image")
	}
}
