package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"niche-ca/internal/render"
	"niche-ca/internal/sims/competition"
)

type populationResult struct {
	Name  string `json:"name"`
	Cells int    `json:"cells"`
}

type runResult struct {
	Scenario     string             `json:"scenario"`
	State        string             `json:"state"`
	Steps        int                `json:"steps"`
	Stationarity int                `json:"stationarity"`
	Populations  []populationResult `json:"populations"`
}

func summarize(sim *competition.Simulation) runResult {
	env := sim.Environment()
	res := runResult{
		Scenario:     env.Name(),
		State:        sim.State().String(),
		Steps:        sim.Time(),
		Stationarity: sim.StationarityTime(),
	}
	counts := env.Counts()
	for i, p := range env.Populations() {
		res.Populations = append(res.Populations, populationResult{Name: p.Name, Cells: counts[i]})
	}
	return res
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scenario until it converges or exhausts its iterations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			framesDir, _ := cmd.Flags().GetString("frames")
			moviePath, _ := cmd.Flags().GetString("movie")
			chartPath, _ := cmd.Flags().GetString("chart")
			dimension, _ := cmd.Flags().GetInt("dimension")
			fps, _ := cmd.Flags().GetInt("fps")
			scale, _ := cmd.Flags().GetInt("scale")

			if dimension < 0 || dimension >= cfg.ConditionDim() {
				return fmt.Errorf("--dimension %d out of range for %d condition components", dimension, cfg.ConditionDim())
			}

			env, err := competition.New(cfg)
			if err != nil {
				return err
			}
			logger.Info("scenario ready", "name", env.Name(), "rows", cfg.Rows, "cols", cfg.Cols, "iterations", cfg.Iterations)

			rec := &recorder{dir: framesDir, moviePath: moviePath, fps: fps, scale: scale, dimension: dimension, log: logger}
			opts := []competition.Option{competition.WithLogger(logger)}
			if rec.enabled() {
				if err := rec.open(); err != nil {
					return err
				}
				rec.observe(0, env)
				opts = append(opts, competition.WithObserver(rec.observe))
			}

			sim := competition.NewSimulation(env, cfg.Iterations, opts...)
			runErr := sim.Run(cmd.Context())
			if err := rec.close(); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			if chartPath != "" {
				if err := writeChart(chartPath, cfg, sim.Counts()); err != nil {
					return err
				}
			}

			res := summarize(sim)
			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(out).Encode(res)
			}
			fmt.Fprintf(out, "%s\n", res.Scenario)
			fmt.Fprintf(out, "state: %s after %d steps, stationarity %d\n", res.State, res.Steps, res.Stationarity)
			for _, p := range res.Populations {
				fmt.Fprintf(out, "  %-12s %d\n", p.Name, p.Cells)
			}
			return nil
		},
	}
	cmd.Flags().String("frames", "", "Directory to write one PNG per step")
	cmd.Flags().String("movie", "", "MJPEG AVI file to record the run into")
	cmd.Flags().String("chart", "", "PNG file for the population counts chart")
	cmd.Flags().Int("dimension", 0, "Condition component shown in the condition panel")
	cmd.Flags().Int("fps", 5, "Movie frame rate")
	cmd.Flags().Int("scale", 4, "Pixels per cell in frames and movies")
	return cmd
}

func writeChart(path string, cfg competition.Config, counts [][]int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	palette := competition.Palette(len(cfg.Populations))
	if err := render.CountsChart(f, rosterNames(cfg), counts, palette, cfg.Cells()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
