package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"

	"github.com/spf13/cobra"

	"niche-ca/internal/render"
	"niche-ca/internal/sims/competition"
)

type sweepResult struct {
	Value  string    `json:"value"`
	Result runResult `json:"result"`
	Err    string    `json:"error,omitempty"`

	frame *image.RGBA
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the scenario once per value of a single parameter",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, logger, err := loadScenario(cmd)
			if err != nil {
				return err
			}
			key, _ := cmd.Flags().GetString("key")
			values, _ := cmd.Flags().GetStringSlice("values")
			montage, _ := cmd.Flags().GetString("montage")
			scale, _ := cmd.Flags().GetInt("scale")
			if key == "" || len(values) == 0 {
				return fmt.Errorf("sweep needs --key and --values")
			}

			// Resolve every configuration up front so a bad value fails
			// before any simulation runs.
			cfgs := make([]competition.Config, len(values))
			for i, v := range values {
				cfg, err := base.With(map[string]string{key: v})
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("%s=%s: %w", key, v, err)
				}
				cfgs[i] = cfg
			}

			logger.Info("sweeping", "key", key, "values", len(values))
			results := sweep(cmd.Context(), key, cfgs, values, montage != "", scale, logger)
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			if montage != "" {
				frames := make([]image.Image, 0, len(results))
				for _, res := range results {
					if res.frame != nil {
						frames = append(frames, res.frame)
					}
				}
				if len(frames) > 0 {
					if err := render.SavePNG(montage, render.Compose(frames...)); err != nil {
						return err
					}
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			for _, res := range results {
				if res.Err != "" {
					fmt.Fprintf(out, "%s=%-10s error: %s\n", key, res.Value, res.Err)
					continue
				}
				fmt.Fprintf(out, "%s=%-10s %-9s steps=%-5d stationarity=%-5d", key, res.Value, res.Result.State, res.Result.Steps, res.Result.Stationarity)
				for _, p := range res.Result.Populations {
					fmt.Fprintf(out, " %s=%d", p.Name, p.Cells)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().String("key", "", "Scenario key to vary, as accepted by --set")
	cmd.Flags().StringSlice("values", nil, "Comma separated values for --key")
	cmd.Flags().String("montage", "", "PNG file with the final occupancy of every run side by side")
	cmd.Flags().Int("scale", 2, "Pixels per cell in the montage")
	return cmd
}

// sweep runs one simulation per config, in order. A cancelled context stops
// the remaining runs.
func sweep(ctx context.Context, key string, cfgs []competition.Config, values []string, withFrames bool, scale int, logger *slog.Logger) []sweepResult {
	results := make([]sweepResult, 0, len(cfgs))
	for i, cfg := range cfgs {
		if ctx.Err() != nil {
			break
		}
		results = append(results, runOne(ctx, key, cfg, values[i], withFrames, scale, logger))
	}
	return results
}

func runOne(ctx context.Context, key string, cfg competition.Config, value string, withFrame bool, scale int, logger *slog.Logger) sweepResult {
	res := sweepResult{Value: value}
	env, err := competition.New(cfg)
	if err != nil {
		res.Err = err.Error()
		return res
	}
	sim := competition.NewSimulation(env, cfg.Iterations, competition.WithLogger(logger.With(key, value)))
	if err := sim.Run(ctx); err != nil {
		res.Err = err.Error()
	}
	res.Result = summarize(sim)
	if withFrame {
		f := competition.NewFrame(sim.Environment(), sim.Time(), 0)
		res.frame = render.Annotate(render.Occupancy(f), scale, key+"="+value)
	}
	return res
}
