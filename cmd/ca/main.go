//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"niche-ca/internal/app"
	"niche-ca/internal/core"
	_ "niche-ca/internal/sims/competition"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	sim, err := core.New(cfg.Sim, cfg.Set)
	if err != nil {
		slog.Error("building simulation", "err", err)
		os.Exit(1)
	}
	if cfg.Seed != 0 {
		if err := sim.Reset(cfg.Seed); err != nil {
			slog.Error("seeding simulation", "err", err)
			os.Exit(1)
		}
	}

	game := app.New(sim, cfg)
	size := sim.Size()

	ebiten.SetWindowTitle("niche-ca: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUD, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
