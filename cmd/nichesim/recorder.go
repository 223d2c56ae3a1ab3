package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"niche-ca/internal/render"
	"niche-ca/internal/sims/competition"
)

// recorder writes rendered frames to a directory and/or an MJPEG movie.
type recorder struct {
	dir       string
	moviePath string
	fps       int
	scale     int
	dimension int

	movie *render.Movie
	err   error
	log   *slog.Logger
}

func (r *recorder) enabled() bool { return r.dir != "" || r.moviePath != "" }

func (r *recorder) open() error {
	if r.dir != "" {
		if err := os.MkdirAll(r.dir, 0o755); err != nil {
			return fmt.Errorf("creating frame directory: %w", err)
		}
	}
	return nil
}

// observe matches the driver observer signature. The first error stops
// further recording and is reported by close.
func (r *recorder) observe(t int, env *competition.Environment) {
	if r.err != nil {
		return
	}
	r.err = r.write(t, env)
	if r.err != nil {
		r.log.Error("recording frame", "t", t, "err", r.err)
	}
}

func (r *recorder) write(t int, env *competition.Environment) error {
	img := render.Render(competition.NewFrame(env, t, r.dimension), r.scale)
	if r.dir != "" {
		path := filepath.Join(r.dir, fmt.Sprintf("frame_%04d.png", t))
		if err := render.SavePNG(path, img); err != nil {
			return err
		}
	}
	if r.moviePath != "" {
		if r.movie == nil {
			b := img.Bounds()
			m, err := render.NewMovie(r.moviePath, b.Dx(), b.Dy(), r.fps)
			if err != nil {
				return err
			}
			r.movie = m
		}
		if err := r.movie.Add(img); err != nil {
			return err
		}
	}
	return nil
}

func (r *recorder) close() error {
	if r.movie != nil {
		if err := r.movie.Close(); err != nil && r.err == nil {
			r.err = err
		}
	}
	return r.err
}
