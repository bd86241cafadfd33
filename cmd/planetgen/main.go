// Package main is the entry point for planetgen, a host loop that builds a
// cube-sphere planet and reports its meshes.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/config"
	"github.com/Faultbox/planetgen/internal/logger"
	"github.com/Faultbox/planetgen/pkg/planet"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	defer logger.Sync()

	logger.Info("=== planetgen ===")
	logger.Debug("config loaded", zap.Any("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("planet generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	p, err := planet.New(cfg.Planet.Params())
	if err != nil {
		return err
	}
	p.SetTint(cfg.Planet.Tint)

	opts := append(cfg.Scheduler.SchedulerOptions(), planet.WithLogger(logger.Named("scheduler")))
	sched := planet.NewScheduler(opts...)
	defer sched.Close()
	sched.Add(p)

	start := time.Now()
	if err := drive(ctx, sched, p, cfg.Scheduler); err != nil {
		return err
	}

	surface := p.Surface()
	logger.Info("planet ready",
		zap.Uint64("version", surface.Version),
		zap.Uint32("seed", surface.Params.Seed),
		zap.Uint32("resolution", surface.Params.Resolution),
		zap.Int("triangles", surface.TriangleCount()),
		zap.Duration("elapsed", time.Since(start)))

	for _, face := range planet.Faces {
		m := surface.Mesh(face)
		lo, hi := m.Bounds.Min.Array(), m.Bounds.Max.Array()
		logger.Info("face",
			zap.Stringer("face", face),
			zap.Int("grid_vertices", m.GridVertices),
			zap.Int("vertices", m.VertexCount()),
			zap.Int("triangles", m.TriangleCount()),
			zap.Float32s("min", lo[:]),
			zap.Float32s("max", hi[:]))
	}
	return nil
}

// drive runs update cycles on a ticker until the planet is clean.
func drive(ctx context.Context, sched *planet.Scheduler, p *planet.Planet, cfg config.SchedulerConfig) error {
	interval := cfg.TickInterval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for cycle := 1; ; cycle++ {
		if err := sched.Update(ctx); err != nil {
			return err
		}
		if !p.Dirty() {
			logger.Debug("planet clean", zap.Int("cycles", cycle))
			return nil
		}
		if cfg.MaxCycles > 0 && cycle >= cfg.MaxCycles {
			return fmt.Errorf("planet still dirty after %d cycles", cycle)
		}

		select {
		case <-ctx.Done():
			return errors.Join(ctx.Err(), sched.Wait(context.Background()))
		case <-ticker.C:
		}
	}
}
