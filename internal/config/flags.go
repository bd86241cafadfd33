package config

import (
	"flag"
	"fmt"
	"math"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSeed       = flag.Int64("seed", -1, "Noise seed")
	flagResolution = flag.Uint("resolution", 0, "Grid samples per face edge")
	flagLayers     = flag.Int("layers", -1, "Noise octaves")
	flagStrength   = flag.Float64("strength", -1, "Elevation scale")
	flagWorkers    = flag.Int("workers", 0, "Build worker count")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config. Flags left at their
// sentinel defaults do not override anything. Values that do not fit the
// uint32 planet fields are rejected.
func applyFlags(cfg *Config) error {
	if *flagSeed > math.MaxUint32 {
		return fmt.Errorf("-seed %d out of range [0, %d]", *flagSeed, uint32(math.MaxUint32))
	}
	if uint64(*flagResolution) > math.MaxUint32 {
		return fmt.Errorf("-resolution %d out of range [1, %d]", *flagResolution, uint32(math.MaxUint32))
	}
	if int64(*flagLayers) > math.MaxUint32 {
		return fmt.Errorf("-layers %d out of range [0, %d]", *flagLayers, uint32(math.MaxUint32))
	}

	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSeed >= 0 {
		cfg.Planet.Seed = uint32(*flagSeed)
	}
	if *flagResolution > 0 {
		cfg.Planet.Resolution = uint32(*flagResolution)
	}
	if *flagLayers >= 0 {
		cfg.Planet.Layers = uint32(*flagLayers)
	}
	if *flagStrength >= 0 {
		cfg.Planet.Strength = float32(*flagStrength)
	}
	if *flagWorkers > 0 {
		cfg.Scheduler.Workers = *flagWorkers
	}
	return nil
}
