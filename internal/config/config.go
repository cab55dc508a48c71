// Package config loads the tunable knobs of the matching engine from the
// environment, following the teacher's .env-then-os.Getenv convention
// (cmd/bud-mcp/main.go: godotenv.Load() best-effort, then os.Getenv with
// hardcoded fallbacks). Hardware-parallelism defaults to the logical CPU
// count via shirou/gopsutil/v3/cpu, grounded on hashicorp-nomad's own
// gopsutil dependency (used there for host stats, here for sizing the
// scorer's worker pool).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/kittclouds/matchkit/errs"
)

// Config holds the process-wide tunables spec.md §5 calls out as
// configurable: recall target, max comparisons per predicate, scoring
// worker count, and scoring chunk size.
type Config struct {
	RecallTarget               float64
	MaxComparisonsPerPredicate int
	ScoringWorkers             int
	ScoringChunkSize           int
	RecallWeight               float64
}

// Default values used when neither an .env file nor the environment
// supplies an override.
const (
	defaultRecallTarget   = 0.95
	defaultMaxComparisons = 1_000_000
	defaultChunkSize      = 256
	defaultRecallWeight   = 1.5
)

// Load reads an optional .env file from the working directory (silently
// ignored if absent, matching the teacher's best-effort convention), then
// overlays MATCHKIT_-prefixed environment variables on top of defaults.
// ScoringWorkers defaults to the logical CPU count when unset or <= 0.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		RecallTarget:               defaultRecallTarget,
		MaxComparisonsPerPredicate: defaultMaxComparisons,
		ScoringChunkSize:           defaultChunkSize,
		RecallWeight:               defaultRecallWeight,
	}

	if v := os.Getenv("MATCHKIT_RECALL_TARGET"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, errs.Wrap(errs.ErrConfiguration, "MATCHKIT_RECALL_TARGET: %v", err)
		}
		cfg.RecallTarget = f
	}

	if v := os.Getenv("MATCHKIT_MAX_COMPARISONS_PER_PREDICATE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errs.Wrap(errs.ErrConfiguration, "MATCHKIT_MAX_COMPARISONS_PER_PREDICATE: %v", err)
		}
		cfg.MaxComparisonsPerPredicate = n
	}

	if v := os.Getenv("MATCHKIT_SCORING_CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errs.Wrap(errs.ErrConfiguration, "MATCHKIT_SCORING_CHUNK_SIZE: %v", err)
		}
		cfg.ScoringChunkSize = n
	}

	if v := os.Getenv("MATCHKIT_RECALL_WEIGHT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, errs.Wrap(errs.ErrConfiguration, "MATCHKIT_RECALL_WEIGHT: %v", err)
		}
		cfg.RecallWeight = f
	}

	if v := os.Getenv("MATCHKIT_SCORING_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errs.Wrap(errs.ErrConfiguration, "MATCHKIT_SCORING_WORKERS: %v", err)
		}
		cfg.ScoringWorkers = n
	}
	if cfg.ScoringWorkers <= 0 {
		n, err := cpu.Counts(true)
		if err != nil || n <= 0 {
			n = 1
		}
		cfg.ScoringWorkers = n
	}

	return cfg, nil
}
