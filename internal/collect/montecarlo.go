package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xtding233/collect-sim/internal/log"
)

// DefaultWorkers is the fixed worker count of a simulation run.
const DefaultWorkers = 10

// RunConfig describes one simulation run. It is built once per request and
// passed by value; nothing in it is mutated by RunSimulation.
type RunConfig struct {
	Set     *ItemSet
	Trials  int     // N, total trials across all workers
	Workers int     // W; <= 0 means DefaultWorkers
	Seed    *uint64 // optional; nil draws a fresh seed from crypto/rand

	// Executor runs the partitions; nil means Parallel.
	Executor Executor
}

// Run is the outcome of one RunSimulation call.
type Run struct {
	ID       uuid.UUID
	Set      *ItemSet
	Trials   int
	Workers  int
	Seed     uint64
	Results  []int // one draw count per trial, in no particular order
	Duration time.Duration
}

// Average is the mean draw count of the run, or NoData.
func (r *Run) Average() float64 { return Summarize(r.Results) }

// Stats returns extended statistics over the run's results.
func (r *Run) Stats() Stats { return CalcStats(r.Results) }

// RunSimulation splits cfg.Trials over the workers, runs every trial and
// returns the merged results. It blocks until all workers have finished.
// The duration covers worker startup and join as well as the trials.
func RunSimulation(ctx context.Context, cfg RunConfig) (*Run, error) {
	if cfg.Set == nil {
		return nil, fmt.Errorf("run simulation: nil item set")
	}
	if cfg.Trials < 0 {
		return nil, fmt.Errorf("run simulation: %w: %d", ErrTrialsOutOfRange, cfg.Trials)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	exec := cfg.Executor
	if exec == nil {
		exec = Parallel{}
	}

	var seed uint64
	if cfg.Seed != nil {
		seed = *cfg.Seed
	} else {
		s, err := NewSeed()
		if err != nil {
			return nil, fmt.Errorf("run simulation: %w", err)
		}
		seed = s
	}

	run := &Run{
		ID:      uuid.New(),
		Set:     cfg.Set,
		Trials:  cfg.Trials,
		Workers: workers,
		Seed:    seed,
	}
	ctx = log.With(ctx, zap.Stringer("run_id", run.ID))
	log.Debug(ctx, "simulation started",
		zap.Int("trials", cfg.Trials),
		zap.Int("workers", workers),
		zap.Int("items", cfg.Set.Len()),
		zap.Int("targets", cfg.Set.TargetCount()),
		zap.Uint64("seed", seed),
	)

	parts := Partition(cfg.Trials, workers)
	worker := func(w, n int) ([]int, error) {
		s := NewSampler(cfg.Set, NewSeededRNG(seed, uint64(w)))
		return runTrials(s, n), nil
	}

	start := time.Now()
	results, err := exec.Execute(parts, worker)
	run.Duration = time.Since(start)
	if err != nil {
		log.Error(ctx, "simulation failed", zap.Error(err))
		return nil, fmt.Errorf("run simulation: %w", err)
	}
	if len(results) != cfg.Trials {
		return nil, fmt.Errorf("run simulation: collected %d results, want %d", len(results), cfg.Trials)
	}
	run.Results = results

	log.Debug(ctx, "simulation finished",
		zap.Duration("duration", run.Duration),
		zap.Int("results", len(results)),
	)
	return run, nil
}
