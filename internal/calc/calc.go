// Package calc runs one Calculate invocation end to end: parse the text
// inputs, simulate, summarize and keep the last successful outcome around
// for display. A failed invocation never touches the previous outcome.
package calc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/collect-sim/internal/collect"
	"github.com/xtding233/collect-sim/internal/log"
	"github.com/xtding233/collect-sim/internal/metrics"
	"github.com/xtding233/collect-sim/internal/token"
)

// Input is what a caller hands in, still as text for the item lists.
type Input struct {
	Weights string
	Targets string
	Trials  int
	Seed    *uint64
	Cost    *token.Token // optional pricing of the average
}

// Outcome is one successful Calculate result.
type Outcome struct {
	RunID          string         `json:"run_id"`
	Items          []collect.Item `json:"items"`
	Trials         int            `json:"trials"`
	Workers        int            `json:"workers"`
	Seed           uint64         `json:"seed"`
	Average        float64        `json:"average"`
	Stats          collect.Stats  `json:"stats"`
	DurationMillis int64          `json:"duration_ms"`
	ExpectedTokens *int           `json:"expected_tokens,omitempty"`
	FinishedAt     time.Time      `json:"finished_at"`
}

// Calculator keeps the last successful outcome. Concurrent Calculate calls
// run independently and the later finisher wins.
type Calculator struct {
	MinTrials int
	MaxTrials int
	Workers   int
	Executor  collect.Executor // nil means collect.Parallel

	mu   sync.RWMutex
	last *Outcome
}

// New returns a Calculator bounded to [minTrials, maxTrials] trials.
func New(minTrials, maxTrials int) *Calculator {
	return &Calculator{
		MinTrials: minTrials,
		MaxTrials: maxTrials,
		Workers:   collect.DefaultWorkers,
	}
}

// Calculate validates in, runs the simulation and records the outcome.
func (c *Calculator) Calculate(ctx context.Context, in Input) (Outcome, error) {
	ctx = log.Into(ctx, "calc")

	out, err := c.calculate(ctx, in)
	metrics.RunsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		log.Warn(ctx, "calculate rejected", zap.Error(err))
		return Outcome{}, err
	}

	c.mu.Lock()
	c.last = &out
	c.mu.Unlock()

	log.Info(ctx, "calculate finished",
		zap.String("run_id", out.RunID),
		zap.Float64("average", out.Average),
		zap.Int64("duration_ms", out.DurationMillis),
	)
	return out, nil
}

func (c *Calculator) calculate(ctx context.Context, in Input) (Outcome, error) {
	if in.Trials < c.MinTrials || in.Trials > c.MaxTrials {
		return Outcome{}, fmt.Errorf("%w: %d not in [%d, %d]", collect.ErrTrialsOutOfRange, in.Trials, c.MinTrials, c.MaxTrials)
	}
	set, err := collect.ParseItemSet(in.Weights, in.Targets)
	if err != nil {
		return Outcome{}, err
	}

	run, err := collect.RunSimulation(ctx, collect.RunConfig{
		Set:      set,
		Trials:   in.Trials,
		Workers:  c.Workers,
		Seed:     in.Seed,
		Executor: c.Executor,
	})
	if err != nil {
		return Outcome{}, err
	}
	metrics.RunDuration.Observe(run.Duration.Seconds())
	metrics.TrialsTotal.Add(float64(len(run.Results)))

	out := Outcome{
		RunID:          run.ID.String(),
		Items:          set.Items(),
		Trials:         run.Trials,
		Workers:        run.Workers,
		Seed:           run.Seed,
		Average:        run.Average(),
		Stats:          run.Stats(),
		DurationMillis: run.Duration.Milliseconds(),
		FinishedAt:     time.Now(),
	}
	if in.Cost != nil {
		tokens := in.Cost.ExpectedTokens(out.Average)
		out.ExpectedTokens = &tokens
	}
	return out, nil
}

// Last returns the most recent successful outcome.
func (c *Calculator) Last() (Outcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last == nil {
		return Outcome{}, false
	}
	return *c.last, true
}

// IsInvalidInput reports whether err comes from bad caller input rather
// than a failure while simulating.
func IsInvalidInput(err error) bool {
	var (
		perr *collect.ParseError
		serr *collect.InvalidSelectionError
		uerr *collect.UnreachableTargetError
	)
	return errors.As(err, &perr) || errors.As(err, &serr) || errors.As(err, &uerr) ||
		errors.Is(err, collect.ErrTrialsOutOfRange)
}

func outcomeLabel(err error) string {
	var (
		perr *collect.ParseError
		serr *collect.InvalidSelectionError
		uerr *collect.UnreachableTargetError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &perr):
		return metrics.OutcomeParseError
	case errors.As(err, &serr):
		return metrics.OutcomeInvalidSelection
	case errors.As(err, &uerr):
		return metrics.OutcomeUnreachable
	case errors.Is(err, collect.ErrTrialsOutOfRange):
		return metrics.OutcomeOutOfRange
	default:
		return metrics.OutcomeFailed
	}
}
