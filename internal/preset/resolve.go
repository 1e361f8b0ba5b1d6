// resolve.go
package preset

import (
	"strconv"
	"strings"

	"github.com/xtding233/collect-sim/internal/calc"
)

// Resolve merges default → preset → overrides and returns the Calculate input.
func (l *Loader) Resolve(name string, o Overrides) (calc.Input, error) {
	cfg, err := l.LoadMerged(name)
	if err != nil {
		return calc.Input{}, err
	}
	if o.Trials != nil {
		cfg.Run.Trials = o.Trials
	}
	if o.Seed != nil {
		cfg.Run.Seed = o.Seed
	}
	if o.Targets != nil {
		cfg.Pool.Targets = *o.Targets
	}
	if err := ValidateRaw(cfg); err != nil {
		return calc.Input{}, err
	}

	in := calc.Input{
		Weights: joinInts(cfg.Pool.Weights),
		Targets: joinInts(cfg.Pool.Targets),
		Trials:  *cfg.Run.Trials,
		Seed:    cfg.Run.Seed,
	}
	if cfg.Tokens != nil {
		t := *cfg.Tokens
		in.Cost = &t
	}
	return in, nil
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
