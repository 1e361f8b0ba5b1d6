package preset

import (
	"fmt"
	"math"
	"strings"
)

// ValidateRaw checks semantic constraints of a merged RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// pool.weights
	if len(cfg.Pool.Weights) == 0 {
		errs = append(errs, "pool.weights must not be empty")
	}
	sum := 0
	for i, w := range cfg.Pool.Weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("pool.weights[%d] must be >= 0", i))
			continue
		}
		if w > math.MaxInt-sum {
			errs = append(errs, fmt.Sprintf("pool.weights[%d] overflows the total weight", i))
			break
		}
		sum += w
	}

	// pool.targets
	for i, idx := range cfg.Pool.Targets {
		if idx < 1 || idx > len(cfg.Pool.Weights) {
			errs = append(errs, fmt.Sprintf("pool.targets[%d]=%d must be in 1..%d", i, idx, len(cfg.Pool.Weights)))
			continue
		}
		if cfg.Pool.Weights[idx-1] == 0 {
			errs = append(errs, fmt.Sprintf("pool.targets[%d]=%d points at a zero-weight item", i, idx))
		}
	}

	// run
	if cfg.Run.Trials == nil {
		errs = append(errs, "run.trials is required")
	} else if *cfg.Run.Trials <= 0 {
		errs = append(errs, "run.trials must be >= 1")
	}

	// tokens (optional)
	if cfg.Tokens != nil {
		if cfg.Tokens.PerDraw < 0 {
			errs = append(errs, "tokens.per_draw must be >= 0")
		}
		if cfg.Tokens.PerTenDraw < 0 {
			errs = append(errs, "tokens.per_ten_draw must be >= 0")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("preset validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
