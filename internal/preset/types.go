// types.go
package preset

import "github.com/xtding233/collect-sim/internal/token"

// Raw preset loaded from YAML; mirrors the on-disk schema.
type RawConfig struct {
	Version string       `yaml:"version"`
	Pool    PoolConfig   `yaml:"pool"`
	Run     RunCfg       `yaml:"run"`
	Tokens  *token.Token `yaml:"tokens,omitempty"`
	Notes   string       `yaml:"notes,omitempty"`
}

type PoolConfig struct {
	Weights []int `yaml:"weights"`
	Targets []int `yaml:"targets"` // 1-based indices into Weights
}

type RunCfg struct {
	Trials *int    `yaml:"trials"`
	Seed   *uint64 `yaml:"seed,omitempty"`
}

// Overrides carries per-request values that win over the files.
type Overrides struct {
	Trials  *int
	Seed    *uint64
	Targets *[]int
}
