package conf

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type App struct {
	HTTPBind string `env:"HTTP_BIND" envDefault:":8080"`
	GRPCBind string `env:"GRPC_BIND" envDefault:":9090"`

	// PresetDir holds default.yaml and presets/<name>.yaml.
	PresetDir string `env:"PRESET_DIR" envDefault:"config"`
	// PresetWatchInterval is how often preset files are polled for changes. 0 disables it.
	PresetWatchInterval time.Duration `env:"PRESET_WATCH_INTERVAL" envDefault:"2s"`

	// Bounds for the trial count accepted from callers.
	MinTrials int `env:"MIN_TRIALS" envDefault:"1"`
	MaxTrials int `env:"MAX_TRIALS" envDefault:"100000"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// ParseEnv loads .env if present, then reads the environment.
func ParseEnv() (*App, error) {
	_ = godotenv.Load()

	cfg := App{}
	err := env.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MinTrials < 1 || cfg.MaxTrials < cfg.MinTrials {
		return nil, fmt.Errorf("invalid trial bounds [%d, %d]", cfg.MinTrials, cfg.MaxTrials)
	}
	return &cfg, nil
}
