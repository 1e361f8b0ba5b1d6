package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

var ErrUnknownPreset = errors.New("unknown preset")

var validName = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Paths helper for default/preset files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "default.yaml")
}
func (p Paths) PresetPath(name string) string {
	return filepath.Join(p.BaseDir, "presets", name+".yaml")
}

// Loader reads YAML presets and merges default → preset.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: preset name
	gen   uint64               // bumped by Invalidate
}

// NewLoader creates a preset loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the files this loader reads for name, default first.
func (l *Loader) Paths(name string) []string {
	return []string{l.paths.DefaultPath(), l.paths.PresetPath(name)}
}

// LoadMerged loads and merges default → preset. The preset file must exist;
// default.yaml is optional.
func (l *Loader) LoadMerged(name string) (RawConfig, error) {
	if !validName.MatchString(name) {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	l.mu.RLock()
	if cfg, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	defCfg, _, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	presetCfg, found, err := readYAML(l.paths.PresetPath(name))
	if err != nil {
		return RawConfig{}, fmt.Errorf("read preset %s: %w", name, err)
	}
	if !found {
		return RawConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	merged := mergeRaw(defCfg, presetCfg)
	l.store(name, merged, gen)
	return merged, nil
}

// store caches cfg unless Invalidate ran after gen was read: the files
// behind cfg may already be stale.
func (l *Loader) store(name string, cfg RawConfig, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return
	}
	l.cache[name] = cfg
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
	l.gen++
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, bool, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, false, nil
		}
		return RawConfig{}, false, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, false, err
	}
	return cfg, true, nil
}

// mergeRaw overlays b on a: scalars and pointers win when set, slices
// replace wholesale when non-empty. Weights and targets are never merged
// element-wise since indices only make sense against one weight list.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// pool
	if len(b.Pool.Weights) > 0 {
		out.Pool.Weights = append([]int(nil), b.Pool.Weights...)
		// targets belong to the weight list they came with
		out.Pool.Targets = nil
	}
	if len(b.Pool.Targets) > 0 {
		out.Pool.Targets = append([]int(nil), b.Pool.Targets...)
	}

	// run
	if b.Run.Trials != nil {
		out.Run.Trials = b.Run.Trials
	}
	if b.Run.Seed != nil {
		out.Run.Seed = b.Run.Seed
	}

	// tokens
	switch {
	case out.Tokens == nil && b.Tokens != nil:
		c := *b.Tokens
		out.Tokens = &c
	case out.Tokens != nil && b.Tokens != nil:
		c := *out.Tokens
		if b.Tokens.Name != "" {
			c.Name = b.Tokens.Name
		}
		if b.Tokens.PerDraw != 0 {
			c.PerDraw = b.Tokens.PerDraw
		}
		if b.Tokens.PerTenDraw != 0 {
			c.PerTenDraw = b.Tokens.PerTenDraw
		}
		out.Tokens = &c
	}

	return out
}
