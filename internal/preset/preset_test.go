package preset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultYAML = `
version: "1"
pool:
  weights: [5, 10, 15, 20, 25]
  targets: [1, 2, 3, 4, 5]
run:
  trials: 10000
tokens:
  name: Star Stone
  per_draw: 160
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "default.yaml"), defaultYAML)
	writeFile(t, filepath.Join(dir, "presets", "all.yaml"), "notes: collect everything\n")
	writeFile(t, filepath.Join(dir, "presets", "rare.yaml"), `
pool:
  targets: [1]
run:
  trials: 500
  seed: 7
tokens:
  per_ten_draw: 1500
`)
	writeFile(t, filepath.Join(dir, "presets", "small.yaml"), `
pool:
  weights: [1, 1]
`)
	return dir
}

func TestLoadMerged(t *testing.T) {
	l := NewLoader(newDir(t))

	all, err := l.LoadMerged("all")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 15, 20, 25}, all.Pool.Weights)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, all.Pool.Targets)
	assert.Equal(t, "collect everything", all.Notes)
	require.NotNil(t, all.Run.Trials)
	assert.Equal(t, 10000, *all.Run.Trials)

	rare, err := l.LoadMerged("rare")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, rare.Pool.Targets)
	assert.Equal(t, 500, *rare.Run.Trials)
	assert.Equal(t, uint64(7), *rare.Run.Seed)
	assert.Equal(t, 160, rare.Tokens.PerDraw)
	assert.Equal(t, 1500, rare.Tokens.PerTenDraw)
	assert.Equal(t, "Star Stone", rare.Tokens.Name)

	// new weights drop the default targets
	small, err := l.LoadMerged("small")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, small.Pool.Weights)
	assert.Empty(t, small.Pool.Targets)

	_, err = l.LoadMerged("missing")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	_, err = l.LoadMerged("../default")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestLoaderCacheInvalidate(t *testing.T) {
	dir := newDir(t)
	l := NewLoader(dir)

	_, err := l.LoadMerged("all")
	require.NoError(t, err)

	writeFile(t, filepath.Join(dir, "presets", "all.yaml"), "notes: changed\n")
	cfg, err := l.LoadMerged("all")
	require.NoError(t, err)
	assert.Equal(t, "collect everything", cfg.Notes, "served from cache")

	l.Invalidate()
	cfg, err = l.LoadMerged("all")
	require.NoError(t, err)
	assert.Equal(t, "changed", cfg.Notes)
}

func TestLoaderInvalidateDuringLoad(t *testing.T) {
	dir := newDir(t)
	l := NewLoader(dir)

	// A load that read the files before Invalidate must not repopulate
	// the cache with what it read.
	l.mu.RLock()
	gen := l.gen
	l.mu.RUnlock()
	l.Invalidate()
	l.store("all", RawConfig{Notes: "stale"}, gen)

	l.mu.RLock()
	_, cached := l.cache["all"]
	l.mu.RUnlock()
	assert.False(t, cached)

	cfg, err := l.LoadMerged("all")
	require.NoError(t, err)
	assert.Equal(t, "collect everything", cfg.Notes)

	l.mu.RLock()
	_, cached = l.cache["all"]
	l.mu.RUnlock()
	assert.True(t, cached)
}

func TestLoader_BadYAML(t *testing.T) {
	dir := newDir(t)
	writeFile(t, filepath.Join(dir, "presets", "broken.yaml"), "pool: [nope\n")
	_, err := NewLoader(dir).LoadMerged("broken")
	assert.Error(t, err)
}

func TestValidateRaw(t *testing.T) {
	trials := 10
	ok := RawConfig{Pool: PoolConfig{Weights: []int{1, 0}, Targets: []int{1}}, Run: RunCfg{Trials: &trials}}
	assert.NoError(t, ValidateRaw(ok))

	zero := 0
	bad := RawConfig{Pool: PoolConfig{Weights: []int{1, 0, -1}, Targets: []int{2, 9}}, Run: RunCfg{Trials: &zero}}
	err := ValidateRaw(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pool.weights[2] must be >= 0")
	assert.Contains(t, err.Error(), "zero-weight item")
	assert.Contains(t, err.Error(), "pool.targets[1]=9")
	assert.Contains(t, err.Error(), "run.trials must be >= 1")

	assert.ErrorContains(t, ValidateRaw(RawConfig{}), "pool.weights must not be empty")

	huge := RawConfig{Pool: PoolConfig{Weights: []int{math.MaxInt, 1}, Targets: []int{1}}, Run: RunCfg{Trials: &trials}}
	assert.ErrorContains(t, ValidateRaw(huge), "pool.weights[1] overflows the total weight")
}

func TestResolve(t *testing.T) {
	l := NewLoader(newDir(t))

	in, err := l.Resolve("rare", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "5,10,15,20,25", in.Weights)
	assert.Equal(t, "1", in.Targets)
	assert.Equal(t, 500, in.Trials)
	require.NotNil(t, in.Seed)
	assert.Equal(t, uint64(7), *in.Seed)
	require.NotNil(t, in.Cost)
	assert.Equal(t, 1500, in.Cost.PerTenDraw)

	trials := 42
	targets := []int{2, 3}
	in, err = l.Resolve("rare", Overrides{Trials: &trials, Targets: &targets})
	require.NoError(t, err)
	assert.Equal(t, 42, in.Trials)
	assert.Equal(t, "2,3", in.Targets)

	bad := []int{6}
	_, err = l.Resolve("rare", Overrides{Targets: &bad})
	assert.ErrorContains(t, err, "preset validation failed")
}

func TestFileWatcher(t *testing.T) {
	dir := newDir(t)
	var changed []string
	w := NewFileWatcher(dir, time.Hour, func(p string) { changed = append(changed, p) })

	w.scanAll(true)
	assert.Empty(t, changed)

	rare := filepath.Join(dir, "presets", "rare.yaml")
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(rare, future, future))
	added := filepath.Join(dir, "presets", "new.yaml")
	writeFile(t, added, "notes: hi\n")

	w.scanAll(false)
	assert.ElementsMatch(t, []string{rare, added}, changed)

	changed = nil
	require.NoError(t, os.Remove(added))
	w.scanAll(false)
	assert.Equal(t, []string{added}, changed)

	changed = nil
	w.scanAll(false)
	assert.Empty(t, changed)
}
