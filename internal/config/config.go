// Package config loads hiegraph configuration from a TOML file and applies
// defaults. CLI flags override loaded values; that merge lives in the
// command layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	hgerrors "github.com/hiegraph/hiegraph/internal/errors"
	"github.com/hiegraph/hiegraph/internal/render"
)

// DefaultFileName is the config file looked up relative to the project root.
const DefaultFileName = ".hiegraph.toml"

type Config struct {
	Project  Project  `toml:"project"`
	Input    Input    `toml:"input"`
	Filter   Filter   `toml:"filter"`
	Render   Render   `toml:"render"`
	Pipeline Pipeline `toml:"pipeline"`
}

type Project struct {
	Root string `toml:"root"` // directory scanned for dump files
	Name string `toml:"name"`
}

type Input struct {
	Patterns []string `toml:"patterns"` // dump file globs, relative to root
}

type Filter struct {
	Exclude         []string `toml:"exclude"` // module-name globs to drop
	Focus           string   `toml:"focus"`
	CollapseModules bool     `toml:"collapse_modules"`
	ImportEdges     bool     `toml:"import_edges"`
}

type Render struct {
	Format string `toml:"format"` // "mermaid" or "dot"
	Output string `toml:"output"` // file path, "-" for stdout
}

type Pipeline struct {
	Workers         int `toml:"workers"` // 0 = NumCPU
	WatchDebounceMs int `toml:"watch_debounce_ms"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Project: Project{Root: "."},
		Input:   Input{Patterns: []string{"**/*.hie.json"}},
		Filter:  Filter{ImportEdges: true},
		Render:  Render{Format: string(render.FormatMermaid), Output: "-"},
		Pipeline: Pipeline{
			Workers:         0,
			WatchDebounceMs: 300,
		},
	}
}

// Load reads the config file at path. A missing file is not an error: the
// defaults are returned unchanged so the tool works out of the box.
func Load(path string) (*Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, hgerrors.NewConfigError("file", path, err)
	}
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, hgerrors.NewConfigError("file", path, err)
	}

	// Resolve a relative root against the config file's directory so the
	// config means the same thing from any working directory.
	if cfg.Project.Root != "" && !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Clean(filepath.Join(filepath.Dir(path), cfg.Project.Root))
	}
	return cfg, nil
}

// Validate checks field values and reports the first problem found.
func (c *Config) Validate() error {
	if c.Project.Root == "" {
		return hgerrors.NewConfigError("project.root", "", fmt.Errorf("must not be empty"))
	}
	if _, err := render.New(render.Format(c.Render.Format)); err != nil {
		return hgerrors.NewConfigError("render.format", c.Render.Format, err)
	}
	if c.Pipeline.Workers < 0 {
		return hgerrors.NewConfigError("pipeline.workers", fmt.Sprint(c.Pipeline.Workers), fmt.Errorf("must be >= 0"))
	}
	if c.Pipeline.WatchDebounceMs < 0 {
		return hgerrors.NewConfigError("pipeline.watch_debounce_ms", fmt.Sprint(c.Pipeline.WatchDebounceMs), fmt.Errorf("must be >= 0"))
	}
	return nil
}

// EffectiveWorkers resolves the worker count, defaulting to the CPU count.
func (c *Config) EffectiveWorkers() int {
	if c.Pipeline.Workers > 0 {
		return c.Pipeline.Workers
	}
	return runtime.NumCPU()
}
