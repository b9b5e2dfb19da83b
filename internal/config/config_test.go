package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hgerrors "github.com/hiegraph/hiegraph/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Project.Root)
	assert.Equal(t, []string{"**/*.hie.json"}, cfg.Input.Patterns)
	assert.Equal(t, "mermaid", cfg.Render.Format)
	assert.Equal(t, "-", cfg.Render.Output)
	assert.True(t, cfg.Filter.ImportEdges)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, Default().Input.Patterns, cfg.Input.Patterns)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	content := `
[project]
root = "dist"
name = "myproject"

[input]
patterns = ["build/**/*.hie.json"]

[filter]
exclude = ["Test.*"]
collapse_modules = true

[render]
format = "dot"
output = "graph.dot"

[pipeline]
workers = 4
watch_debounce_ms = 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Relative roots resolve against the config file's directory.
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.Project.Root)
	assert.Equal(t, "myproject", cfg.Project.Name)
	assert.Equal(t, []string{"build/**/*.hie.json"}, cfg.Input.Patterns)
	assert.Equal(t, []string{"Test.*"}, cfg.Filter.Exclude)
	assert.True(t, cfg.Filter.CollapseModules)
	assert.Equal(t, "dot", cfg.Render.Format)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 100, cfg.Pipeline.WatchDebounceMs)
	require.NoError(t, cfg.Validate())
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("project = not toml"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *hgerrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project.root"},
		{"bad format", func(c *Config) { c.Render.Format = "png" }, "render.format"},
		{"negative workers", func(c *Config) { c.Pipeline.Workers = -1 }, "pipeline.workers"},
		{"negative debounce", func(c *Config) { c.Pipeline.WatchDebounceMs = -5 }, "pipeline.watch_debounce_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *hgerrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestEffectiveWorkers(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.EffectiveWorkers(), 0)

	cfg.Pipeline.Workers = 3
	assert.Equal(t, 3, cfg.EffectiveWorkers())
}
