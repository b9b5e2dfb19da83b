// Package pipeline drives extraction end to end: discover dump files, parse
// them into modules, shape the graph, render. Modules are independent, so
// parsing fans out across workers; the extraction core itself stays free of
// any coordination.
package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hiegraph/hiegraph/internal/collapse"
	"github.com/hiegraph/hiegraph/internal/config"
	"github.com/hiegraph/hiegraph/internal/debug"
	"github.com/hiegraph/hiegraph/internal/grammar"
	"github.com/hiegraph/hiegraph/internal/hiedump"
	"github.com/hiegraph/hiegraph/internal/render"
	"github.com/hiegraph/hiegraph/internal/types"
)

// Result is one extraction run over a dump directory.
type Result struct {
	Modules []*types.Module // parsed modules, sorted by name
	Skipped []string        // dump paths the grammar produced no module for
	Errors  []error         // per-file load errors; never aborts the batch
}

// Runner executes extraction runs for one configuration.
type Runner struct {
	cfg *config.Config
}

// New creates a runner.
func New(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run discovers and parses every dump under the configured root. Dumps that
// fail to load are collected as errors; dumps whose module production does
// not match are skipped silently, reporting is left to the caller.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	root := r.cfg.Project.Root
	paths, err := hiedump.Discover(root, r.cfg.Input.Patterns)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.EffectiveWorkers())
	for _, rel := range paths {
		path := filepath.Join(root, rel)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dump, err := hiedump.Load(path)
			if err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, err)
				mu.Unlock()
				return nil
			}
			mod, ok := grammar.Assemble(dump.Module)
			mu.Lock()
			if ok {
				result.Modules = append(result.Modules, mod)
			} else {
				result.Skipped = append(result.Skipped, path)
			}
			mu.Unlock()
			if !ok {
				debug.Logf("pipeline: no module extracted from %s", path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.Modules, func(i, j int) bool {
		return result.Modules[i].Name < result.Modules[j].Name
	})
	sort.Strings(result.Skipped)
	return &result, nil
}

// RenderTo runs extraction and writes the rendered graph to w.
func (r *Runner) RenderTo(ctx context.Context, w io.Writer) (*Result, error) {
	result, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}

	graph, err := collapse.Shape(result.Modules, collapse.Options{
		Exclude:        r.cfg.Filter.Exclude,
		Focus:          r.cfg.Filter.Focus,
		CollapseModule: r.cfg.Filter.CollapseModules,
		ImportEdges:    r.cfg.Filter.ImportEdges,
	})
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(render.Format(r.cfg.Render.Format))
	if err != nil {
		return nil, err
	}
	if err := renderer.Render(w, graph); err != nil {
		return nil, err
	}
	return result, nil
}
