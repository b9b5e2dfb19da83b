package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hiegraph/hiegraph/internal/config"
	"github.com/hiegraph/hiegraph/internal/debug"
	"github.com/hiegraph/hiegraph/internal/pipeline"
	"github.com/hiegraph/hiegraph/pkg/pathutil"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:    "render",
		Aliases: []string{"r"},
		Usage:   "Extract modules and render the declaration graph",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: mermaid or dot",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path ('-' for stdout)",
			},
			&cli.StringFlag{
				Name:  "focus",
				Usage: "Keep only this module and its direct neighbors",
			},
			&cli.BoolFlag{
				Name:  "collapse",
				Usage: "One node per module instead of per declaration",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Re-render whenever dump files change",
			},
		},
		Action: runRender,
	}
}

func runRender(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if c.Bool("debug") {
		debug.SetOutput(os.Stderr)
	}
	if f := c.String("format"); f != "" {
		cfg.Render.Format = f
	}
	if o := c.String("output"); o != "" {
		cfg.Render.Output = o
	}
	if focus := c.String("focus"); focus != "" {
		cfg.Filter.Focus = focus
	}
	if c.Bool("collapse") {
		cfg.Filter.CollapseModules = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	runner := pipeline.New(cfg)
	renderOnce := func(ctx context.Context) error {
		w, closeFn, err := openOutput(cfg.Render.Output)
		if err != nil {
			return err
		}
		defer closeFn()

		result, err := runner.RenderTo(ctx, w)
		if err != nil {
			return err
		}
		reportResult(cfg, result)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := renderOnce(ctx); err != nil {
		return err
	}
	if !c.Bool("watch") {
		return nil
	}

	rerun := make(chan struct{}, 1)
	watcher, err := pipeline.NewWatcher(cfg, func() {
		select {
		case rerun <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	watcher.Start(ctx)
	defer watcher.Close()

	fmt.Fprintf(os.Stderr, "watching %s for dump changes (ctrl-c to stop)\n", cfg.Project.Root)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-rerun:
			if err := renderOnce(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
			}
		}
	}
}

// openOutput opens the render target. "-" means stdout, which must not be
// closed.
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// reportResult summarizes what the run skipped or failed on. Extraction
// itself never reports; that responsibility sits here at the boundary.
func reportResult(cfg *config.Config, result *pipeline.Result) {
	for _, err := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if len(result.Skipped) > 0 {
		skipped := pathutil.ToRelativeAll(result.Skipped, cfg.Project.Root)
		for _, p := range skipped {
			fmt.Fprintf(os.Stderr, "warning: no module extracted from %s\n", p)
		}
	}
}
