package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/hiegraph/hiegraph/internal/config"
	"github.com/hiegraph/hiegraph/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "hiegraph",
		Usage:                  "Extract declaration graphs from compiler interface dumps",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.DefaultFileName,
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory scanned for dump files (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Dump file glob patterns (e.g. --include 'dist/**/*.hie.json')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Module name globs to drop (e.g. --exclude 'Test.*')",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write pipeline trace output to stderr",
			},
		},
		Commands: []*cli.Command{
			renderCommand(),
			modulesCommand(),
			dumpCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	// When --root is given and the config path is the default, look for the
	// config file inside that root.
	if rootFlag := c.String("root"); rootFlag != "" && configPath == config.DefaultFileName {
		configPath = filepath.Join(rootFlag, config.DefaultFileName)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Input.Patterns = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Filter.Exclude = append(cfg.Filter.Exclude, excludeFlags...)
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
