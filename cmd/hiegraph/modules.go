package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/hiegraph/hiegraph/internal/debug"
	"github.com/hiegraph/hiegraph/internal/grammar"
	"github.com/hiegraph/hiegraph/internal/hiedump"
	"github.com/hiegraph/hiegraph/internal/pipeline"
)

func modulesCommand() *cli.Command {
	return &cli.Command{
		Name:    "modules",
		Aliases: []string{"m"},
		Usage:   "List extracted modules with declaration and import counts",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			result, err := pipeline.New(cfg).Run(context.Background())
			if err != nil {
				return err
			}
			reportResult(cfg, result)

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODULE\tPATH\tDECLS\tIMPORTS")
			for _, m := range result.Modules {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", m.Name, m.Path, len(m.Decls), len(m.Imports))
			}
			return tw.Flush()
		},
	}
}

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Debug-print the extraction result of one dump file",
		ArgsUsage: "<dump-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "keys",
				Usage: "Show symbol keys next to names",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one dump file argument")
			}
			path := c.Args().First()

			d, err := hiedump.Load(path)
			if err != nil {
				return err
			}
			mod, ok := grammar.Assemble(d.Module)
			if !ok {
				return fmt.Errorf("no module extracted from %s", path)
			}
			return debug.DumpModule(os.Stdout, mod, debug.DumpOptions{
				ShowKeys: c.Bool("keys"),
			})
		},
	}
}
