package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jwaldner/atop/internal/config"
	"github.com/jwaldner/atop/internal/logger"
)

func main() {
	app := newApp(config.Load())
	err := app.Run(os.Args)
	logger.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ atop: %v\n", err)
		os.Exit(1)
	}
}

func newApp(cfg *config.Config) *cli.App {
	a := newCommands(cfg)
	return &cli.App{
		Name:  "atop",
		Usage: "price options and print step-by-step teaching guides",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rounding", Value: cfg.Guide.Rounding, Usage: "decimal places shown in guides"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored headings"},
			&cli.StringFlag{Name: "log-file", Usage: "write a rotated log to this file"},
			&cli.StringFlag{Name: "log-level", Value: cfg.Logging.LogLevel, Usage: "error, warn, info, debug or verbose"},
		},
		Before: func(c *cli.Context) error {
			if path := c.String("log-file"); path != "" {
				return logger.InitWithRotation(c.String("log-level"), path, cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
			}
			return nil
		},
		Commands: []*cli.Command{
			a.bsmCommand(),
			a.binomialCommand(),
			a.singleCommand(),
			a.onePeriodCommand(),
			a.convergeCommand(),
			a.payoffCommand(),
			a.examplesCommand(),
		},
	}
}
