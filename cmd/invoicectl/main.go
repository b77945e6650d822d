// invoicectl drives the invoicing core from the command line.
//
// Usage:
//
//	invoicectl generate --company acme "Invoice XYZ Enterprises for 2 Logo Design"
//	invoicectl company --company acme --format markdown
//	invoicectl seed --file seed.json
//	invoicectl migrate up
//	invoicectl token --company acme --scope invoice:write
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/telemetry"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "invoicectl",
		Usage:   "Generate invoices and manage company catalogs",
		Version: telemetry.ServiceVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file (default: ./config.toml)",
				EnvVars: []string{"INVOICER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			generateCommand(),
			companyCommand(),
			seedCommand(),
			migrateCommand(),
			tokenCommand(),
		},
	}
}

// setup loads the configuration and a console logger on stderr, keeping
// stdout for command output.
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	logCfg := logger.DefaultConfig()
	logCfg.Level = c.String("log-level")
	logCfg.Output = "stderr"
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return cfg, log, nil
}
