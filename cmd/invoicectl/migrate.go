package main

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/migration"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply the postgres catalog schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withMigrator(func(_ *cli.Context, m *migration.Migrator) error {
					return m.Up()
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back all migrations",
				Action: withMigrator(func(_ *cli.Context, m *migration.Migrator) error {
					return m.Down()
				}),
			},
			{
				Name:      "steps",
				Usage:     "Apply n migrations; negative n rolls back",
				ArgsUsage: "<n>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					n, err := intArg(c)
					if err != nil {
						return err
					}
					return m.Steps(n)
				}),
			},
			{
				Name:      "force",
				Usage:     "Set the version without running migrations, clearing the dirty flag",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					v, err := intArg(c)
					if err != nil {
						return err
					}
					return m.Force(v)
				}),
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: withMigrator(func(c *cli.Context, m *migration.Migrator) error {
					version, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version: %d dirty: %t\n", version, dirty)
					return nil
				}),
			},
		},
	}
}

func withMigrator(fn func(*cli.Context, *migration.Migrator) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, log, err := setup(c)
		if err != nil {
			return err
		}
		defer logger.Sync(log)

		m, err := migration.Open(cfg.Database.DSN(), log)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				log.Warn("close migrator", zap.Error(err))
			}
		}()
		return fn(c, m)
	}
}

func intArg(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("%s expects exactly one integer argument", c.Command.Name)
	}
	n, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", c.Args().First())
	}
	return n, nil
}
