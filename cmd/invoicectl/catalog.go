package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	appcatalog "github.com/invoicer/backend/internal/application/catalog"
	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/persistence"
)

func companyCommand() *cli.Command {
	return &cli.Command{
		Name:  "company",
		Usage: "Show a company's business profile, item list and customer list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "company",
				Aliases:  []string{"C"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "markdown",
				Usage:   "Output format (markdown, json)",
			},
		},
		Action: runCompany,
	}
}

func runCompany(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	backend, err := persistence.OpenCatalog(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	svc := appcatalog.NewService(backend.Store, nil, backend.Driver, log)
	companyID := c.String("company")

	switch c.String("format") {
	case "json":
		company, err := svc.GetCompany(c.Context, companyID)
		if err != nil {
			return err
		}
		return printJSON(c.App.Writer, appcatalog.ToCompanyResponse(company))
	case "markdown", "md":
		md, err := svc.CompanyMarkdown(c.Context, companyID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, md)
		return err
	}
	return fmt.Errorf("unsupported format %q", c.String("format"))
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load companies from a JSON seed file into the configured catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Seed file of the form {\"<company id>\": {...}}",
				Required: true,
			},
		},
		Action: runSeed,
	}
}

func runSeed(c *cli.Context) error {
	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	// The memory driver would seed itself from catalog.seed_file and discard
	// everything on exit.
	if cfg.Catalog.Driver == config.CatalogDriverMemory {
		return errors.New("seeding the memory catalog has no effect; choose redis, postgres or sqlite")
	}
	cfg.Catalog.Fallback = false

	backend, err := persistence.OpenCatalog(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	n, err := persistence.SeedFromFile(c.Context, backend.Seeder, c.String("file"))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "seeded %d companies into the %s catalog\n", n, backend.Driver)
	return nil
}
