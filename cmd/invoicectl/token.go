package main

import (
	"github.com/urfave/cli/v2"

	"github.com/invoicer/backend/internal/infrastructure/auth"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue an API token for one company, or * for all",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "company",
				Aliases:  []string{"C"},
				Required: true,
			},
			&cli.StringFlag{
				Name:  "subject",
				Usage: "Token subject (default: the company ID)",
			},
			&cli.StringSliceFlag{
				Name:  "scope",
				Usage: "Granted scope, repeatable (default: all scopes)",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime (default: auth.token_expiration)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup(c)
			if err != nil {
				return err
			}
			token, err := auth.NewJWTService(cfg.Auth).Issue(auth.IssueInput{
				CompanyID: c.String("company"),
				Subject:   c.String("subject"),
				Scopes:    c.StringSlice("scope"),
				TTL:       c.Duration("ttl"),
			})
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, token)
		},
	}
}
