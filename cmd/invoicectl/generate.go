package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	appinvoice "github.com/invoicer/backend/internal/application/invoice"
	"github.com/invoicer/backend/internal/bootstrap"
	"github.com/invoicer/backend/internal/infrastructure/logger"
	"github.com/invoicer/backend/internal/infrastructure/printing"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Turn a free-text request into an invoice document",
		ArgsUsage: "<request text>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "company",
				Aliases:  []string{"C"},
				Usage:    "Company ID whose catalog prices the invoice",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Current date override, YYYY-MM-DD",
			},
			&cli.BoolFlag{
				Name:  "envelope",
				Usage: "Print the full response with states and advisories",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"e"},
				Usage:   "Also render the invoice (markdown, html, xlsx, pdf)",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output path for --export (default: the invoice number)",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if message == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read request from stdin: %w", err)
		}
		message = strings.TrimSpace(string(data))
	}
	if message == "" {
		return errors.New("a request text is required")
	}

	var format printing.Format
	if name := c.String("export"); name != "" {
		f, err := printing.ParseFormat(name)
		if err != nil {
			return err
		}
		format = f
	}

	cfg, log, err := setup(c)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	ctx := c.Context
	app, err := bootstrap.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	resp, err := app.Invoices.Generate(ctx, c.String("company"), appinvoice.GenerateRequest{
		Message:     message,
		CurrentDate: c.String("date"),
	})
	if err != nil {
		return err
	}

	var out any = resp.Output()
	if c.Bool("envelope") {
		out = resp
	}
	if err := printJSON(c.App.Writer, out); err != nil {
		return err
	}

	if format == "" || resp.Document == nil {
		return nil
	}
	file, err := app.Invoices.Export(ctx, format, appinvoice.ExportRequest{
		Document: *resp.Document,
		Currency: resp.Currency,
	})
	if err != nil {
		return err
	}
	path := c.String("out")
	if path == "" {
		path = file.Filename
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(c.App.ErrWriter, "wrote %s (%d bytes)\n", path, len(file.Data))
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
