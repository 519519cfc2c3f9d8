package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/cheynewallace/tabby"
	"github.com/urfave/cli"

	"github.com/Simplici0/calc3d/internal/export"
	"github.com/Simplici0/calc3d/internal/form"
	"github.com/Simplici0/calc3d/internal/pricing"
	"github.com/Simplici0/calc3d/internal/quote"
	"github.com/Simplici0/calc3d/internal/settings"
)

func Quote() cli.Command {
	const (
		customerFlagName    = "customer"
		partFlagName        = "part"
		weightFlagName      = "weight"
		hoursFlagName       = "hours"
		minutesFlagName     = "minutes"
		spoolCostFlagName   = "spool-cost"
		spoolWeightFlagName = "spool-weight"
		powerFlagName       = "power"
		kwhCostFlagName     = "kwh-cost"
		hourlyRateFlagName  = "hourly-rate"
		profitFlagName      = "profit"
		setupFeeFlagName    = "setup-fee"
		saveFlagName        = "save"
		outFlagName         = "out"
	)

	return cli.Command{
		Name:  "quote",
		Usage: "price a print job using the stored settings",
		Flags: []cli.Flag{
			cli.StringFlag{Name: customerFlagName, Usage: "customer name"},
			cli.StringFlag{Name: partFlagName, Usage: "part description"},
			cli.Float64Flag{Name: weightFlagName, Usage: "part weight in grams"},
			cli.Float64Flag{Name: hoursFlagName, Usage: "print time hours"},
			cli.Float64Flag{Name: minutesFlagName, Usage: "print time minutes"},
			cli.Float64Flag{Name: spoolCostFlagName, Usage: "override the spool cost"},
			cli.Float64Flag{Name: spoolWeightFlagName, Usage: "override the spool weight in grams"},
			cli.Float64Flag{Name: powerFlagName, Usage: "override the printer power in watts"},
			cli.Float64Flag{Name: kwhCostFlagName, Usage: "override the electricity cost per kWh"},
			cli.Float64Flag{Name: hourlyRateFlagName, Usage: "override the labor cost per hour"},
			cli.Float64Flag{Name: profitFlagName, Usage: "override the profit margin percent"},
			cli.Float64Flag{Name: setupFeeFlagName, Usage: "override the setup fee"},
			cli.BoolFlag{Name: saveFlagName, Usage: "store the overridden settings"},
			cli.StringFlag{Name: outFlagName, Usage: "export the quote to `FILE` (.pdf, .xlsx or .txt)"},
		},
		Action: func(c *cli.Context) error {
			var format export.Format
			out := c.String(outFlagName)
			if out != "" {
				var err error
				if format, err = export.ParseFormat(filepath.Ext(out)); err != nil {
					return err
				}
			}

			override := func(name string, dst *float64) {
				if c.IsSet(name) {
					*dst = c.Float64(name)
				}
			}

			return withRepository(c, func(ctx context.Context, repo *settings.Repository) error {
				material := repo.MaterialSettings(ctx)
				override(spoolCostFlagName, &material.SpoolCost)
				override(spoolWeightFlagName, &material.SpoolWeightGrams)

				printer := repo.PrintSettings(ctx)
				override(powerFlagName, &printer.PrinterPowerWatts)
				override(kwhCostFlagName, &printer.ElectricityCostKwh)
				override(hourlyRateFlagName, &printer.WorkPerHourCost)
				override(profitFlagName, &printer.ProfitPercent)
				override(setupFeeFlagName, &printer.SetupFee)

				session := quote.NewSession(form.NormalizeMaterial(material), form.NormalizePrint(printer))
				session.SetJob(form.NormalizeJob(pricing.JobDetails{
					CustomerName:     c.String(customerFlagName),
					PartName:         c.String(partFlagName),
					PartWeightGrams:  c.Float64(weightFlagName),
					PrintTimeHours:   c.Float64(hoursFlagName),
					PrintTimeMinutes: c.Float64(minutesFlagName),
				}))

				breakdown, err := session.Calculate()
				if err != nil {
					return fmt.Errorf("calculate quote: %w", err)
				}

				if c.Bool(saveFlagName) {
					if err := repo.SaveMaterialSettings(ctx, session.Material()); err != nil {
						return fmt.Errorf("save material settings: %w", err)
					}
					if err := repo.SavePrintSettings(ctx, session.Printer()); err != nil {
						return fmt.Errorf("save print settings: %w", err)
					}
				}

				printBreakdown(c.App.Writer, session, breakdown)

				if out == "" {
					return nil
				}
				if err := writeDocument(session, format, out, time.Now()); err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "\nOrçamento salvo em %s\n", out)
				return nil
			})
		},
	}
}

func printBreakdown(w io.Writer, session *quote.Session, b pricing.Breakdown) {
	job := session.Job()
	fmt.Fprintf(w, "%s | %s | %s g | %s h\n\n",
		orDash(job.CustomerName), orDash(job.PartName),
		pricing.FormatNumber2(job.PartWeightGrams), pricing.FormatNumber2(job.TotalHours()))

	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("Item", "Valor")
	t.AddLine("Material", pricing.FormatCurrency(b.MaterialCost))
	t.AddLine("Energia", pricing.FormatCurrency(b.EnergyCost))
	t.AddLine("Mão de Obra", pricing.FormatCurrency(b.LaborCost))
	t.AddLine("Setup", pricing.FormatCurrency(b.SetupCost))
	t.AddLine("Subtotal", pricing.FormatCurrency(b.BaseCost))
	t.AddLine(fmt.Sprintf("Lucro (%s%%)", pricing.FormatPercent(session.Printer().ProfitPercent)), pricing.FormatCurrency(b.Profit()))
	t.AddLine("Total", pricing.FormatCurrency(b.TotalCost))
	t.Print()

	composition := b.Composition()
	if len(composition) == 0 {
		return
	}
	fmt.Fprintln(w)
	t = tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("Composição", "%")
	for _, part := range composition {
		t.AddLine(part.Name, pricing.FormatNumber(part.Share, 1))
	}
	t.Print()
}

func writeDocument(session *quote.Session, format export.Format, path string, now time.Time) (err error) {
	doc, err := session.Document(now)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := export.Write(f, format, doc); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
