package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/cheynewallace/tabby"
	"github.com/urfave/cli"

	"github.com/Simplici0/calc3d/internal/pricing"
	"github.com/Simplici0/calc3d/internal/settings"
)

func Settings() cli.Command {
	return cli.Command{
		Name:  "settings",
		Usage: "inspect or reset the stored cost settings",
		Subcommands: []cli.Command{
			{
				Name:  "show",
				Usage: "print the stored settings",
				Action: func(c *cli.Context) error {
					return withRepository(c, func(ctx context.Context, repo *settings.Repository) error {
						material := repo.MaterialSettings(ctx)
						printer := repo.PrintSettings(ctx)

						t := tabby.NewCustom(tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0))
						t.AddHeader("Configuração", "Valor")
						t.AddLine("Custo do Rolo", pricing.FormatCurrency(material.SpoolCost))
						t.AddLine("Peso do Rolo", pricing.FormatNumber(material.SpoolWeightGrams, 0)+" g")
						t.AddLine("Consumo Impressora", pricing.FormatNumber(printer.PrinterPowerWatts, 0)+" W")
						t.AddLine("Custo Energia", pricing.FormatCurrency(printer.ElectricityCostKwh)+"/kWh")
						t.AddLine("Valor Hora Trabalho", pricing.FormatCurrency(printer.WorkPerHourCost)+"/h")
						t.AddLine("Taxa de Setup", pricing.FormatCurrency(printer.SetupFee))
						t.AddLine("Margem de Lucro", pricing.FormatPercent(printer.ProfitPercent)+"%")
						t.Print()
						return nil
					})
				},
			},
			{
				Name:  "reset",
				Usage: "restore the default settings",
				Action: func(c *cli.Context) error {
					return withRepository(c, func(ctx context.Context, repo *settings.Repository) error {
						if err := repo.Reset(ctx); err != nil {
							return fmt.Errorf("reset settings: %w", err)
						}
						fmt.Fprintln(c.App.Writer, "Configurações restauradas para os valores padrão.")
						return nil
					})
				},
			},
		},
	}
}
