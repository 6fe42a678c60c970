package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-enricher/internal/browser"
	"github.com/sells-group/company-enricher/internal/config"
	"github.com/sells-group/company-enricher/internal/pipeline"
	"github.com/sells-group/company-enricher/internal/sheet"
)

var (
	enrichInput    string
	enrichPostal   string
	enrichOutput   string
	enrichColumn   string
	enrichSheet    string
	enrichReport   string
	enrichLimit    int
	enrichDryRun   bool
	enrichHeadless bool
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Look up every company in the input workbook and write the enriched copy",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		applyEnrichFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := pipeline.Options{Limit: enrichLimit, DryRun: enrichDryRun}
		return runEnrich(ctx, cfg, opts, browser.NewOpener(cfg.Browser), cmd.OutOrStdout())
	},
}

// applyEnrichFlags overrides config values with flags set on the command line.
func applyEnrichFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		c.Input.CompaniesPath = enrichInput
	}
	if flags.Changed("postal") {
		c.Input.PostalPath = enrichPostal
	}
	if flags.Changed("output") {
		c.Output.Path = enrichOutput
	}
	if flags.Changed("column") {
		c.Input.CompanyColumn = enrichColumn
	}
	if flags.Changed("sheet") {
		c.Input.Sheet = enrichSheet
	}
	if flags.Changed("report") {
		c.Output.ReportPath = enrichReport
	}
	if flags.Changed("headless") {
		c.Browser.Headless = enrichHeadless
	}
}

func runEnrich(ctx context.Context, c *config.Config, opts pipeline.Options, open browser.Opener, out io.Writer) error {
	report, err := pipeline.New(c, open, browser.NewPacer(), opts).Run(ctx)
	if err != nil {
		if eris.Is(err, sheet.ErrMissingColumn) {
			fmt.Fprintf(out, "❌ Excel 檔案缺少 '%s' 欄位！\n", c.Input.CompanyColumn)
		}
		return err
	}

	if c.Output.ReportPath != "" {
		if err := report.WriteReport(c.Output.ReportPath); err != nil {
			return err
		}
		zap.L().Info("run report written", zap.String("path", c.Output.ReportPath))
	}

	fmt.Fprint(out, pipeline.FormatSummary(report))
	if !report.DryRun {
		fmt.Fprintf(out, "✅ 查詢完成，結果已存入 %s\n", c.Output.Path)
	}
	return nil
}

func init() {
	enrichCmd.Flags().StringVar(&enrichInput, "input", "", "company list workbook (default from config)")
	enrichCmd.Flags().StringVar(&enrichPostal, "postal", "", "postal code workbook; empty disables prefixes")
	enrichCmd.Flags().StringVar(&enrichOutput, "output", "", "enriched workbook to write (default from config)")
	enrichCmd.Flags().StringVar(&enrichColumn, "column", "", "header of the company name column")
	enrichCmd.Flags().StringVar(&enrichSheet, "sheet", "", "worksheet of the company list to read (default: first sheet)")
	enrichCmd.Flags().StringVar(&enrichReport, "report", "", "write a YAML run report to this path")
	enrichCmd.Flags().IntVar(&enrichLimit, "limit", 0, "look up only the first N companies (0 = all)")
	enrichCmd.Flags().BoolVar(&enrichDryRun, "dry-run", false, "validate inputs without opening a browser")
	enrichCmd.Flags().BoolVar(&enrichHeadless, "headless", false, "run Chrome headless (default from config)")
	rootCmd.AddCommand(enrichCmd)
}
