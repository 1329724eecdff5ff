package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fastygo/tasktimer/internal/app"
	"github.com/fastygo/tasktimer/usecase/report"
)

var (
	reportFormat string
	reportOut    string
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the per-day time report",
		Long: `Build the per-day time report from the configured task store.

Examples:
  tasktimer report
  tasktimer report --format yaml
  tasktimer report --format pdf --out march.pdf`,
		Args: cobra.NoArgs,
		RunE: runReport,
	}
	cmd.Flags().StringVarP(&reportFormat, "format", "f", "json", "output format (json, yaml, pdf)")
	cmd.Flags().StringVarP(&reportOut, "out", "o", "", "write to file instead of stdout")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(reportFormat)
	if err != nil {
		return err
	}
	if format == report.FormatPDF && reportOut == "" {
		return fmt.Errorf("pdf output needs --out")
	}

	cfg, zapLogger, err := setup(true)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	ctx := cmd.Context()
	application, err := app.New(ctx, cfg, nil, zapLogger)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	r, err := application.Reports.Daily(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", reportOut, err)
		}
		defer f.Close()
		w = f
	}
	return report.Encode(w, r, format)
}
