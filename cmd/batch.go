package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/input"
	"github.com/gregorizeidler/urbansight/internal/report"
)

var (
	batchFile        string
	batchOutput      string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Analyze a list of addresses from a file",
	Long: `Reads addresses from a text, CSV, or XLSX file and analyzes them
concurrently. One failing address never aborts the rest of the batch.

Examples:
  # One address per line
  urbansight batch --file addresses.txt

  # CSV or XLSX with an "address" column, results to a workbook
  urbansight batch --file properties.xlsx --output results.xlsx`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addresses, err := input.ReadAddresses(batchFile)
		if err != nil {
			return err
		}
		zap.L().Info("addresses loaded",
			zap.String("file", batchFile),
			zap.Int("count", len(addresses)),
		)

		if batchConcurrency > 0 {
			cfg.Batch.MaxConcurrentRequests = batchConcurrency
		}

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		results, summary := p.AnalyzeBatch(cmd.Context(), addresses)

		switch {
		case batchOutput == "":
			return report.EncodeBatchJSON(os.Stdout, results, summary)
		case strings.HasSuffix(strings.ToLower(batchOutput), ".xlsx"):
			if err := report.WriteBatchXLSX(batchOutput, results); err != nil {
				return err
			}
		case strings.HasSuffix(strings.ToLower(batchOutput), ".json"):
			f, err := os.Create(batchOutput)
			if err != nil {
				return eris.Wrap(err, "create batch output")
			}
			defer f.Close() //nolint:errcheck
			if err := report.EncodeBatchJSON(f, results, summary); err != nil {
				return err
			}
		default:
			return eris.Errorf("unsupported output format %q (want .json or .xlsx)", batchOutput)
		}

		zap.L().Info("batch report written", zap.String("path", batchOutput))
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "address list: .txt, .csv, or .xlsx (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "", "write results to a .json or .xlsx file instead of stdout")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent analyses (default from config)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
