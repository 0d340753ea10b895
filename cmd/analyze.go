package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gregorizeidler/urbansight/internal/report"
)

var (
	analyzeAddress string
	analyzeOutput  string
	analyzeGeoJSON string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the neighborhood around one address",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		result := p.Analyze(cmd.Context(), analyzeAddress)

		if result.Success && result.Metrics != nil {
			zap.L().Info("analysis complete",
				zap.String("analysis_id", result.AnalysisID),
				zap.Float64("walk_score", result.Metrics.WalkScore.Overall),
				zap.String("grade", result.Metrics.WalkScore.Grade),
				zap.Float64("total_score", result.Metrics.TotalScore),
				zap.Int("pois", len(result.POIs)),
			)
		} else {
			zap.L().Warn("analysis did not succeed",
				zap.String("analysis_id", result.AnalysisID),
				zap.String("error", result.Error),
			)
		}

		if analyzeGeoJSON != "" && result.Success {
			out, err := report.GeoJSON(result)
			if err != nil {
				return err
			}
			if err := os.WriteFile(analyzeGeoJSON, out, 0o644); err != nil {
				return eris.Wrap(err, "write geojson")
			}
			zap.L().Info("geojson written", zap.String("path", analyzeGeoJSON))
		}

		if analyzeOutput != "" {
			if err := report.WriteJSON(analyzeOutput, result); err != nil {
				return err
			}
			zap.L().Info("report written", zap.String("path", analyzeOutput))
			return nil
		}

		// Print result JSON to stdout
		return report.EncodeJSON(os.Stdout, result)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeAddress, "address", "", "property address (required)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write the report to a JSON file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeGeoJSON, "geojson", "", "also write a GeoJSON export to this path")
	_ = analyzeCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(analyzeCmd)
}
