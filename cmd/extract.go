package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tablescout/profiler-cli/internal/model"
)

var (
	extractURL     string
	extractName    string
	extractAddress string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a full profile for a single restaurant",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req := model.ExtractRequest{
			URL:     extractURL,
			Name:    extractName,
			Address: extractAddress,
		}

		result, err := env.Extractor.Run(ctx, req)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		zap.L().Info("extraction complete",
			zap.String("run_id", result.RunID),
			zap.Float64("quality_score", result.Profile.Metadata.QualityScore),
			zap.Float64("cost_usd", result.Profile.Metadata.EstimatedCostUSD),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Profile)
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractURL, "url", "", "restaurant website URL (required)")
	extractCmd.Flags().StringVar(&extractName, "name", "", "business name, improves the places lookup")
	extractCmd.Flags().StringVar(&extractAddress, "address", "", "business address, improves the places lookup")
	_ = extractCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(extractCmd)
}
