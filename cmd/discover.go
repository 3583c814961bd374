package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tablescout/profiler-cli/internal/competitor"
)

var (
	discoverLocation string
	discoverCuisine  string
	discoverTopN     int
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover competitors around a location without a full extraction",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client := initPlaces()
		if client == nil {
			return eris.New("places API key is required (PROFILER_PLACES_KEY)")
		}

		dcfg := competitor.DiscoveryConfig{
			TargetPoolSize: cfg.Discovery.TargetPoolSize,
			TopN:           cfg.Discovery.TopN,
			ChainKeywords:  cfg.Discovery.ChainKeywords,
		}
		if discoverTopN > 0 {
			dcfg.TopN = discoverTopN
		}

		var hints []string
		if discoverCuisine != "" {
			hints = strings.Split(discoverCuisine, ",")
		}

		discoverer := competitor.NewDiscoverer(client, dcfg)
		candidates, coord, err := discoverer.Discover(ctx, discoverLocation, hints)
		if err != nil {
			return eris.Wrap(err, "discover")
		}

		out := struct {
			Location   any                    `json:"location,omitempty"`
			Candidates []competitor.Candidate `json:"candidates"`
		}{Location: coord, Candidates: candidates}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverLocation, "location", "", "address or location text (required)")
	discoverCmd.Flags().StringVar(&discoverCuisine, "cuisine", "", "comma-separated cuisine hints to filter by")
	discoverCmd.Flags().IntVar(&discoverTopN, "top", 0, "number of competitors to return (default from config)")
	_ = discoverCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(discoverCmd)
}
