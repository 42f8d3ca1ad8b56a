// Command climate serves the climate dashboard and exposes its generator and
// forecaster on the command line.
//
// Usage:
//
//	climate serve
//	climate series --start-year 1950 --out series.json
//	climate forecast --horizon 25 --cutoff 1990
//	climate validate series.json
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "climate",
		Short: "Synthetic climate dashboard with CO2 forecasting",
		Long: `climate generates a reproducible synthetic series of temperature anomaly,
CO2 concentration and sea level, fits a linear CO2 trend, and serves an
interactive dashboard with optional AI summaries and question answering.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(),
		newSeriesCmd(),
		newForecastCmd(),
		newValidateCmd(),
	)
	return root
}
