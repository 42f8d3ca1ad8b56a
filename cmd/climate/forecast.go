package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/spf13/cobra"
)

func newForecastCmd() *cobra.Command {
	var (
		flags   seriesFlags
		horizon int
		cutoff  int
	)
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit the CO2 trend and print history merged with the forecast",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := domain.GenerateSeries(flags.params())
			if err != nil {
				return err
			}
			points, model, err := domain.ForecastCO2(records, horizon)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "co2 = %.3f + %.4f * (year - %d)\n\n", model.Intercept, model.Slope, model.Origin)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tCO2 (ppm)\tTYPE")
			for _, row := range domain.MergeForDisplay(records, cutoff, points) {
				fmt.Fprintf(tw, "%d\t%.1f\t%s\n", row.Year, row.CO2PPM, row.Label)
			}
			return tw.Flush()
		},
	}
	defaults := loadDefaults()
	flags.register(cmd, defaults.params)
	cmd.Flags().IntVar(&horizon, "horizon", defaults.horizon, "years to forecast beyond the last observed year")
	cmd.Flags().IntVar(&cutoff, "cutoff", defaults.cutoff, "first historical year shown")
	return cmd
}
