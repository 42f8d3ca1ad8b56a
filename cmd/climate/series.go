package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/climate-canvas/internal/config"
	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/spf13/cobra"
)

// seriesFlags overrides the configured generator parameters.
type seriesFlags struct {
	startYear, endYear int
	seed               int64
	noise              float64
}

func (f *seriesFlags) register(cmd *cobra.Command, defaults domain.GeneratorParams) {
	cmd.Flags().IntVar(&f.startYear, "start-year", defaults.StartYear, "first year of the series")
	cmd.Flags().IntVar(&f.endYear, "end-year", defaults.EndYear, "last year of the series")
	cmd.Flags().Int64Var(&f.seed, "seed", defaults.Seed, "random seed")
	cmd.Flags().Float64Var(&f.noise, "noise", defaults.NoiseScale, "noise scale (0 disables noise)")
}

func (f *seriesFlags) params() domain.GeneratorParams {
	p := domain.DefaultParams()
	p.StartYear, p.EndYear, p.Seed, p.NoiseScale = f.startYear, f.endYear, f.seed, f.noise
	return p
}

// cliDefaults are flag defaults taken from the environment.
type cliDefaults struct {
	params  domain.GeneratorParams
	horizon int
	cutoff  int
}

// loadDefaults reads flag defaults from the environment, falling back to the
// built-in defaults when the environment is invalid.
func loadDefaults() cliDefaults {
	cfg, err := config.Load()
	if err != nil {
		return cliDefaults{params: domain.DefaultParams(), horizon: 10, cutoff: 2000}
	}
	return cliDefaults{params: cfg.GeneratorParams(), horizon: cfg.ForecastHorizon, cutoff: cfg.ForecastCutoffYear}
}

func encodeSeries(w io.Writer, records []domain.YearlyRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write series: %w", err)
	}
	return nil
}

// writeAndClose encodes records into wc and reports a failed close, which is
// where buffered writes to a file surface.
func writeAndClose(wc io.WriteCloser, records []domain.YearlyRecord) error {
	if err := encodeSeries(wc, records); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func newSeriesCmd() *cobra.Command {
	var (
		flags seriesFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Write the generated series as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := domain.GenerateSeries(flags.params())
			if err != nil {
				return err
			}

			if out == "" {
				return encodeSeries(cmd.OutOrStdout(), records)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := writeAndClose(f, records); err != nil {
				return fmt.Errorf("%s: %w", out, err)
			}
			cmd.PrintErrf("wrote %d records to %s\n", len(records), out)
			return nil
		},
	}
	flags.register(cmd, loadDefaults().params)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
