package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a series JSON file for gaps, ordering and negative sea level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var records []domain.YearlyRecord
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			if err := domain.ValidateSeries(records); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			cmd.Printf("%s: %d records OK\n", args[0], len(records))
			return nil
		},
	}
}
