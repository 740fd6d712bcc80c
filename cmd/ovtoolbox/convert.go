package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ovtoolbox/flight"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <flight file> [output.kml]",
		Short: "Convert a saved flight file to KML",
		Long: `Convert a saved flight file to a KML document with takeoff and landing
placemarks and the GNSS trace. The output defaults to <flight file>.kml.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := args[0]
			out := in + ".kml"
			if len(args) > 1 {
				out = args[1]
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converting flight '%s'...\n", in)
			f, err := flight.LoadFile(in)
			if err != nil {
				return fmt.Errorf("load %s: %w", in, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saving flight '%s'...\n", out)
			if err := flight.ExportKMLFile(out, f); err != nil {
				return fmt.Errorf("export %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Done!")
			return nil
		},
	}
}
