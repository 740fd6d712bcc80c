package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ovtoolbox/flight"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the flights stored on the device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			tb, err := newToolbox(cmd, flags)
			if err != nil {
				return err
			}
			defer tb.close()

			client, err := tb.connect(cmd.Context())
			if err != nil {
				return err
			}
			flights, err := client.ListFlights(cmd.Context())
			if err != nil {
				return fmt.Errorf("unable to retrieve flight list: %w", err)
			}

			if format == formatYAML {
				return writeYAML(tb.out, flights)
			}
			printFlights(tb.out, flights)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or yaml")
	return cmd
}

// printFlights prints the index with the ids accepted by the selection prompt.
func printFlights(w io.Writer, flights []flight.IndexEntry) {
	if len(flights) == 0 {
		fmt.Fprintln(w, "No stored flights")
		return
	}
	fmt.Fprintln(w, "Stored flights : ")
	for i, f := range flights {
		fmt.Fprintf(w, " %d - %s : %d bytes\n", i, f.Name, f.Size)
	}
}
