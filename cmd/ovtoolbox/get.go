package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-ovtoolbox/device"
	"github.com/moffa90/go-ovtoolbox/flight"
)

func newGetCmd(flags *rootFlags, selector flightSelector) *cobra.Command {
	var kml bool

	cmd := &cobra.Command{
		Use:   "get [flight name]",
		Short: "Retrieve a flight and save it to the output directory",
		Long: `Retrieve a flight and save it to the output directory under its device
file name. Without a name the stored flights are listed and one is selected
interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := newToolbox(cmd, flags)
			if err != nil {
				return err
			}
			defer tb.close()

			client, err := tb.connect(cmd.Context())
			if err != nil {
				return err
			}

			var name string
			if len(args) == 1 {
				name = args[0]
			} else {
				name, err = tb.selectFlight(cmd.Context(), client, selector)
				if err != nil {
					return err
				}
			}
			return tb.retrieve(cmd.Context(), client, name, kml)
		},
	}

	cmd.Flags().BoolVar(&kml, "kml", false, "Also export the flight as <name>.kml")
	return cmd
}

// selectFlight lists the stored flights and asks for one of them.
func (tb *toolbox) selectFlight(ctx context.Context, client *device.Client, selector flightSelector) (string, error) {
	flights, err := client.ListFlights(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to retrieve flight list: %w", err)
	}
	printFlights(tb.out, flights)
	if len(flights) == 0 {
		return "", fmt.Errorf("no stored flights")
	}

	fmt.Fprintln(tb.out)
	id, err := selector(tb.in, tb.out, flights)
	if err != nil {
		return "", err
	}
	return flights[id].Name, nil
}

// retrieve downloads a flight and saves it, with a KML copy when asked.
func (tb *toolbox) retrieve(ctx context.Context, client *device.Client, name string, kml bool) error {
	fmt.Fprintf(tb.out, "Retrieving flight '%s'...\n", name)
	f, err := client.ReadFlight(ctx, name)
	tb.endProgress()
	if err != nil {
		return fmt.Errorf("unable to retrieve flight: %w", err)
	}

	fmt.Fprintf(tb.out, "Saving flight '%s'...\n", name)
	path, err := tb.save(name, f)
	if err != nil {
		return err
	}

	if kml {
		kmlPath := strings.TrimSuffix(path, ".dat") + ".kml"
		if err := flight.ExportKMLFile(kmlPath, f); err != nil {
			return fmt.Errorf("export %s: %w", kmlPath, err)
		}
		fmt.Fprintf(tb.out, "Exported '%s'\n", kmlPath)
	}

	fmt.Fprintln(tb.out, "Done!")
	return nil
}
