package main

import (
	"github.com/spf13/cobra"
)

const banner = `######################################
         OpenVario toolbox
######################################
`

// flags shared by every command
type rootFlags struct {
	configPath string
	port       string
	outputDir  string
	simulate   bool
}

func newRootCmd(selector flightSelector) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "ovtoolbox",
		Short: "OpenVario flight retrieval toolbox",
		Long: `Retrieve recorded flights from an OpenVario device over USB serial.

Without a subcommand the toolbox waits for the device, lists the stored
flights and asks which one to save.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := newToolbox(cmd, flags)
			if err != nil {
				return err
			}
			defer tb.close()
			return tb.interactive(cmd.Context(), selector)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default ./ovtoolbox.yaml or ./configs/ovtoolbox.yaml)")
	pf.StringVarP(&flags.port, "port", "p", "", "Serial port, skips USB discovery")
	pf.StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory retrieved flights are saved to")
	pf.BoolVar(&flags.simulate, "simulate", false, "Talk to an in-memory simulated device")

	cmd.AddCommand(
		newInfoCmd(flags),
		newListCmd(flags),
		newGetCmd(flags, selector),
		newConvertCmd(),
	)
	return cmd
}
