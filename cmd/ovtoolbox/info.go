package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-ovtoolbox/device"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func newInfoCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show device name and versions",
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
			info, err := client.DeviceInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("unable to retrieve device information: %w", err)
			}

			if format == formatYAML {
				return writeYAML(tb.out, info)
			}
			printInfo(tb.out, info)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text or yaml")
	return cmd
}

func printInfo(w io.Writer, info *device.Info) {
	fmt.Fprintln(w, "Device information :")
	fmt.Fprintf(w, " - Name : %s\n", info.Name)
	fmt.Fprintf(w, " - HW version : %s\n", info.HWVersion)
	fmt.Fprintf(w, " - FW version : %s\n", info.FWVersion)
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", format, formatText, formatYAML)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
