package main

import (
	"context"
	"fmt"
)

// interactive runs the toolbox flow: find the device, show its information
// and flights, then retrieve the selected one.
func (tb *toolbox) interactive(ctx context.Context, selector flightSelector) error {
	fmt.Fprint(tb.out, banner)

	client, err := tb.connect(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(tb.out, "Starting communication...")

	info, err := client.DeviceInfo(ctx)
	if err != nil {
		return fmt.Errorf("unable to retrieve device information: %w", err)
	}
	fmt.Fprintln(tb.out)
	printInfo(tb.out, info)
	fmt.Fprintln(tb.out)

	name, err := tb.selectFlight(ctx, client, selector)
	if err != nil {
		return err
	}
	fmt.Fprintln(tb.out)
	return tb.retrieve(ctx, client, name, false)
}
