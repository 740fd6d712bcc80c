// Package serialport finds and opens the OpenVario USB serial port.
package serialport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// ErrNotFound is returned by Find when no port matches the USB ids.
var ErrNotFound = errors.New("serial device not found")

// Lister returns the serial ports currently attached.
type Lister func() ([]*enumerator.PortDetails, error)

// SystemPorts lists the ports of the running system.
var SystemPorts Lister = enumerator.GetDetailedPortsList

// Find returns the name of the first USB port with the given vendor and
// product ids (hex strings, compared case-insensitively).
func Find(list Lister, vid, pid string) (string, error) {
	ports, err := list()
	if err != nil {
		return "", fmt.Errorf("list serial ports: %w", err)
	}
	for _, p := range ports {
		if !p.IsUSB {
			continue
		}
		if strings.EqualFold(p.VID, vid) && strings.EqualFold(p.PID, pid) {
			return p.Name, nil
		}
	}
	return "", fmt.Errorf("%w: vid %s pid %s", ErrNotFound, vid, pid)
}

// Wait polls Find every interval until the device shows up or ctx is done.
// Listing errors other than ErrNotFound end the wait.
func Wait(ctx context.Context, list Lister, vid, pid string, interval time.Duration) (string, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		name, err := Find(list, vid, pid)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for device: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// Open opens name as 8N1 at the given baud rate with the read timeout set.
// The returned port satisfies transport.Port.
func Open(name string, baudRate int, readTimeout time.Duration) (serial.Port, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	return port, nil
}
