package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/moffa90/go-ovtoolbox/device"
	"github.com/moffa90/go-ovtoolbox/flight"
	"github.com/moffa90/go-ovtoolbox/internal/config"
	"github.com/moffa90/go-ovtoolbox/internal/logging"
	"github.com/moffa90/go-ovtoolbox/internal/metrics"
	"github.com/moffa90/go-ovtoolbox/internal/serialport"
	"github.com/moffa90/go-ovtoolbox/internal/simulator"
)

// toolbox carries what a command needs to reach the device.
type toolbox struct {
	cfg      *config.Config
	flags    *rootFlags
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.LinkMetrics
	in       io.Reader
	out      io.Writer
	errOut   io.Writer

	port     io.Closer
	progress bool
}

func newToolbox(cmd *cobra.Command, flags *rootFlags) (*toolbox, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.port != "" {
		cfg.Serial.Port = flags.port
	}
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}

	logger, err := logging.InitLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	tb := &toolbox{
		cfg:    cfg,
		flags:  flags,
		logger: logger,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}
	if cfg.Metrics.Enable {
		tb.registry = metrics.NewRegistry()
		tb.metrics = metrics.NewLinkMetrics(tb.registry)
	}
	return tb, nil
}

// connect opens the device link and returns a client over it.
func (tb *toolbox) connect(ctx context.Context) (*device.Client, error) {
	opts := []device.Option{
		device.WithLogger(logging.NewLibraryLogger(tb.logger)),
		device.WithReadTimeout(tb.cfg.Serial.ReadTimeout),
		device.WithProgressCallback(tb.reportProgress),
	}
	if tb.metrics != nil {
		opts = append(opts, device.WithObserver(tb.metrics))
	}

	if tb.flags.simulate {
		dev := simulator.New(simulator.WithRecordings(simulator.DemoRecordings()...))
		tb.port = dev
		tb.logger.Info("using simulated device")
		return device.New(dev, opts...)
	}

	name := tb.cfg.Serial.Port
	if name == "" {
		var err error
		name, err = serialport.Find(serialport.SystemPorts, tb.cfg.Serial.VID, tb.cfg.Serial.PID)
		if err != nil {
			fmt.Fprintln(tb.out, "No OpenVario device detected, please plug the USB cable and/or reset the device...")
			name, err = serialport.Wait(ctx, serialport.SystemPorts, tb.cfg.Serial.VID, tb.cfg.Serial.PID, tb.cfg.Serial.DiscoveryInterval)
			if err != nil {
				return nil, err
			}
		}
		fmt.Fprintf(tb.out, "OpenVario device found => %s\n", name)
	}

	port, err := serialport.Open(name, tb.cfg.Serial.BaudRate, tb.cfg.Serial.ReadTimeout)
	if err != nil {
		return nil, err
	}
	tb.port = port
	tb.logger.Info("serial port opened", zap.String("port", name), zap.Int("baud", tb.cfg.Serial.BaudRate))

	client, err := device.New(port, opts...)
	if err != nil {
		_ = port.Close()
		tb.port = nil
		return nil, err
	}
	return client, nil
}

// save writes f to the output directory under the device file name.
func (tb *toolbox) save(name string, f *flight.Flight) (string, error) {
	if err := os.MkdirAll(tb.cfg.Output.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(tb.cfg.Output.Dir, filepath.Base(name))
	if err := flight.SaveFile(path, f); err != nil {
		return "", err
	}
	tb.logger.Info("flight saved", zap.String("path", path), zap.Int("entries", len(f.Entries)))
	return path, nil
}

// reportProgress keeps a running entry counter on stderr while a flight
// is downloaded.
func (tb *toolbox) reportProgress(p device.Progress) {
	if p.Operation != device.OpReadFlight {
		return
	}
	tb.progress = true
	fmt.Fprintf(tb.errOut, "\r%d entries", p.Items)
}

// endProgress terminates the counter line, if any.
func (tb *toolbox) endProgress() {
	if tb.progress {
		fmt.Fprintln(tb.errOut)
		tb.progress = false
	}
}

func (tb *toolbox) close() {
	if tb.port != nil {
		if err := tb.port.Close(); err != nil {
			tb.logger.Error("close port", zap.Error(err))
		}
	}
	if tb.registry != nil {
		if err := metrics.WriteTextfile(tb.cfg.Metrics.Textfile, tb.registry); err != nil {
			tb.logger.Error("export metrics", zap.Error(err))
		}
	}
	_ = tb.logger.Sync()
}
