package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-ovtoolbox/device"
	"github.com/moffa90/go-ovtoolbox/flight"
)

// run executes the command tree against the simulated device.
func run(t *testing.T, selector flightSelector, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, "", selector, args...)
}

// runWithInput executes the command tree with input as stdin.
func runWithInput(t *testing.T, input string, selector flightSelector, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OVTOOLBOX_CONFIG", "")

	if selector == nil {
		selector = func(io.Reader, io.Writer, []flight.IndexEntry) (int, error) {
			t.Fatal("unexpected flight selection")
			return 0, nil
		}
	}

	cmd := newRootCmd(selector)
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func pick(id int) flightSelector {
	return func(io.Reader, io.Writer, []flight.IndexEntry) (int, error) { return id, nil }
}

func TestInfoCommand(t *testing.T) {
	out, err := run(t, nil, "info", "--simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Device information :")
	assert.Contains(t, out, " - Name : OpenVario")
	assert.Contains(t, out, " - FW version : 1.0.0")

	out, err = run(t, nil, "info", "--simulate", "--format", "yaml")
	require.NoError(t, err)
	var info device.Info
	require.NoError(t, yaml.Unmarshal([]byte(out), &info))
	assert.Equal(t, "OpenVario", info.Name)
	assert.Equal(t, "simulator", info.HWVersion)
}

func TestListCommand(t *testing.T) {
	out, err := run(t, nil, "list", "--simulate")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored flights :")
	assert.Contains(t, out, " 0 - flight_0001.dat : ")
	assert.Contains(t, out, " 1 - flight_0002.dat : ")
	assert.Contains(t, out, " 2 - flight_0003.dat : ")

	out, err = run(t, nil, "list", "--simulate", "-f", "yaml")
	require.NoError(t, err)
	var flights []flight.IndexEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &flights))
	require.Len(t, flights, 3)
	assert.Equal(t, "flight_0002.dat", flights[1].Name)
	assert.NotZero(t, flights[1].Size)
}

func TestUnknownFormat(t *testing.T) {
	_, err := run(t, nil, "list", "--simulate", "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "csv"`)
}

func TestGetCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, nil, "get", "flight_0002.dat", "--simulate", "--kml", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Retrieving flight 'flight_0002.dat'...")
	assert.Contains(t, out, "Done!")

	f, err := flight.LoadFile(filepath.Join(dir, "flight_0002.dat"))
	require.NoError(t, err)
	assert.Equal(t, "Discus 2b", f.Header.Glider)
	assert.Len(t, f.Entries, 60)

	raw, err := os.ReadFile(filepath.Join(dir, "flight_0002.kml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Flight with glider : Discus 2b")
}

func TestGetCommandSelects(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, pick(0), "get", "--simulate", "--output-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, " 0 - flight_0001.dat : ")
	assert.Contains(t, out, "Saving flight 'flight_0001.dat'...")

	f, err := flight.LoadFile(filepath.Join(dir, "flight_0001.dat"))
	require.NoError(t, err)
	assert.Len(t, f.Entries, 120)
}

func TestGetCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, nil, "get", "nope.dat", "--simulate", "--output-dir", dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, device.ErrRejected)
	assert.Contains(t, err.Error(), "unable to retrieve flight")

	aborted := func(io.Reader, io.Writer, []flight.IndexEntry) (int, error) { return 0, errSelectionAborted }
	_, err = run(t, aborted, "get", "--simulate", "--output-dir", dir)
	assert.ErrorIs(t, err, errSelectionAborted)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInteractive(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, pick(1), "--simulate", "--output-dir", dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, banner+"Starting communication...\n"))
	assert.Contains(t, out, " - Name : OpenVario")
	assert.Contains(t, out, "Stored flights :")
	assert.Contains(t, out, "Retrieving flight 'flight_0002.dat'...")
	assert.Contains(t, out, "Done!")
	assert.FileExists(t, filepath.Join(dir, "flight_0002.dat"))
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "flight_0001.dat")
	f := &flight.Flight{
		Header: flight.Header{Glider: "LS4", PeriodMs: 1000},
		Entries: []flight.Entry{
			{GNSS: flight.GNSS{Valid: true, Latitude: 45.5, Longitude: 6.25, Altitude: 12000}},
		},
	}
	require.NoError(t, flight.SaveFile(in, f))

	out, err := run(t, nil, "convert", in)
	require.NoError(t, err)
	assert.Contains(t, out, "Done!")
	assert.FileExists(t, in+".kml")

	custom := filepath.Join(dir, "trace.kml")
	_, err = run(t, nil, "convert", in, custom)
	require.NoError(t, err)
	raw, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<coordinates>6.250000,45.500000,1200</coordinates>")
}

func TestConvertCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, nil, "convert", filepath.Join(dir, "missing.dat"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	empty := filepath.Join(dir, "empty.dat")
	require.NoError(t, flight.SaveFile(empty, &flight.Flight{Header: flight.Header{Glider: "LS4"}}))
	_, err = run(t, nil, "convert", empty)
	assert.ErrorIs(t, err, flight.ErrNoEntries)

	_, err = run(t, nil, "convert")
	assert.Error(t, err)
}

func TestMetricsTextfile(t *testing.T) {
	dir := t.TempDir()
	textfile := filepath.Join(dir, "ovtoolbox.prom")
	cfgPath := filepath.Join(dir, "ovtoolbox.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("metrics:\n  enable: true\n  textfile: "+textfile+"\n"), 0o644))

	_, err := run(t, nil, "list", "--simulate", "--config", cfgPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `ovtoolbox_link_requests_sent_total{request="list_flights"} 1`)
	assert.Contains(t, string(raw), `ovtoolbox_link_requests_sent_total{request="list_flights_data"} 4`)
}

func TestParseSelection(t *testing.T) {
	flights := []flight.IndexEntry{{Name: "flight_0001.dat"}, {Name: "flight_0002.dat"}}

	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "0", want: 0, wantOK: true},
		{in: " 1 ", want: 1, wantOK: true},
		{in: "2"},
		{in: "-1"},
		{in: "flight_0002.dat", want: 1, wantOK: true},
		{in: "flight_0009.dat"},
		{in: "one"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseSelection(tt.in, flights)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLineSelector(t *testing.T) {
	flights := []flight.IndexEntry{{Name: "flight_0001.dat"}, {Name: "flight_0002.dat"}}

	tests := []struct {
		name    string
		input   string
		want    int
		prompts int
		wantErr error
	}{
		{name: "invalid then valid", input: "x\n0\n", want: 0, prompts: 2},
		{name: "by name", input: "flight_0002.dat\n", want: 1, prompts: 1},
		{name: "blank lines re-ask", input: "\n\n1\n", want: 1, prompts: 3},
		{name: "no trailing newline", input: "1", want: 1, prompts: 1},
		{name: "quit", input: "quit\n", prompts: 1, wantErr: errSelectionAborted},
		{name: "end of input", input: "7\n", prompts: 2, wantErr: errSelectionAborted},
		{name: "empty input", input: "", prompts: 1, wantErr: errSelectionAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := lineSelector(strings.NewReader(tt.input), &out, flights)
			assert.Equal(t, tt.prompts, strings.Count(out.String(), selectionPrompt))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCommandReadsSelectionFromInput(t *testing.T) {
	dir := t.TempDir()

	out, err := runWithInput(t, "x\n0\n", selectFlight, "get", "--simulate", "--kml", "--output-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, selectionPrompt))
	assert.Contains(t, out, "Retrieving flight 'flight_0001.dat'...")
	assert.FileExists(t, filepath.Join(dir, "flight_0001.dat"))
	assert.FileExists(t, filepath.Join(dir, "flight_0001.kml"))
}

func TestInteractiveInputClosed(t *testing.T) {
	dir := t.TempDir()

	_, err := runWithInput(t, "", selectFlight, "--simulate", "--output-dir", dir)
	assert.ErrorIs(t, err, errSelectionAborted)
}
