package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"

	"github.com/moffa90/go-ovtoolbox/flight"
)

const selectionPrompt = "Select flight to retrieve : "

var errSelectionAborted = errors.New("flight selection aborted")

// flightSelector asks for one of flights and returns its index.
type flightSelector func(in io.Reader, out io.Writer, flights []flight.IndexEntry) (int, error)

// selectFlight uses the go-prompt selector on a terminal and reads plain
// lines from in otherwise, so the toolbox can be scripted.
func selectFlight(in io.Reader, out io.Writer, flights []flight.IndexEntry) (int, error) {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return promptSelector(in, out, flights)
	}
	return lineSelector(in, out, flights)
}

// promptSelector asks on the terminal until a valid id or name is entered.
// An empty line (Ctrl-D) or "quit" aborts.
func promptSelector(_ io.Reader, _ io.Writer, flights []flight.IndexEntry) (int, error) {
	completer := func(d prompt.Document) []prompt.Suggest {
		s := make([]prompt.Suggest, 0, len(flights))
		for i, f := range flights {
			s = append(s, prompt.Suggest{Text: strconv.Itoa(i), Description: f.Name})
		}
		return prompt.FilterHasPrefix(s, d.GetWordBeforeCursor(), true)
	}

	for {
		in := strings.TrimSpace(prompt.Input(selectionPrompt, completer,
			prompt.OptionTitle("OpenVario toolbox"),
		))
		if in == "" || in == "quit" || in == "exit" {
			return 0, errSelectionAborted
		}
		if id, ok := parseSelection(in, flights); ok {
			return id, nil
		}
	}
}

// lineSelector reads answers line by line until one is valid.
// End of input or "quit" aborts.
func lineSelector(in io.Reader, out io.Writer, flights []flight.IndexEntry) (int, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, selectionPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("read selection: %w", err)
			}
			return 0, errSelectionAborted
		}

		answer := strings.TrimSpace(scanner.Text())
		if answer == "quit" || answer == "exit" {
			return 0, errSelectionAborted
		}
		if id, ok := parseSelection(answer, flights); ok {
			return id, nil
		}
	}
}

// parseSelection resolves an index as printed by the listing, or a flight name.
func parseSelection(in string, flights []flight.IndexEntry) (int, bool) {
	in = strings.TrimSpace(in)
	if id, err := strconv.Atoi(in); err == nil {
		return id, id >= 0 && id < len(flights)
	}
	for i, f := range flights {
		if f.Name == in {
			return i, true
		}
	}
	return 0, false
}
