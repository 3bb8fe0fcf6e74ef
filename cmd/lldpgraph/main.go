// Command lldpgraph maps a network from the LLDP neighbor tables of its
// devices and renders the result as an interactive HTML diagram.
package main

import (
	"errors"
	"fmt"
	"os"

	"lldpgraph/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprint(os.Stderr, ui.FormatError(err.Error(), "", ""))
		}
		os.Exit(1)
	}
}

// reportedError marks an error the command already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	return &reportedError{err: err}
}
