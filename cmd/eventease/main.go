// Command eventease tracks events and attendee registrations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jacentio/eventease/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Command errors are already reported; cobra usage errors are not.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
