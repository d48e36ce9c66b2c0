// Command demodata generates the bookstore demo dataset.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/librocco/demo-data/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		// Command failures were already reported in the chosen format.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
