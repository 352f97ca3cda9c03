// Command tableshim validates table schemas and compiles, runs and inspects
// typed queries against them.
package main

import (
	"fmt"
	"os"

	"github.com/satishbabariya/tableshim/cmd/tableshim/commands"
)

func main() {
	if err := commands.NewRootCommand(&commands.App{}).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
