// Command evalcored is a demo driver for the evaluation core: it pushes
// bundle/promise frames, applies promise outcomes, and prints the
// resulting global class table, exercising pkg/evalctx's façade
// end-to-end the way go-dws's cmd/dwscript exercises its interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/evalcore/agent/cmd/evalcored/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
