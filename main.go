// ./main.go
package main

import (
	"github.com/xkilldash9x/archlens-cli/cmd"
)

// main is the entry point for the archlens CLI.
func main() {
	// Execute the root command defined in the cmd package.
	// All command-line parsing, configuration, and execution happens there.
	cmd.Execute()
}
