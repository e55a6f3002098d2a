// Package main is the entry point for the concierge debugging CLI.
package main

import (
	"fmt"
	"os"

	"github.com/capitalize-ai/travel-concierge/cmd/concierge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
