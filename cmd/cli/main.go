// Package main is the entry point for the ticket-settle CLI.
package main

import (
	"os"

	"ticket-settlement/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
