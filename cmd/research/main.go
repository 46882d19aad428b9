package main

import (
	"os"

	"github.com/wonny/vantage/backend/cmd/research/commands"
)

// main is the entry point for the Vantage CLI
// ⭐ Unified CLI entry point: go run ./cmd/research [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
