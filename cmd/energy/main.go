package main

import (
	"os"

	"github.com/LNshuti/energy/cmd/energy/commands"
)

// main is the entry point for the energy CLI
// ⭐ single CLI entry point: go run ./cmd/energy [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
