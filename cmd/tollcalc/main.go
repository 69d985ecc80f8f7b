package main

import (
	"os"

	"github.com/wonny/tollcalc/cmd/tollcalc/commands"
)

// main is the entry point for the tollcalc CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/tollcalc [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
