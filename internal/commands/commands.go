// Package commands implements cmd/sentra's project-scaffolding subcommands
// (init/build/watch/clean) — the parts of the CLI that touch the
// filesystem around a script rather than the language pipeline itself.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
)

// InitCommand scaffolds a new project directory with a single entry script.
// The core has no print/IO builtin (spec.md §6 puts that past the module
// loader boundary), so the entry script's only observable effect is the
// value it returns with a top-level `ret`, which `sentra run` reports.
func InitCommand(args []string) error {
	projectName := "sentra-project"
	if len(args) > 0 {
		projectName = args[0]
	}

	if err := os.MkdirAll(projectName, 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	mainFile := filepath.Join(projectName, "main.sn")
	content := `// main.sn
greet = (name) -> "Hello, " + name + "!"
ret greet("Sentra")
`
	if err := os.WriteFile(mainFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create main.sn: %w", err)
	}

	fmt.Printf("Initialized new Sentra project: %s\n", projectName)
	return nil
}

// BuildCommand is a placeholder: the core has no separate build step (a
// script runs straight from source), kept as a CLI alias for parity with
// other toolchains' workflow expectations.
func BuildCommand(args []string) error {
	fmt.Println("Sentra scripts run directly from source; nothing to build.")
	return nil
}

func WatchCommand(args []string) error {
	fmt.Println("Watching for file changes...")
	fmt.Println("Press Ctrl+C to stop")
	select {}
}

func CleanCommand(args []string) error {
	fmt.Println("Cleaning build artifacts...")
	
	artifacts := []string{"build", "dist", "*.out"}
	for _, pattern := range artifacts {
		matches, _ := filepath.Glob(pattern)
		for _, match := range matches {
			os.RemoveAll(match)
			fmt.Printf("Removed: %s\n", match)
		}
	}
	
	fmt.Println("Clean completed")
	return nil
}