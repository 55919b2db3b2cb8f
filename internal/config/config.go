// Package config holds the plain-struct runtime tunables for a Sentra
// process: where modules are searched for, and how the VM schedules between
// threads. Nothing here is read from a file format; a process either takes
// the defaults or overrides fields on the struct before building a runtime.
package config

import (
	"sentra/internal/module"
)

// Config collects the knobs a host program (cmd/sentra, an embedder) can
// set before constructing an Interp and its Loader.
type Config struct {
	// SearchPath is walked in order when an import isn't a built-in module
	// and isn't already cached. See internal/module.DefaultSearchPath.
	SearchPath []string

	// YieldQuantum records how many bytecode instructions a thread runs
	// between GIL yield points (§5's "periodically releases and reacquires
	// [the GIL] at instruction boundaries"). The VM does not read it:
	// internal/vm's dispatch loop uses its own fixed yieldQuantum constant
	// of 1024, the same value Default sets here.
	YieldQuantum int

	// StackCapacity preallocates a thread's value stack to avoid early
	// growth reallocations for typical scripts.
	StackCapacity int
}

// Default returns the configuration cmd/sentra builds against when the user
// hasn't overridden anything: current directory, ./lib, ./modules, and a
// stdlib directory next to the running executable.
func Default() *Config {
	return &Config{
		SearchPath:    module.DefaultSearchPath(),
		YieldQuantum:  1024,
		StackCapacity: 256,
	}
}
