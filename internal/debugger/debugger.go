// Package debugger exposes bytecode disassembly to the CLI: the `debug`
// subcommand compiles a script and prints its chunks the way
// internal/bytecode.Disassemble renders them, one compiled module or
// function at a time.
package debugger

import (
	"fmt"
	"io"

	"sentra/internal/bytecode"
)

// Dump writes the disassembly of chunk and every chunk reachable through its
// function constants to w, depth-first, so a script with nested closures
// prints outer chunk first and each nested one after it.
func Dump(w io.Writer, chunk *bytecode.Chunk) {
	seen := make(map[*bytecode.Chunk]bool)
	dump(w, chunk, seen)
}

func dump(w io.Writer, chunk *bytecode.Chunk, seen map[*bytecode.Chunk]bool) {
	if chunk == nil || seen[chunk] {
		return
	}
	seen[chunk] = true
	fmt.Fprint(w, bytecode.Disassemble(chunk))
	for _, c := range chunk.Constants {
		if fn, ok := c.Data.(*bytecode.Chunk); ok {
			fmt.Fprintln(w)
			dump(w, fn, seen)
		}
	}
}
