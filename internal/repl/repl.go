// Package repl implements the interactive read-eval-print loop: one line of
// source at a time, compiled to its own chunk and run against a thread
// whose bindings persist from line to line via vm.Thread.RunModuleWith.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"sentra/internal/builtins"
	"sentra/internal/compiler"
	"sentra/internal/config"
	"sentra/internal/errors"
	"sentra/internal/lexer"
	"sentra/internal/module"
	"sentra/internal/object"
	"sentra/internal/parser"
	"sentra/internal/runtime"
	"sentra/internal/vm"
)

const prompt = ">>> "

// Start runs the REPL against in/out until EOF or an `exit`/`quit` line.
func Start(in io.Reader, out io.Writer) {
	cfg := config.Default()
	vm.InitialStackCapacity = cfg.StackCapacity
	rt := runtime.New()
	loader := module.NewLoader(rt, rt.NewThread, cfg.SearchPath)
	builtins.RegisterAll(loader)

	thread := rt.NewThread()
	thread.SetImporter(loader)

	fmt.Fprintln(out, "Sentra REPL | type 'exit' to quit")
	scanner := bufio.NewScanner(in)
	bindings := make(map[string]*object.Object)

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := scanner.Text()
		switch line {
		case "", " ":
			continue
		case "exit", "quit":
			return
		}

		tokens := lexer.NewScanner(line).ScanTokens()
		stmts := parser.New(tokens, line, "<repl>").Parse()

		// A bare expression ("2 + 2", not "x = 2 + 2") is rebound to "_" so
		// its value survives the statement's OpPopu and can be echoed —
		// compileStmt always pops an ExprStmt's value, so without this the
		// REPL would run the expression and print nothing, same as a script.
		echo := false
		if len(stmts) == 1 {
			if es, ok := stmts[0].(*parser.ExprStmt); ok {
				if _, isAssign := es.X.(*parser.Assign); !isAssign {
					stmts[0] = &parser.ExprStmt{X: &parser.Assign{Op: "=", Target: &parser.Ident{Name: "_"}, Value: es.X}}
					echo = true
				}
			}
		}

		chunk := compiler.New(rt, line, "<repl>", "<repl>").Compile(stmts)

		result, exc := thread.RunModuleWith(chunk, bindings)
		if exc != nil {
			se := errors.FromException(rt, exc, "<repl>")
			fmt.Fprint(out, se.Error())
			continue
		}
		bindings = result
		if echo {
			if v, ok := bindings["_"]; ok && v != nil {
				fmt.Fprintln(out, rt.FormatRepr(v))
			}
		}
	}
}
