// cmd/sentra/main.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"sentra/internal/builtins"
	"sentra/internal/commands"
	"sentra/internal/compiler"
	"sentra/internal/config"
	"sentra/internal/debugger"
	"sentra/internal/errors"
	"sentra/internal/lexer"
	"sentra/internal/module"
	"sentra/internal/object"
	"sentra/internal/parser"
	"sentra/internal/repl"
	"sentra/internal/runtime"
	"sentra/internal/vm"
)

const version = "1.0.0"

// commandAliases lets a user type a single letter for the command they use
// most; showUsage lists both forms.
var commandAliases = map[string]string{
	"r": "run",
	"i": "repl",
	"d": "debug",
	"b": "build",
	"w": "watch",
	"c": "check",
}

// colorEnabled decides whether the CLI emits ANSI color, following the same
// isatty(stdout) check any of this stack's terminal-facing tools use —
// never color when output is redirected to a file or a pipe.
var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		showUsage()
		return
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "--help", "-h", "help":
		showUsage()
	case "--version", "-v", "version":
		fmt.Printf("sentra %s\n", version)
	case "run":
		requireFile(args, runFile)
	case "repl":
		repl.Start(os.Stdin, os.Stdout)
	case "debug":
		requireFile(args, disassembleFile)
	case "check":
		requireFile(args, checkFile)
	case "init":
		runCommand(commands.InitCommand(args[1:]))
	case "build":
		runCommand(commands.BuildCommand(args[1:]))
	case "watch":
		runCommand(commands.WatchCommand(args[1:]))
	case "clean":
		runCommand(commands.CleanCommand(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "sentra: unknown command %q\n", args[0])
		showUsage()
		os.Exit(1)
	}
}

func runCommand(err error) {
	if err != nil {
		log.Fatalf("sentra: %v", err)
	}
}

func requireFile(args []string, fn func(filename string)) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "sentra: expected a filename")
		os.Exit(1)
	}
	fn(args[1])
}

// newInterp builds one runtime + module loader + domain-stack registration,
// the fixed bootstrap every file-running subcommand needs before it can
// lex/parse/compile/run anything.
func newInterp() (*runtime.Interp, *module.Loader) {
	cfg := config.Default()
	vm.InitialStackCapacity = cfg.StackCapacity
	rt := runtime.New()
	loader := module.NewLoader(rt, rt.NewThread, cfg.SearchPath)
	builtins.RegisterAll(loader)
	return rt, loader
}

func compileFile(rt *runtime.Interp, filename string) (*compiler.Compiler, []parser.Stmt, bool) {
	source, err := os.ReadFile(filename)
	if err != nil {
		log.Fatalf("sentra: could not read %s: %v", filename, err)
	}

	tokens := lexer.NewScanner(string(source)).ScanTokens()
	p := parser.New(tokens, string(source), filename)
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		for _, se := range p.Errors {
			fmt.Fprintln(os.Stderr, se.Error())
		}
		return nil, nil, false
	}

	return compiler.New(rt, string(source), filename, "<module>"), stmts, true
}

// runFile lexes, parses, compiles and runs filename as a top-level script,
// printing the value a top-level `ret` returns (nothing when the script ends
// without one, or returns none) — the core has no print builtin, so this is
// the only way `sentra run` reports anything back to the caller.
func runFile(filename string) {
	rt, loader := newInterp()
	c, stmts, ok := compileFile(rt, filename)
	if !ok {
		os.Exit(1)
	}

	thread := rt.NewThread()
	thread.SetImporter(loader)

	chunk := c.Compile(stmts)
	result, exc := thread.RunChunk(chunk)
	if exc != nil {
		se := errors.FromException(rt, exc, filename)
		printTraceback(se.Error())
		os.Exit(1)
	}
	if result != nil && object.TypeOf(result) != rt.LookupType("none") {
		fmt.Println(rt.FormatRepr(result))
	}
}

// disassembleFile compiles filename without running it and dumps every
// chunk's bytecode, backing the `debug`/`d` alias.
func disassembleFile(filename string) {
	rt, _ := newInterp()
	c, stmts, ok := compileFile(rt, filename)
	if !ok {
		os.Exit(1)
	}
	debugger.Dump(os.Stdout, c.Compile(stmts))
}

// checkFile only lexes and parses, reporting syntax errors without
// compiling or running — the `check` alias.
func checkFile(filename string) {
	rt, _ := newInterp()
	_, _, ok := compileFile(rt, filename)
	if !ok {
		os.Exit(1)
	}
	fmt.Printf("%s: syntax is valid\n", filename)
}

// printTraceback writes a rendered SentraError to stderr, in red when
// stdout is a real terminal.
func printTraceback(rendered string) {
	if colorEnabled {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m", rendered)
	} else {
		fmt.Fprint(os.Stderr, rendered)
	}
}

func showUsage() {
	fmt.Println("Sentra — a dynamic, object-oriented scripting language")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sentra run <file>      Run a script          (alias: r)")
	fmt.Println("  sentra repl            Start the interactive REPL (alias: i)")
	fmt.Println("  sentra debug <file>    Disassemble a script's bytecode (alias: d)")
	fmt.Println("  sentra check <file>    Check syntax without running (alias: c)")
	fmt.Println("  sentra init [dir]      Scaffold a new project")
	fmt.Println("  sentra build           (no-op: scripts run directly from source) (alias: b)")
	fmt.Println("  sentra watch [dir]     Watch for file changes (alias: w)")
	fmt.Println("  sentra clean           Remove build artifacts")
	fmt.Println("  sentra version         Print the version")
	fmt.Println("  sentra help            Show this message")
}
