package compiler

import (
	"testing"

	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/lexer"
	"sentra/internal/object"
	"sentra/internal/parser"
)

// stubCtx is a minimal object.Ctx good enough to drive literal compilation
// in isolation, without the full runtime bootstrap.
type stubCtx struct {
	types map[string]*object.Type
}

func newStubCtx() *stubCtx {
	meta := &object.Type{Name: "type"}
	s := &stubCtx{types: make(map[string]*object.Type)}
	for _, name := range []string{"int", "float", "complex", "bool", "none", "str", "ellipsis"} {
		s.types[name] = object.NewType(meta, name, nil, object.Slots{}, false)
	}
	return s
}

func (s *stubCtx) Intern(str string) *object.Object       { return container.NewString(str) }
func (s *stubCtx) Raise(kind, format string, args ...any) *object.Object { return nil }
func (s *stubCtx) LookupType(name string) *object.Type     { return s.types[name] }
func (s *stubCtx) FormatRepr(v *object.Object) string       { return "" }
func (s *stubCtx) FormatStr(v *object.Object) string        { return "" }
func (s *stubCtx) HashBits(v *object.Object) uint64         { return 0 }
func (s *stubCtx) Truthy(v *object.Object) bool             { return v != nil }

func parseSource(t *testing.T, src string) []parser.Stmt {
	t.Helper()
	scanner := lexer.NewScanner(src)
	tokens := scanner.ScanTokens()
	if len(scanner.Errors) > 0 {
		t.Fatalf("lex errors: %v", scanner.Errors)
	}
	p := parser.New(tokens, src, "test.sn")
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors: %v", p.Errors)
	}
	return stmts
}

func TestCompileArithmeticExpr(t *testing.T) {
	stmts := parseSource(t, "1 + 2 * 3")
	c := New(newStubCtx(), "1 + 2 * 3", "test.sn", "<module>")
	chunk := c.Compile(stmts)
	if len(chunk.Code) == 0 {
		t.Fatal("expected non-empty bytecode")
	}
	// Expect to see a mul before an add (precedence), ignoring operands.
	var sawMul, sawAddAfterMul bool
	ip := 0
	for ip < len(chunk.Code) {
		op := bytecode.OpCode(chunk.Code[ip])
		if op == bytecode.OpMul {
			sawMul = true
		}
		if op == bytecode.OpAdd && sawMul {
			sawAddAfterMul = true
		}
		ip += op.Width()
	}
	if !sawAddAfterMul {
		t.Fatal("expected mul to be compiled before add")
	}
}

func TestCompileChainedComparison(t *testing.T) {
	stmts := parseSource(t, "1 < 2 < 3")
	c := New(newStubCtx(), "1 < 2 < 3", "test.sn", "<module>")
	chunk := c.Compile(stmts)
	count := 0
	ip := 0
	for ip < len(chunk.Code) {
		op := bytecode.OpCode(chunk.Code[ip])
		if op == bytecode.OpLt {
			count++
		}
		ip += op.Width()
	}
	if count != 2 {
		t.Fatalf("expected 2 'lt' comparisons in chained compare, got %d", count)
	}
}

func TestCompileIfElse(t *testing.T) {
	stmts := parseSource(t, "if true { 1 } else { 2 }")
	c := New(newStubCtx(), "", "test.sn", "<module>")
	chunk := c.Compile(stmts)
	hasJmpf, hasJmp := false, false
	ip := 0
	for ip < len(chunk.Code) {
		op := bytecode.OpCode(chunk.Code[ip])
		switch op {
		case bytecode.OpJmpf:
			hasJmpf = true
		case bytecode.OpJmp:
			hasJmp = true
		}
		ip += op.Width()
	}
	if !hasJmpf || !hasJmp {
		t.Fatal("expected both a conditional and unconditional jump in if/else")
	}
}

func TestCompileForLoop(t *testing.T) {
	stmts := parseSource(t, "for x in [1,2,3] { x }")
	c := New(newStubCtx(), "", "test.sn", "<module>")
	chunk := c.Compile(stmts)
	hasForStart, hasForNextt := false, false
	ip := 0
	for ip < len(chunk.Code) {
		op := bytecode.OpCode(chunk.Code[ip])
		switch op {
		case bytecode.OpForStart:
			hasForStart = true
		case bytecode.OpForNextt:
			hasForNextt = true
		}
		ip += op.Width()
	}
	if !hasForStart || !hasForNextt {
		t.Fatal("expected for_start and for_nextt in compiled for-loop")
	}
}

func TestCompileFunctionLiteral(t *testing.T) {
	stmts := parseSource(t, "f = (a, b) -> a * b + 1")
	c := New(newStubCtx(), "", "test.sn", "<module>")
	chunk := c.Compile(stmts)
	foundFunc := false
	for _, k := range chunk.Constants {
		if k.Type == bytecode.CodeType {
			foundFunc = true
		}
	}
	if !foundFunc {
		t.Fatal("expected a nested code object constant for the lambda body")
	}
}
