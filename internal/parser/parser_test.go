package parser

import (
	"sentra/internal/lexer"
	"testing"
)

// parseString lexes and parses input, returning the statements and any
// recorded parse errors (the parser resynchronizes rather than panicking,
// per its own doc comment, so there is nothing to recover from here).
func parseString(input string) ([]Stmt, []*SyntaxError) {
	tokens := lexer.NewScanner(input).ScanTokens()
	p := New(tokens, input, "test.sn")
	stmts := p.Parse()
	return stmts, p.Errors
}

func assertParseSuccess(t *testing.T, input string, description string) []Stmt {
	t.Helper()
	stmts, errs := parseString(input)
	if len(errs) > 0 {
		t.Errorf("%s: parsing %q failed: %v", description, input, errs)
		return nil
	}
	return stmts
}

func assertParseError(t *testing.T, input string, description string) {
	t.Helper()
	_, errs := parseString(input)
	if len(errs) == 0 {
		t.Errorf("%s: expected %q to fail parsing, it succeeded", description, input)
	}
}

func TestAssignmentAndExprStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"simple assignment", "x = 5"},
		{"reassignment", "x = 5\nx = 10"},
		{"chained arithmetic", "x = 1 + 2 * 3"},
		{"bare expression statement", "f(1, 2)"},
		{"unicode identifier", "变量 = 5"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertParseSuccess(t, test.input, test.name)
		})
	}
}

func TestBlockShorthandAcceptsColonAndComma(t *testing.T) {
	// spec.md's literal examples use a colon (`for i in X: BODY`,
	// `catch Error as e: BODY`); the teacher's own grammar used a comma.
	// Both must parse to a single-statement block.
	tests := []string{
		"for i in [1,2,3]: x = i",
		"for i in [1,2,3], x = i",
		"if true: x = 1",
		"if true, x = 1",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			stmts := assertParseSuccess(t, src, src)
			if len(stmts) != 1 {
				t.Fatalf("expected 1 top-level statement, got %d", len(stmts))
			}
		})
	}
}

func TestForInStmt(t *testing.T) {
	stmts := assertParseSuccess(t, "for i in [1,2,3]: x = i", "for-in with colon block")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	fs, ok := stmts[0].(*ForInStmt)
	if !ok {
		t.Fatalf("expected *ForInStmt, got %T", stmts[0])
	}
	if fs.Var != "i" {
		t.Fatalf("loop variable = %q, want %q", fs.Var, "i")
	}
	if len(fs.Body) != 1 {
		t.Fatalf("body len = %d, want 1", len(fs.Body))
	}
}

func TestTryCatchWithPipedTypesAndBinding(t *testing.T) {
	stmts := assertParseSuccess(t, `
try {
  throw Error("x")
} catch KeyError | ValError as e {
  ret e
}
`, "try/catch with alternation")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	ts, ok := stmts[0].(*TryStmt)
	if !ok {
		t.Fatalf("expected *TryStmt, got %T", stmts[0])
	}
	if len(ts.Catches) != 1 {
		t.Fatalf("expected 1 catch clause, got %d", len(ts.Catches))
	}
	cl := ts.Catches[0]
	if len(cl.Types) != 2 {
		t.Fatalf("expected 2 alternated catch types, got %d", len(cl.Types))
	}
	if cl.Name != "e" {
		t.Fatalf("catch binding = %q, want %q", cl.Name, "e")
	}
}

func TestLambdaLiteral(t *testing.T) {
	stmts := assertParseSuccess(t, "f = (a,b) -> a*b + 1", "lambda assignment")
	assign, ok := stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("expected *ExprStmt, got %T", stmts[0])
	}
	a, ok := assign.X.(*Assign)
	if !ok {
		t.Fatalf("expected *Assign, got %T", assign.X)
	}
	fn, ok := a.Value.(*FuncLit)
	if !ok {
		t.Fatalf("expected lambda value to be *FuncLit, got %T", a.Value)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
}

func TestListComprehensionDesugarsToListLitWithFor(t *testing.T) {
	stmts := assertParseSuccess(t, "ret [i*i for i in [1,2,3]]", "list comprehension")
	rs, ok := stmts[0].(*RetStmt)
	if !ok {
		t.Fatalf("expected *RetStmt, got %T", stmts[0])
	}
	if _, ok := rs.Value.(*ListLit); !ok {
		t.Fatalf("expected comprehension to parse as *ListLit, got %T", rs.Value)
	}
}

func TestMalformedInputReportsErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated block", "if true { x = 1"},
		{"missing loop variable", "for in [1,2,3]: x = 1"},
		{"dangling operator", "x = 1 +"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assertParseError(t, test.input, test.name)
		})
	}
}
