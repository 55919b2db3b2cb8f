package vm_test

import (
	"strings"
	"testing"

	"sentra/internal/compiler"
	"sentra/internal/container"
	"sentra/internal/lexer"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/parser"
	"sentra/internal/runtime"
	"sentra/internal/vm"
)

// run lexes, parses, compiles and runs src against a fresh Interp, failing
// the test on any parse error or uncaught exception.
func run(t *testing.T, src string) (*object.Object, *runtime.Interp) {
	t.Helper()
	rt := runtime.New()

	tokens := lexer.NewScanner(src).ScanTokens()
	p := parser.New(tokens, src, "test.sn")
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors)
	}

	chunk := compiler.New(rt, src, "test.sn", "<module>").Compile(stmts)
	thread := rt.NewThread()
	result, exc := thread.RunChunk(chunk)
	if exc != nil {
		t.Fatalf("uncaught exception running %q: %s", src, rt.FormatStr(exc))
	}
	return result, rt
}

// runRaises is like run but expects an uncaught exception and returns it.
func runRaises(t *testing.T, src string) *object.Object {
	t.Helper()
	rt := runtime.New()

	tokens := lexer.NewScanner(src).ScanTokens()
	p := parser.New(tokens, src, "test.sn")
	stmts := p.Parse()
	if len(p.Errors) > 0 {
		t.Fatalf("parse errors for %q: %v", src, p.Errors)
	}

	chunk := compiler.New(rt, src, "test.sn", "<module>").Compile(stmts)
	thread := rt.NewThread()
	result, exc := thread.RunChunk(chunk)
	if exc == nil {
		t.Fatalf("expected %q to raise, got result %v", src, result)
	}
	return exc
}

// --- spec.md §8's six end-to-end scenarios ---------------------------------

func TestScenarioPowerOfTwo(t *testing.T) {
	result, _ := run(t, "ret 2 ** 100")
	n, ok := numeric.AsInt(result)
	if !ok {
		t.Fatalf("expected int result, got %#v", result)
	}
	want := "1267650600228229401496703205376"
	if n.String() != want {
		t.Fatalf("2**100 = %s, want %s", n.String(), want)
	}
}

func TestScenarioForLoopAccumulation(t *testing.T) {
	result, _ := run(t, "x = 0; for i in [1,2,3,4]: x = x + i; ret x")
	n, ok := numeric.AsInt(result)
	if !ok {
		t.Fatalf("expected int result, got %#v", result)
	}
	if n.Int64() != 10 {
		t.Fatalf("sum = %s, want 10", n.String())
	}
}

func TestScenarioExceptionCaughtAndStringified(t *testing.T) {
	result, _ := run(t, `try { throw Error("x") } catch Error as e: ret str(e)`)
	s, ok := container.AsString(result)
	if !ok {
		t.Fatalf("expected str result, got %#v", result)
	}
	if !strings.Contains(s.Bytes, "x") {
		t.Fatalf("str(e) = %q, want it to contain %q", s.Bytes, "x")
	}
}

func TestScenarioLambdaCall(t *testing.T) {
	result, _ := run(t, "f = (a,b) -> a*b + 1; ret f(3,4)")
	n, ok := numeric.AsInt(result)
	if !ok {
		t.Fatalf("expected int result, got %#v", result)
	}
	if n.Int64() != 13 {
		t.Fatalf("f(3,4) = %s, want 13", n.String())
	}
}

func TestScenarioIntDivisionProducesFloat(t *testing.T) {
	result, rt := run(t, "ret 7 / 2 == 3.5")
	b, ok := numeric.AsInt(result) // bool is a subtype of int; AsInt reads its underlying value
	if !ok {
		t.Fatalf("expected bool result, got %#v", result)
	}
	if object.TypeOf(result) != rt.LookupType("bool") {
		t.Fatalf("expected a bool, got %s", rt.FormatRepr(result))
	}
	if b.Int64() != 1 {
		t.Fatalf("7/2 == 3.5 was false")
	}
}

func TestScenarioListComprehensionViaMap(t *testing.T) {
	result, _ := run(t, "ret [i*i for i in [1,2,3]]")
	list, ok := container.AsList(result)
	if !ok {
		t.Fatalf("expected list result, got %#v", result)
	}
	if len(list.Items) != 3 {
		t.Fatalf("len(result) = %d, want 3", len(list.Items))
	}
	want := []int64{1, 4, 9}
	for i, item := range list.Items {
		n, ok := numeric.AsInt(item)
		if !ok || n.Int64() != want[i] {
			t.Fatalf("result[%d] = %v, want %d", i, item, want[i])
		}
	}
}

// --- quantified properties --------------------------------------------------

func TestIteratorExhaustionContinuesPastLoop(t *testing.T) {
	// A for-loop that runs to completion and then returns a constant: the
	// exhaustion branch of execForNext has to leave the loop without
	// raising and land on the code after it, so the following OpPush/OpRet
	// delivers 99. OpRet pops only the top value and truncates to the
	// frame's base, so a value left beneath it would not show here.
	result, _ := run(t, "for i in [1,2,3]: i\nret 99")
	n, ok := numeric.AsInt(result)
	if !ok || n.Int64() != 99 {
		t.Fatalf("got %v, want 99 (for-loop exhaustion did not continue past the loop)", result)
	}
}

func TestExceptionContainmentCaught(t *testing.T) {
	// After a matching catch, no exception should still be pending; the
	// chunk continues normally and its own ret value comes through.
	result, _ := run(t, `
try {
  throw Error("boom")
} catch Error as e {
  x = 1
}
ret x
`)
	n, ok := numeric.AsInt(result)
	if !ok || n.Int64() != 1 {
		t.Fatalf("got %v, want 1 (exception should have been contained)", result)
	}
}

func TestExceptionContainmentUncaught(t *testing.T) {
	rt := runtime.New()
	tokens := lexer.NewScanner(`throw Error("boom")`).ScanTokens()
	p := parser.New(tokens, `throw Error("boom")`, "test.sn")
	stmts := p.Parse()
	chunk := compiler.New(rt, `throw Error("boom")`, "test.sn", "<module>").Compile(stmts)
	thread := rt.NewThread()
	_, exc := thread.RunChunk(chunk)
	if exc == nil {
		t.Fatal("expected an uncaught exception")
	}
	if !object.IsInstance(exc, rt.ExceptionRoot()) {
		t.Fatalf("expected exc to be an Exception instance, got %s", rt.FormatRepr(exc))
	}
	if !strings.Contains(rt.FormatStr(exc), "boom") {
		t.Fatalf("exception message = %q, want it to contain %q", rt.FormatStr(exc), "boom")
	}
}

func TestArithmeticTotalityAddSub(t *testing.T) {
	for _, a := range []int64{0, 1, -7, 12345} {
		for _, b := range []int64{0, 1, -3, 999} {
			src := "ret (" + itoa(a) + " + " + itoa(b) + ") - " + itoa(b)
			result, _ := run(t, src)
			n, ok := numeric.AsInt(result)
			if !ok || n.Int64() != a {
				t.Fatalf("(%d+%d)-%d = %v, want %d", a, b, b, result, a)
			}
		}
	}
}

func itoa(n int64) string {
	if n < 0 {
		return "-" + itoa(-n)
	}
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func TestMapBuiltinArity(t *testing.T) {
	exc := runRaises(t, "map((x) -> x, [1,2], 3)")
	if object.TypeOf(exc) == nil {
		t.Fatal("expected an exception object")
	}
}

// TestMapBuiltinIsRegisteredGlobal checks that bootstrap binds map, str and
// len as globals; the closing reference to vm.MapBuiltin is a compile-time
// check that the exported intrinsic exists.
func TestMapBuiltinIsRegisteredGlobal(t *testing.T) {
	rt := runtime.New()
	if _, ok := rt.Globals().Get("map"); !ok {
		t.Fatal("expected \"map\" to be bound as a global by bootstrap")
	}
	if _, ok := rt.Globals().Get("str"); !ok {
		t.Fatal("expected \"str\" to be bound as a global by bootstrap")
	}
	if _, ok := rt.Globals().Get("len"); !ok {
		t.Fatal("expected \"len\" to be bound as a global by bootstrap")
	}
	_ = vm.MapBuiltin
}
