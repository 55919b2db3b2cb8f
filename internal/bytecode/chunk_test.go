package bytecode

import (
	"testing"

	"sentra/internal/object"
)

func TestEmitArglessWidth(t *testing.T) {
	c := NewChunk("test")
	off := c.Emit(OpAdd, DebugInfo{Line: 1})
	if off != 0 {
		t.Fatalf("expected offset 0, got %d", off)
	}
	if len(c.Code) != 1 {
		t.Fatalf("expected 1-byte instruction, got %d bytes", len(c.Code))
	}
}

func TestEmitArgWidth(t *testing.T) {
	c := NewChunk("test")
	k := c.AddConstant(object.New(nil, "x"))
	off := c.EmitArg(OpLoad, k, DebugInfo{Line: 2})
	if len(c.Code) != 5 {
		t.Fatalf("expected 5-byte instruction, got %d bytes", len(c.Code))
	}
	if got := c.ReadArg(off); got != k {
		t.Fatalf("ReadArg = %d, want %d", got, k)
	}
}

func TestPatchJumpHere(t *testing.T) {
	c := NewChunk("test")
	jmp := c.EmitArg(OpJmp, 0, DebugInfo{})
	c.Emit(OpNoop, DebugInfo{})
	c.Emit(OpNoop, DebugInfo{})
	c.PatchJumpHere(jmp)
	if got := c.ReadArg(jmp); got != 2 {
		t.Fatalf("patched jump offset = %d, want 2", got)
	}
}

func TestDisassembleRuns(t *testing.T) {
	c := NewChunk("main")
	k := c.AddConstant(object.New(nil, "answer"))
	c.EmitArg(OpPush, k, DebugInfo{Line: 1})
	c.Emit(OpRet, DebugInfo{Line: 1})
	out := Disassemble(c)
	if out == "" {
		t.Fatal("expected non-empty disassembly")
	}
}
