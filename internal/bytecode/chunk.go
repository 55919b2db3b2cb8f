package bytecode

import (
	"encoding/binary"

	"sentra/internal/object"
)

// DebugInfo stores the source location of one instruction.
type DebugInfo struct {
	Line   int
	Column int
	File   string
}

// Chunk is the Code Object of §3: a packed instruction stream, an ordered
// constant pool of value references, and per-instruction debug info. The
// constant pool holds whatever an instruction's <k> operand needs to name: a
// literal value, an interned name string, a function-metadata tuple, a
// type-metadata pair, or a nested Chunk wrapped as a code object (for
// `func <k>`, which expects the compiled body to have already been pushed by
// a prior `push`).
type Chunk struct {
	Code      []byte
	Constants []*object.Object
	Debug     []DebugInfo // indexed by instruction start offset; sparse, zero-value elsewhere

	Name string // function or module name, for disassembly and frame traces
}

func NewChunk(name string) *Chunk {
	return &Chunk{Name: name}
}

// debugAt returns the DebugInfo recorded at offset off, the code.Code index
// of the instruction's first byte.
func (c *Chunk) debugAt(off int) DebugInfo {
	for len(c.Debug) <= off {
		c.Debug = append(c.Debug, DebugInfo{})
	}
	return c.Debug[off]
}

func (c *Chunk) setDebugAt(off int, d DebugInfo) {
	for len(c.Debug) <= off {
		c.Debug = append(c.Debug, DebugInfo{})
	}
	c.Debug[off] = d
}

// Emit appends a one-byte, argument-less instruction and returns its offset.
func (c *Chunk) Emit(op OpCode, d DebugInfo) int {
	off := len(c.Code)
	c.Code = append(c.Code, byte(op))
	c.setDebugAt(off, d)
	return off
}

// EmitArg appends a five-byte instruction (opcode + signed int32 argument)
// and returns its offset.
func (c *Chunk) EmitArg(op OpCode, arg int32, d DebugInfo) int {
	off := len(c.Code)
	c.Code = append(c.Code, byte(op))
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(arg))
	c.Code = append(c.Code, buf[:]...)
	c.setDebugAt(off, d)
	return off
}

// PatchArg overwrites the int32 argument of the instruction starting at off
// (used for forward jumps emitted before their target is known).
func (c *Chunk) PatchArg(off int, arg int32) {
	binary.BigEndian.PutUint32(c.Code[off+1:off+5], uint32(arg))
}

// PatchJumpHere patches the jump at off so it targets the current end of the
// code stream, encoded as a signed offset relative to the end of the jump
// instruction itself, per §4.5.
func (c *Chunk) PatchJumpHere(off int) {
	rel := int32(len(c.Code) - (off + 5))
	c.PatchArg(off, rel)
}

// ReadArg decodes the int32 argument of the instruction at ip (ip must point
// at the opcode byte of a five-byte instruction).
func (c *Chunk) ReadArg(ip int) int32 {
	return int32(binary.BigEndian.Uint32(c.Code[ip+1 : ip+5]))
}

func (c *Chunk) AddConstant(val *object.Object) int32 {
	c.Constants = append(c.Constants, val)
	return int32(len(c.Constants) - 1)
}

func (c *Chunk) DebugInfoAt(ip int) DebugInfo { return c.debugAt(ip) }

// NewCodeObject wraps a compiled Chunk as a heap object of type CodeType so
// it can travel through the constant pool and the value stack like any other
// value (the `func <k>` opcode expects exactly this: a code object already
// sitting on the stack beneath the function-metadata push).
func NewCodeObject(c *Chunk) *object.Object {
	return object.New(CodeType, c)
}

// CodeType is the metaclass-less internal type for compiled code objects; it
// carries no slots because code objects are never exposed to user dispatch,
// only consumed by `func` and the VM's call machinery.
var CodeType = &object.Type{Name: "code"}

// AsChunk recovers the Chunk a code object wraps.
func AsChunk(o *object.Object) (*Chunk, bool) {
	if o == nil {
		return nil, false
	}
	c, ok := o.Data.(*Chunk)
	return c, ok
}
