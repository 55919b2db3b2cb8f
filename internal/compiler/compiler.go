// Package compiler lowers the parser's AST to the closed bytecode format of
// §4.5: a single linear pass per function body, emitting into a
// *bytecode.Chunk and back-patching jump targets once a construct's extent
// is known.
package compiler

import (
	"sentra/internal/bytecode"
	"sentra/internal/container"
	"sentra/internal/object"
	"sentra/internal/parser"
)

// Compiler emits one Chunk per function (or per top-level script, which is
// itself compiled as the implicit `<module>` function). Variable references
// are compiled as load/store by interned name, not by slot index: the VM
// resolves a name by walking the live frame chain, so nested functions close
// over enclosing locals for free without an explicit upvalue step.
type Compiler struct {
	ctx    object.Ctx
	chunk  *bytecode.Chunk
	source string
	file   string

	constCache map[string]int32 // interns repeated name/string constants
	loops      []loopScope
	parent     *Compiler
	tmpCounter int // allocates unique hidden-local names (chained comparisons)
}

type loopScope struct {
	breaks     []int // offsets of jmp instructions to patch to the loop's end
	contTarget int   // pc a `cont` statement jumps to (the next-iteration test)
}

// New builds a Compiler for a fresh top-level chunk. ctx must already have
// its type registry bootstrapped, since literal compilation allocates Int/
// Float/String objects immediately.
func New(ctx object.Ctx, source, file, chunkName string) *Compiler {
	return &Compiler{
		ctx:        ctx,
		chunk:      bytecode.NewChunk(chunkName),
		source:     source,
		file:       file,
		constCache: make(map[string]int32),
	}
}

// Compile lowers a whole program (or function body) and appends an implicit
// `ret` in case control falls off the end.
func (c *Compiler) Compile(stmts []parser.Stmt) *bytecode.Chunk {
	c.compileBlock(stmts)
	noneIdx := c.chunk.AddConstant(c.noneValue())
	c.chunk.EmitArg(bytecode.OpPush, noneIdx, c.dbg(0))
	c.chunk.Emit(bytecode.OpRet, c.dbg(0))
	return c.chunk
}

// noneValue builds the singleton `none` value; compiled fresh per
// occurrence since the object model has no pre-allocated singletons of its
// own, only per-type constructors.
func (c *Compiler) noneValue() *object.Object {
	return object.New(c.ctx.LookupType("none"), nil)
}

func (c *Compiler) dbg(offset int) bytecode.DebugInfo {
	line, col := lineCol(c.source, offset)
	return bytecode.DebugInfo{Line: line, Column: col, File: c.file}
}

func lineCol(source string, offset int) (int, int) {
	if offset > len(source) {
		offset = len(source)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// nameConst interns a name/string constant, reusing the pool slot for a
// repeated identifier so `load`/`store`/`getattr` of the same name across a
// function body don't bloat the constant pool.
func (c *Compiler) nameConst(name string) int32 {
	if idx, ok := c.constCache[name]; ok {
		return idx
	}
	idx := c.chunk.AddConstant(container.NewString(name))
	c.constCache[name] = idx
	return idx
}

func (c *Compiler) sub(chunkName string) *Compiler {
	return &Compiler{
		ctx:        c.ctx,
		chunk:      bytecode.NewChunk(chunkName),
		source:     c.source,
		file:       c.file,
		constCache: make(map[string]int32),
		parent:     c,
	}
}

func (c *Compiler) pushLoop() *loopScope {
	c.loops = append(c.loops, loopScope{})
	return &c.loops[len(c.loops)-1]
}

func (c *Compiler) popLoop() loopScope {
	n := len(c.loops) - 1
	l := c.loops[n]
	c.loops = c.loops[:n]
	return l
}

func (c *Compiler) currentLoop() *loopScope {
	if len(c.loops) == 0 {
		return nil
	}
	return &c.loops[len(c.loops)-1]
}
