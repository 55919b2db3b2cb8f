package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders a Chunk as human-readable text, one line per
// instruction, in the style consumed by the debugger and the CLI's `debug`
// subcommand.
func Disassemble(c *Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", c.Name)
	ip := 0
	for ip < len(c.Code) {
		ip = disassembleInstr(&b, c, ip)
	}
	return b.String()
}

func disassembleInstr(b *strings.Builder, c *Chunk, ip int) int {
	op := OpCode(c.Code[ip])
	d := c.DebugInfoAt(ip)
	fmt.Fprintf(b, "%04d  L%-4d %-14s", ip, d.Line, op.String())
	if op.Width() == 1 {
		fmt.Fprintln(b)
		return ip + 1
	}
	arg := c.ReadArg(ip)
	switch op {
	case OpJmp, OpJmpt, OpJmpf, OpForNextt, OpForNextf, OpTryStart, OpTryCatch, OpTryCatchAll, OpTryEnd:
		fmt.Fprintf(b, " -> %04d\n", ip+5+int(arg))
	case OpPush, OpLoad, OpStore, OpGetAttr, OpSetAttr, OpFunc, OpTypeOp, OpImport, OpAssert:
		if int(arg) >= 0 && int(arg) < len(c.Constants) {
			fmt.Fprintf(b, " %d  ; %v\n", arg, c.Constants[arg].Data)
		} else {
			fmt.Fprintf(b, " %d\n", arg)
		}
	default:
		fmt.Fprintf(b, " %d\n", arg)
	}
	return ip + 5
}
