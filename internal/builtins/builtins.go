// Package builtins registers every built-in module factory onto a Loader in
// one place, the way the teacher's EnhancedVM.registerBuiltins installed
// every native function table during VM construction.
package builtins

import (
	"sentra/internal/builtins/dbmod"
	"sentra/internal/builtins/fmtutil"
	"sentra/internal/builtins/netmod"
	"sentra/internal/builtins/uuidmod"
	"sentra/internal/module"
)

// RegisterAll installs the domain-stack built-in modules (§6.2) onto l:
// "uuid", "net", "db", "fmtutil". A script reaches them with `import uuid`,
// `import net`, `import db`, `import fmtutil`.
func RegisterAll(l *module.Loader) {
	l.Register("uuid", uuidmod.New)
	l.Register("net", netmod.New)
	l.Register("db", dbmod.New)
	l.Register("fmtutil", fmtutil.New)
}
