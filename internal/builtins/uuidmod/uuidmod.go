// Package uuidmod is the "uuid" built-in module: identifier generation and
// parsing backed by google/uuid, exercising the domain stack's identifier
// concern the way internal/network's connection/session bookkeeping reaches
// for ad hoc fmt.Sprintf("%d", time.Now().UnixNano()) ids — this gives
// scripts a real RFC 4122 generator instead.
package uuidmod

import (
	"github.com/google/uuid"

	"sentra/internal/container"
	"sentra/internal/module"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/vm"
)

// New builds the uuid module's export object: v4/v1 generation, parsing and
// validation, and the nil UUID constant.
func New(ctx object.Ctx) (*object.Object, *object.Object) {
	mod := module.NewModule()
	mod.Attrs = map[string]*object.Object{
		"v4":    vm.NewNative("uuid.v4", v4),
		"v1":    vm.NewNative("uuid.v1", v1),
		"parse": vm.NewNative("uuid.parse", parse),
		"valid": vm.NewNative("uuid.valid", valid),
		"nil":   container.NewString(uuid.Nil.String()),
	}
	return mod, nil
}

func v4(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 0 {
		return nil, ctx.Raise("ArgError", "uuid.v4() takes no arguments (%d given)", len(args))
	}
	return container.NewString(uuid.New().String()), nil
}

func v1(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 0 {
		return nil, ctx.Raise("ArgError", "uuid.v1() takes no arguments (%d given)", len(args))
	}
	id, err := uuid.NewUUID()
	if err != nil {
		return nil, ctx.Raise("OSError", "uuid.v1(): %s", err.Error())
	}
	return container.NewString(id.String()), nil
}

func parse(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "uuid.parse() takes exactly one argument (%d given)", len(args))
	}
	s, ok := container.AsString(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "uuid.parse() argument must be a str")
	}
	id, err := uuid.Parse(s.Bytes)
	if err != nil {
		return nil, ctx.Raise("ValError", "invalid uuid '%s': %s", s.Bytes, err.Error())
	}
	return container.NewString(id.String()), nil
}

func valid(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 1 {
		return nil, ctx.Raise("ArgError", "uuid.valid() takes exactly one argument (%d given)", len(args))
	}
	s, ok := container.AsString(args[0])
	if !ok {
		return numeric.NewBool(ctx, false), nil
	}
	_, err := uuid.Parse(s.Bytes)
	return numeric.NewBool(ctx, err == nil), nil
}
