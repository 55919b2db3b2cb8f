// Package fmtutil is the "fmtutil" built-in module: human-readable
// formatting of byte counts, big numbers, durations and times, backed by
// dustin/go-humanize. Grounded on the named-export-table shape the teacher
// builds its own built-in modules with (each export a single-purpose
// function keyed by name), adapted here to the object-model callable kind
// instead of the teacher's Go-native NativeFunction/Value pair.
package fmtutil

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"sentra/internal/container"
	"sentra/internal/module"
	"sentra/internal/numeric"
	"sentra/internal/object"
	"sentra/internal/vm"
)

func New(ctx object.Ctx) (*object.Object, *object.Object) {
	mod := module.NewModule()
	mod.Attrs = map[string]*object.Object{
		"bytes":     vm.NewNative("fmtutil.bytes", fmtBytes),
		"comma":     vm.NewNative("fmtutil.comma", fmtComma),
		"ordinal":   vm.NewNative("fmtutil.ordinal", fmtOrdinal),
		"time_ago":  vm.NewNative("fmtutil.time_ago", fmtTimeAgo),
		"duration":  vm.NewNative("fmtutil.duration", fmtDuration),
		"plural":    vm.NewNative("fmtutil.plural", fmtPlural),
	}
	return mod, nil
}

func argInt(ctx object.Ctx, fn string, args []*object.Object, n int) (int64, *object.Object) {
	if len(args) != n {
		return 0, ctx.Raise("ArgError", "%s() takes exactly %d argument(s) (%d given)", fn, n, len(args))
	}
	bi, ok := numeric.AsInt(args[0])
	if !ok {
		if f, ok := numeric.AsFloat(args[0]); ok {
			return int64(f), nil
		}
		return 0, ctx.Raise("TypeError", "%s() argument must be numeric", fn)
	}
	return bi.Int64(), nil
}

// fmtBytes renders a byte count like "2.3 MB" (humanize.Bytes wants uint64).
func fmtBytes(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	n, exc := argInt(ctx, "fmtutil.bytes", args, 1)
	if exc != nil {
		return nil, exc
	}
	if n < 0 {
		n = 0
	}
	return container.NewString(humanize.Bytes(uint64(n))), nil
}

// fmtComma renders an integer with thousands separators: "1,234,567".
func fmtComma(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	n, exc := argInt(ctx, "fmtutil.comma", args, 1)
	if exc != nil {
		return nil, exc
	}
	return container.NewString(humanize.Comma(n)), nil
}

// fmtOrdinal renders "1st", "2nd", "3rd", "11th", ...
func fmtOrdinal(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	n, exc := argInt(ctx, "fmtutil.ordinal", args, 1)
	if exc != nil {
		return nil, exc
	}
	return container.NewString(humanize.Ordinal(int(n))), nil
}

// fmtTimeAgo renders the difference between a unix-seconds timestamp and
// now as "3 hours ago" / "2 days from now".
func fmtTimeAgo(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	sec, exc := argInt(ctx, "fmtutil.time_ago", args, 1)
	if exc != nil {
		return nil, exc
	}
	return container.NewString(humanize.Time(time.Unix(sec, 0))), nil
}

// fmtDuration renders a count of seconds as an approximate duration:
// "2 days", "3 minutes".
func fmtDuration(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	sec, exc := argInt(ctx, "fmtutil.duration", args, 1)
	if exc != nil {
		return nil, exc
	}
	return container.NewString(humanize.RelTime(time.Now(), time.Now().Add(time.Duration(sec)*time.Second), "", "")), nil
}

// fmtPlural renders "word" or "words" depending on the count.
func fmtPlural(ctx object.Ctx, args []*object.Object) (*object.Object, *object.Object) {
	if len(args) != 2 {
		return nil, ctx.Raise("ArgError", "fmtutil.plural() takes exactly 2 arguments (%d given)", len(args))
	}
	bi, ok := numeric.AsInt(args[0])
	if !ok {
		return nil, ctx.Raise("TypeError", "fmtutil.plural() first argument must be an int")
	}
	word, ok := container.AsString(args[1])
	if !ok {
		return nil, ctx.Raise("TypeError", "fmtutil.plural() second argument must be a str")
	}
	return container.NewString(english.PluralWord(int(bi.Int64()), word.Bytes, "")), nil
}
