package rx

import (
	"fmt"

	"sentra/internal/container"
	"sentra/internal/object"
)

// RegexType is wired in by internal/runtime's bootstrap, the same way
// container.BytesType and the rest of the container kinds are: rx has no
// way to reach the metatype or object.Ctx on its own.
var RegexType *object.Type

// NewRegex wraps an already-compiled pattern as a heap Object. Compile
// errors are the caller's (internal/compiler's RegexLiteral case) to
// surface — by the time a Regex value exists, it is always valid.
func NewRegex(re *Regex) *object.Object {
	return object.New(RegexType, re)
}

func AsRegex(o *object.Object) (*Regex, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*Regex)
	return v, ok
}

// Str and Repr are RegexType's Str/Repr slots, grounded on regex.c's
// `T_str_`, which renders a regex the same way as its repr: the type name
// plus the quoted source pattern. container has no reason to ever import rx
// back, so (unlike the numeric/exception MakeString indirection, which
// exists only to dodge object.Ctx's fixed surface) a direct import is the
// straightforward choice here.
func Str(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	re, _ := AsRegex(self)
	return container.NewString(fmt.Sprintf("regex(%q)", re.Pattern)), nil
}

func Repr(ctx object.Ctx, self *object.Object) (*object.Object, *object.Object) {
	return Str(ctx, self)
}
