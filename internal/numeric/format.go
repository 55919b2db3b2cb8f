package numeric

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/big"
	"strconv"

	"sentra/internal/object"
)

// Str/Repr share the same textual rendering for numbers; the string
// producer (container.NewString) lives in internal/container, so these
// slots return a plain container.String-compatible *object.Object built via
// ctx to avoid a numeric->container import cycle. The runtime wires the
// actual container.NewString constructor in by passing it at bootstrap.
var MakeString func(ctx object.Ctx, s string) *object.Object

func Str(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	var s string
	switch x := v.Data.(type) {
	case *big.Int:
		s = x.String()
	case float64:
		s = formatFloat(x)
	case complex128:
		s = formatComplex(x)
	}
	return MakeString(ctx, s), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatComplex(c complex128) string {
	if real(c) == 0 {
		return fmt.Sprintf("%si", formatFloat(imag(c)))
	}
	if imag(c) >= 0 {
		return fmt.Sprintf("(%s+%si)", formatFloat(real(c)), formatFloat(imag(c)))
	}
	return fmt.Sprintf("(%s%si)", formatFloat(real(c)), formatFloat(imag(c)))
}

// Repr is identical to Str for numbers (no quoting distinction).
func Repr(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	return Str(ctx, v)
}

// Hash implements the `hash` slot: equal values (including across int/float
// promotion) must hash equal, so floats that represent integral values hash
// as that integer would.
func Hash(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	h := fnv.New64a()
	switch x := v.Data.(type) {
	case *big.Int:
		h.Write(x.Bytes())
		if x.Sign() < 0 {
			h.Write([]byte{0xff})
		}
	case float64:
		if x == float64(int64(x)) {
			h.Write(big.NewInt(int64(x)).Bytes())
			if x < 0 {
				h.Write([]byte{0xff})
			}
		} else {
			bits := math.Float64bits(x)
			var buf [8]byte
			for i := 0; i < 8; i++ {
				buf[i] = byte(bits >> (8 * i))
			}
			h.Write(buf[:])
		}
	case complex128:
		h.Write([]byte(formatComplex(x)))
	}
	return NewInt(ctx, new(big.Int).SetUint64(h.Sum64())), nil
}
