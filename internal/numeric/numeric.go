// Package numeric implements the unified numeric tower from §4.2:
// arbitrary-precision integers (backed by math/big), a fixed-width IEEE
// float, and a complex pair, with the promotion, division and comparison
// rules the core specification requires. Slot functions here get wired onto
// the Int/Float/Complex/Bool type descriptors by the runtime package during
// bootstrap; this package never constructs a *object.Type itself.
package numeric

import (
	"math"
	"math/big"

	"sentra/internal/object"
)

// AsInt extracts the *big.Int payload of an Int/Bool/Enum-kind value.
func AsInt(o *object.Object) (*big.Int, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Data.(*big.Int)
	return v, ok
}

// AsFloat extracts the float64 payload of a Float value.
func AsFloat(o *object.Object) (float64, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o.Data.(float64)
	return v, ok
}

// AsComplex extracts the complex128 payload of a Complex value.
func AsComplex(o *object.Object) (complex128, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o.Data.(complex128)
	return v, ok
}

func NewInt(ctx object.Ctx, v *big.Int) *object.Object {
	return object.New(ctx.LookupType("int"), v)
}

func NewFloat(ctx object.Ctx, v float64) *object.Object {
	return object.New(ctx.LookupType("float"), v)
}

func NewComplex(ctx object.Ctx, v complex128) *object.Object {
	return object.New(ctx.LookupType("complex"), v)
}

func NewBool(ctx object.Ctx, v bool) *object.Object {
	n := int64(0)
	if v {
		n = 1
	}
	return object.New(ctx.LookupType("bool"), big.NewInt(n))
}

// kind classifies an operand for the promotion rule of §4.2.
type kind int

const (
	kNone kind = iota
	kInt
	kFloat
	kComplex
)

func classify(o *object.Object) kind {
	switch o.Data.(type) {
	case *big.Int:
		return kInt
	case float64:
		return kFloat
	case complex128:
		return kComplex
	}
	return kNone
}

// promote returns the kind the binary operation on (a, b) must be carried
// out at: complex beats float beats int.
func promote(a, b *object.Object) kind {
	ka, kb := classify(a), classify(b)
	if ka == kComplex || kb == kComplex {
		return kComplex
	}
	if ka == kFloat || kb == kFloat {
		return kFloat
	}
	return kInt
}

func toFloat(o *object.Object) float64 {
	switch v := o.Data.(type) {
	case *big.Int:
		f := new(big.Float).SetInt(v)
		r, _ := f.Float64()
		return r
	case float64:
		return v
	}
	return 0
}

func toComplex(o *object.Object) complex128 {
	switch v := o.Data.(type) {
	case complex128:
		return v
	default:
		return complex(toFloat(o), 0)
	}
}

// Add implements §4.2's promotion rule for `+`.
func Add(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	switch promote(a, b) {
	case kComplex:
		return NewComplex(ctx, toComplex(a)+toComplex(b)), nil
	case kFloat:
		return NewFloat(ctx, toFloat(a)+toFloat(b)), nil
	default:
		ai, _ := AsInt(a)
		bi, _ := AsInt(b)
		return NewInt(ctx, new(big.Int).Add(ai, bi)), nil
	}
}

func Sub(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	switch promote(a, b) {
	case kComplex:
		return NewComplex(ctx, toComplex(a)-toComplex(b)), nil
	case kFloat:
		return NewFloat(ctx, toFloat(a)-toFloat(b)), nil
	default:
		ai, _ := AsInt(a)
		bi, _ := AsInt(b)
		return NewInt(ctx, new(big.Int).Sub(ai, bi)), nil
	}
}

func Mul(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	switch promote(a, b) {
	case kComplex:
		return NewComplex(ctx, toComplex(a)*toComplex(b)), nil
	case kFloat:
		return NewFloat(ctx, toFloat(a)*toFloat(b)), nil
	default:
		ai, _ := AsInt(a)
		bi, _ := AsInt(b)
		return NewInt(ctx, new(big.Int).Mul(ai, bi)), nil
	}
}

// intTrueDivBits is the number of extra bits of precision carried through the
// scaled bigint division before the final float64 rounding, comfortably
// beyond the float64 mantissa width so the result rounds correctly even when
// operands exceed float range (§4.2's scaling algorithm).
const intTrueDivBits = 128

// intTrueDiv computes a/b as a float without ever materializing an
// out-of-range intermediate: shift a left by s bits, do exact bigint
// division, convert to a big.Float, and rescale by 2^-s.
func intTrueDiv(a, b *big.Int) float64 {
	s := intTrueDivBits
	shifted := new(big.Int).Lsh(a, uint(s))
	q := new(big.Int).Quo(shifted, b)
	f := new(big.Float).SetPrec(256).SetInt(q)
	scale := new(big.Float).SetPrec(256).SetMantExp(big.NewFloat(1), -s)
	f.Mul(f, scale)
	result, _ := f.Float64()
	return result
}

// Div implements `/`: always float-producing per §4.2, using the scaling
// algorithm for the integer/integer case.
func Div(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	switch promote(a, b) {
	case kComplex:
		bc := toComplex(b)
		if bc == 0 {
			return nil, ctx.Raise("MathError", "complex division by zero")
		}
		return NewComplex(ctx, toComplex(a)/bc), nil
	case kFloat:
		bf := toFloat(b)
		if bf == 0 {
			return nil, ctx.Raise("MathError", "division by zero")
		}
		return NewFloat(ctx, toFloat(a)/bf), nil
	default:
		ai, _ := AsInt(a)
		bi, _ := AsInt(b)
		if bi.Sign() == 0 {
			return nil, ctx.Raise("MathError", "division by zero")
		}
		return NewFloat(ctx, intTrueDiv(ai, bi)), nil
	}
}

// floorDivInt performs flooring signed integer division (quotient rounds
// toward negative infinity, unlike big.Int.Quo which truncates toward zero).
func floorDivInt(a, b *big.Int) *big.Int {
	q, r := new(big.Int), new(big.Int)
	q.QuoRem(a, b, r)
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, big.NewInt(1))
	}
	return q
}

// FloorDiv implements `//`: flooring division on integers, floor(A/B)
// coerced to integer on floats.
func FloorDiv(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	if promote(a, b) == kFloat {
		bf := toFloat(b)
		if bf == 0 {
			return nil, ctx.Raise("MathError", "division by zero")
		}
		return NewInt(ctx, floatToBigInt(math.Floor(toFloat(a)/bf))), nil
	}
	ai, _ := AsInt(a)
	bi, _ := AsInt(b)
	if bi.Sign() == 0 {
		return nil, ctx.Raise("MathError", "integer division by zero")
	}
	return NewInt(ctx, floorDivInt(ai, bi)), nil
}

func floatToBigInt(f float64) *big.Int {
	bi, _ := big.NewFloat(f).Int(nil)
	return bi
}

// modInt computes the floored (mathematician's) modulus: the result takes
// the sign of the divisor.
func modInt(a, b *big.Int) *big.Int {
	r := new(big.Int)
	new(big.Int).QuoRem(a, b, r)
	if r.Sign() != 0 && (r.Sign() < 0) != (b.Sign() < 0) {
		r.Add(r, b)
	}
	return r
}

// Mod implements `%` with floored semantics.
func Mod(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	if promote(a, b) == kFloat {
		bf := toFloat(b)
		if bf == 0 {
			return nil, ctx.Raise("MathError", "division by zero")
		}
		m := math.Mod(toFloat(a), bf)
		if m != 0 && (m < 0) != (bf < 0) {
			m += bf
		}
		return NewFloat(ctx, m), nil
	}
	ai, _ := AsInt(a)
	bi, _ := AsInt(b)
	if bi.Sign() == 0 {
		return nil, ctx.Raise("MathError", "modulo by zero")
	}
	return NewInt(ctx, modInt(ai, bi)), nil
}

// Pow implements pow(A, B) per §4.2: exact repeated squaring for a
// non-negative integer exponent, float conversion for a negative integer
// exponent, float/complex math otherwise.
func Pow(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	ka, kb := classify(a), classify(b)
	if ka == kInt && kb == kInt {
		ai, _ := AsInt(a)
		bi, _ := AsInt(b)
		if bi.Sign() >= 0 {
			return NewInt(ctx, new(big.Int).Exp(ai, bi, nil)), nil
		}
		af := toFloat(a)
		bf := toFloat(b)
		return NewFloat(ctx, math.Pow(af, bf)), nil
	}
	if ka == kComplex || kb == kComplex {
		// complex exponentiation via polar form: (r e^iθ)^w
		base := toComplex(a)
		exp := toComplex(b)
		if imag(exp) == 0 && imag(base) == 0 {
			return NewComplex(ctx, complex(math.Pow(real(base), real(exp)), 0)), nil
		}
		r := math.Hypot(real(base), imag(base))
		theta := math.Atan2(imag(base), real(base))
		lnr := math.Log(r)
		// w = p+qi ; base^w = exp(w * ln(base)) where ln(base)=lnr+iθ
		p, q := real(exp), imag(exp)
		reFactor := p*lnr - q*theta
		imFactor := p*theta + q*lnr
		mag := math.Exp(reFactor)
		return NewComplex(ctx, complex(mag*math.Cos(imFactor), mag*math.Sin(imFactor))), nil
	}
	return NewFloat(ctx, math.Pow(toFloat(a), toFloat(b))), nil
}

// Neg implements unary `-`.
func Neg(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	switch x := v.Data.(type) {
	case *big.Int:
		return NewInt(ctx, new(big.Int).Neg(x)), nil
	case float64:
		return NewFloat(ctx, -x), nil
	case complex128:
		return NewComplex(ctx, -x), nil
	}
	return nil, ctx.Raise("TypeError", "bad operand type for unary -")
}

// Pos implements unary `+` (identity for all numeric kinds).
func Pos(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	return v, nil
}

// Sqig implements unary `~` (bitwise complement of an integer).
func Sqig(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	vi, ok := AsInt(v)
	if !ok {
		return nil, ctx.Raise("TypeError", "bad operand type for unary ~")
	}
	return NewInt(ctx, new(big.Int).Not(vi)), nil
}

// cmp returns -1/0/1 comparing a and b under the numeric tower; raises
// MathError for complex operands per §4.2.
func cmp(ctx object.Ctx, a, b *object.Object) (int, *object.Object) {
	if classify(a) == kComplex || classify(b) == kComplex {
		return 0, ctx.Raise("MathError", "complex values are not orderable")
	}
	if promote(a, b) == kFloat {
		af, bf := toFloat(a), toFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	ai, _ := AsInt(a)
	bi, _ := AsInt(b)
	return ai.Cmp(bi), nil
}

func Lt(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	c, exc := cmp(ctx, a, b)
	if exc != nil {
		return nil, exc
	}
	return NewBool(ctx, c < 0), nil
}
func Le(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	c, exc := cmp(ctx, a, b)
	if exc != nil {
		return nil, exc
	}
	return NewBool(ctx, c <= 0), nil
}
func Gt(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	c, exc := cmp(ctx, a, b)
	if exc != nil {
		return nil, exc
	}
	return NewBool(ctx, c > 0), nil
}
func Ge(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	c, exc := cmp(ctx, a, b)
	if exc != nil {
		return nil, exc
	}
	return NewBool(ctx, c >= 0), nil
}

// Eq implements `==` (semantic equality): numeric values compare across the
// tower by value, complex values compare component-wise.
func Eq(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	if classify(a) == kComplex || classify(b) == kComplex {
		return NewBool(ctx, toComplex(a) == toComplex(b)), nil
	}
	c, _ := cmp(ctx, a, b)
	return NewBool(ctx, c == 0), nil
}

func Ne(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	v, exc := Eq(ctx, a, b)
	if exc != nil {
		return nil, exc
	}
	bv, _ := AsInt(v)
	return NewBool(ctx, bv.Sign() == 0), nil
}

// Lsh/Rsh/BinIor/BinAnd/BinXor operate on integers only.
func binIntOp(ctx object.Ctx, a, b *object.Object, f func(z, x, y *big.Int) *big.Int) (*object.Object, *object.Object) {
	ai, ok1 := AsInt(a)
	bi, ok2 := AsInt(b)
	if !ok1 || !ok2 {
		return nil, ctx.Raise("TypeError", "bitwise operation requires integer operands")
	}
	return NewInt(ctx, f(new(big.Int), ai, bi)), nil
}

func Lsh(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	return binIntOp(ctx, a, b, func(z, x, y *big.Int) *big.Int { return z.Lsh(x, uint(y.Int64())) })
}
func Rsh(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	return binIntOp(ctx, a, b, func(z, x, y *big.Int) *big.Int { return z.Rsh(x, uint(y.Int64())) })
}
func BinIor(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	return binIntOp(ctx, a, b, func(z, x, y *big.Int) *big.Int { return z.Or(x, y) })
}
func BinAnd(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	return binIntOp(ctx, a, b, func(z, x, y *big.Int) *big.Int { return z.And(x, y) })
}
func BinXor(ctx object.Ctx, a, b *object.Object) (*object.Object, *object.Object) {
	return binIntOp(ctx, a, b, func(z, x, y *big.Int) *big.Int { return z.Xor(x, y) })
}

// Bool implements the `bool` slot: zero is falsy, everything else truthy.
func Bool(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	switch x := v.Data.(type) {
	case *big.Int:
		return NewBool(ctx, x.Sign() != 0), nil
	case float64:
		return NewBool(ctx, x != 0), nil
	case complex128:
		return NewBool(ctx, x != 0), nil
	}
	return NewBool(ctx, true), nil
}

// Abs implements the `abs` slot.
func Abs(ctx object.Ctx, v *object.Object) (*object.Object, *object.Object) {
	switch x := v.Data.(type) {
	case *big.Int:
		return NewInt(ctx, new(big.Int).Abs(x)), nil
	case float64:
		return NewFloat(ctx, math.Abs(x)), nil
	case complex128:
		return NewFloat(ctx, math.Hypot(real(x), imag(x))), nil
	}
	return nil, ctx.Raise("TypeError", "bad operand type for abs()")
}
