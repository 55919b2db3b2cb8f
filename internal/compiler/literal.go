package compiler

import (
	"math/big"
	"strconv"
	"strings"
)

// parseIntText converts a scanned integer lexeme (optionally base-prefixed
// with 0b/0o/0d/0x, optionally underscore-separated) to a *big.Int.
func parseIntText(text string) *big.Int {
	text = strings.ReplaceAll(text, "_", "")
	neg := false
	if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}
	base := 10
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'b', 'B':
			base, text = 2, text[2:]
		case 'o', 'O':
			base, text = 8, text[2:]
		case 'd', 'D':
			base, text = 10, text[2:]
		case 'x', 'X':
			base, text = 16, text[2:]
		}
	}
	n := new(big.Int)
	n.SetString(text, base)
	if neg {
		n.Neg(n)
	}
	return n
}

// parseFloatText converts a scanned float lexeme to a float64, stripping the
// `i`/`I` imaginary-suffix marker if present (the caller decides whether to
// wrap the result as Complex based on the trailing marker via
// isImaginaryText).
func parseFloatText(text string) float64 {
	text = strings.ReplaceAll(text, "_", "")
	text = strings.TrimSuffix(strings.TrimSuffix(text, "i"), "I")
	f, _ := strconv.ParseFloat(text, 64)
	return f
}

func isImaginaryText(text string) bool {
	return strings.HasSuffix(text, "i") || strings.HasSuffix(text, "I")
}
