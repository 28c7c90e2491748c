package calc

import (
	"math"
	"strconv"
	"strings"
)

// Scalar is a complex number with real and imaginary parts in 32-bit
// floating point — which is exactly Go's built-in complex64, so there
// is no wrapper type, just helpers around it.
type Scalar = complex64

// isComplex reports whether v's imaginary part is non-zero: a scalar
// is real when its imaginary part is exactly zero.
func isComplex(v Scalar) bool {
	return imag(v) != 0
}

// parseReservedWord recognises the case-insensitive reserved operand
// tokens nan/-nan/inf/-inf. ok is false for anything else.
func parseReservedWord(token string) (Scalar, bool) {
	switch strings.ToLower(token) {
	case "nan":
		return complex(float32(math.NaN()), 0), true
	case "-nan":
		return complex(float32(math.Copysign(math.NaN(), -1)), 0), true
	case "inf":
		return complex(float32(math.Inf(1)), 0), true
	case "-inf":
		return complex(float32(math.Inf(-1)), 0), true
	default:
		return 0, false
	}
}

// parseNumericLiteral parses a decimal scalar with an optional
// imaginary suffix, e.g. "3", "-2.5", "3+4i", "4i".
// strconv.ParseComplex already implements exactly this grammar; there
// is no domain library worth reaching for instead of the standard
// library here — this is exactly the kind of leaf-level, non-domain
// parsing task the standard library already does correctly.
func parseNumericLiteral(token string) (Scalar, error) {
	v, err := strconv.ParseComplex(token, 64)
	if err != nil {
		return 0, err
	}
	return complex64(v), nil
}

// formatScalar renders a scalar leaf for provenance labels (the
// %1/%2/%3 substitution): the imaginary part is dropped for real
// values so labels read as plain numbers, matching mrcalc's own
// operand echoing.
func formatScalar(v Scalar) string {
	if !isComplex(v) {
		return strconv.FormatFloat(float64(real(v)), 'g', -1, 32)
	}
	return strconv.FormatComplex(complex128(v), 'g', -1, 64)
}
