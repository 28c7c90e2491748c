package calc

import "math/cmplx"

// RKernel evaluates an operator's real-domain form: every operand was
// real, so each is passed as its real float32 component, in operand
// order. ZKernel evaluates the complex-domain form the same way, one
// operand per slot, in operand order.
type RKernel func(args []float32) Scalar
type ZKernel func(args []Scalar) Scalar

// Operator is one entry of the closed operator catalogue: a name, a
// provenance format string, arity, the ZtoR/RtoZ flags, and at most
// one kernel per domain. A nil kernel means "this operator has no
// form in that domain" — builder.go turns that into
// OperationNotSupportedError at tree-construction time, never at
// evaluation time: builder errors abort before any worker is spawned.
type Operator struct {
	Name        string
	Arity       int
	Format      string
	Description string

	// ZtoR is true when a complex operand yields a real-valued result
	// (abs, real, imag, phase, isnan/isinf/finite, eq/neq).
	ZtoR bool
	// RtoZ is true when real operands yield a complex-valued result
	// (complex).
	RtoZ bool

	R RKernel
	Z ZKernel
}

func c128(v Scalar) complex128 { return complex128(v) }
func c64(v complex128) Scalar  { return Scalar(v) }

func boolScalar(b bool) Scalar {
	if b {
		return 1
	}
	return 0
}

// catalog is the closed, exhaustive operator registry. Keys are the
// CLI option names, unprefixed (mrcalc itself prefixes them with "-"
// on the command line; see cmd/mrcalc).
var catalog = buildCatalog()

func buildCatalog() map[string]*Operator {
	ops := []*Operator{
		// ---- unary ----
		{
			Name: "abs", Arity: 1, Format: "|%1|", Description: "absolute value",
			ZtoR: true,
			R:    func(a []float32) Scalar { return complex(absf32(a[0]), 0) },
			Z:    func(a []Scalar) Scalar { return complex(float32(cmplx.Abs(c128(a[0]))), 0) },
		},
		{
			Name: "neg", Arity: 1, Format: "-%1", Description: "negative value",
			R: func(a []float32) Scalar { return complex(-a[0], 0) },
			Z: func(a []Scalar) Scalar { return -a[0] },
		},
		{
			Name: "sqrt", Arity: 1, Format: "sqrt(%1)", Description: "square root",
			R: func(a []float32) Scalar { return complex(sqrtf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Sqrt(c128(a[0]))) },
		},
		{
			Name: "exp", Arity: 1, Format: "exp(%1)", Description: "exponential function",
			R: func(a []float32) Scalar { return complex(expf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Exp(c128(a[0]))) },
		},
		{
			Name: "log", Arity: 1, Format: "log(%1)", Description: "natural logarithm",
			R: func(a []float32) Scalar { return complex(logf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Log(c128(a[0]))) },
		},
		{
			Name: "log10", Arity: 1, Format: "log10(%1)", Description: "common logarithm",
			R: func(a []float32) Scalar { return complex(log10f32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Log10(c128(a[0]))) },
		},
		{
			Name: "cos", Arity: 1, Format: "cos(%1)", Description: "cosine",
			R: func(a []float32) Scalar { return complex(cosf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Cos(c128(a[0]))) },
		},
		{
			Name: "sin", Arity: 1, Format: "sin(%1)", Description: "sine",
			R: func(a []float32) Scalar { return complex(sinf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Sin(c128(a[0]))) },
		},
		{
			Name: "tan", Arity: 1, Format: "tan(%1)", Description: "tangent",
			R: func(a []float32) Scalar { return complex(tanf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Tan(c128(a[0]))) },
		},
		{
			Name: "cosh", Arity: 1, Format: "cosh(%1)", Description: "hyperbolic cosine",
			R: func(a []float32) Scalar { return complex(coshf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Cosh(c128(a[0]))) },
		},
		{
			Name: "sinh", Arity: 1, Format: "sinh(%1)", Description: "hyperbolic sine",
			R: func(a []float32) Scalar { return complex(sinhf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Sinh(c128(a[0]))) },
		},
		{
			Name: "tanh", Arity: 1, Format: "tanh(%1)", Description: "hyperbolic tangent",
			R: func(a []float32) Scalar { return complex(tanhf32(a[0]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Tanh(c128(a[0]))) },
		},
		// R-only inverse trig/hyperbolic: invoking on a complex operand
		// is OperationNotSupported.
		{Name: "acos", Arity: 1, Format: "acos(%1)", Description: "inverse cosine",
			R: func(a []float32) Scalar { return complex(acosf32(a[0]), 0) }},
		{Name: "asin", Arity: 1, Format: "asin(%1)", Description: "inverse sine",
			R: func(a []float32) Scalar { return complex(asinf32(a[0]), 0) }},
		{Name: "atan", Arity: 1, Format: "atan(%1)", Description: "inverse tangent",
			R: func(a []float32) Scalar { return complex(atanf32(a[0]), 0) }},
		{Name: "acosh", Arity: 1, Format: "acosh(%1)", Description: "inverse hyperbolic cosine",
			R: func(a []float32) Scalar { return complex(acoshf32(a[0]), 0) }},
		{Name: "asinh", Arity: 1, Format: "asinh(%1)", Description: "inverse hyperbolic sine",
			R: func(a []float32) Scalar { return complex(asinhf32(a[0]), 0) }},
		{Name: "atanh", Arity: 1, Format: "atanh(%1)", Description: "inverse hyperbolic tangent",
			R: func(a []float32) Scalar { return complex(atanhf32(a[0]), 0) }},
		// R-only rounding.
		{Name: "round", Arity: 1, Format: "round(%1)", Description: "round to nearest integer",
			R: func(a []float32) Scalar { return complex(roundf32(a[0]), 0) }},
		{Name: "ceil", Arity: 1, Format: "ceil(%1)", Description: "round up to nearest integer",
			R: func(a []float32) Scalar { return complex(ceilf32(a[0]), 0) }},
		{Name: "floor", Arity: 1, Format: "floor(%1)", Description: "round down to nearest integer",
			R: func(a []float32) Scalar { return complex(floorf32(a[0]), 0) }},
		// Z-only complex accessors.
		{Name: "real", Arity: 1, Format: "real(%1)", Description: "real part of complex number", ZtoR: true,
			Z: func(a []Scalar) Scalar { return complex(real(a[0]), 0) }},
		{Name: "imag", Arity: 1, Format: "imag(%1)", Description: "imaginary part of complex number", ZtoR: true,
			Z: func(a []Scalar) Scalar { return complex(imag(a[0]), 0) }},
		{Name: "phase", Arity: 1, Format: "phase(%1)", Description: "phase of complex number", ZtoR: true,
			Z: func(a []Scalar) Scalar { return complex(float32(cmplx.Phase(c128(a[0]))), 0) }},
		{Name: "conj", Arity: 1, Format: "conj(%1)", Description: "complex conjugate",
			Z: func(a []Scalar) Scalar { return c64(cmplx.Conj(c128(a[0]))) }},
		// isnan/isinf/finite: both domains, ZtoR. The Z-kernels return
		// true when *either* component satisfies the predicate — this
		// is not a De Morgan pair with "finite", which is deliberate:
		// preserved verbatim, do not "fix".
		{Name: "isnan", Arity: 1, Format: "isnan(%1)", Description: "true (1) if operand is not-a-number (NaN)", ZtoR: true,
			R: func(a []float32) Scalar { return boolScalar(isNaNf32(a[0])) },
			Z: func(a []Scalar) Scalar {
				return boolScalar(isNaNf32(real(a[0])) || isNaNf32(imag(a[0])))
			}},
		{Name: "isinf", Arity: 1, Format: "isinf(%1)", Description: "true (1) if operand is infinite (Inf)", ZtoR: true,
			R: func(a []float32) Scalar { return boolScalar(isInff32(a[0])) },
			Z: func(a []Scalar) Scalar {
				return boolScalar(isInff32(real(a[0])) || isInff32(imag(a[0])))
			}},
		{Name: "finite", Arity: 1, Format: "finite(%1)", Description: "true (1) if operand is finite (i.e. not NaN or Inf)", ZtoR: true,
			R: func(a []float32) Scalar { return boolScalar(isFinitef32(a[0])) },
			Z: func(a []Scalar) Scalar {
				return boolScalar(isFinitef32(real(a[0])) || isFinitef32(imag(a[0])))
			}},

		// ---- binary ----
		{Name: "add", Arity: 2, Format: "(%1 + %2)", Description: "add values",
			R: func(a []float32) Scalar { return complex(a[0]+a[1], 0) },
			Z: func(a []Scalar) Scalar { return a[0] + a[1] }},
		{Name: "subtract", Arity: 2, Format: "(%1 - %2)", Description: "subtract nth operand from (n-1)th",
			R: func(a []float32) Scalar { return complex(a[0]-a[1], 0) },
			Z: func(a []Scalar) Scalar { return a[0] - a[1] }},
		{Name: "multiply", Arity: 2, Format: "(%1 * %2)", Description: "multiply values",
			R: func(a []float32) Scalar { return complex(a[0]*a[1], 0) },
			Z: func(a []Scalar) Scalar { return a[0] * a[1] }},
		{Name: "divide", Arity: 2, Format: "(%1 / %2)", Description: "divide (n-1)th operand by nth",
			R: func(a []float32) Scalar { return complex(a[0]/a[1], 0) },
			Z: func(a []Scalar) Scalar { return a[0] / a[1] }},
		{Name: "pow", Arity: 2, Format: "%1^%2", Description: "raise (n-1)th operand to nth power",
			R: func(a []float32) Scalar { return complex(powf32(a[0], a[1]), 0) },
			Z: func(a []Scalar) Scalar { return c64(cmplx.Pow(c128(a[0]), c128(a[1]))) }},
		{Name: "min", Arity: 2, Format: "min(%1, %2)", Description: "smallest of last two operands",
			R: func(a []float32) Scalar { return complex(minf32(a[0], a[1]), 0) }},
		{Name: "max", Arity: 2, Format: "max(%1, %2)", Description: "greatest of last two operands",
			R: func(a []float32) Scalar { return complex(maxf32(a[0], a[1]), 0) }},
		{Name: "lt", Arity: 2, Format: "(%1 < %2)", Description: "less-than operator (true=1, false=0)",
			R: func(a []float32) Scalar { return boolScalar(a[0] < a[1]) }},
		{Name: "gt", Arity: 2, Format: "(%1 > %2)", Description: "greater-than operator (true=1, false=0)",
			R: func(a []float32) Scalar { return boolScalar(a[0] > a[1]) }},
		{Name: "le", Arity: 2, Format: "(%1 <= %2)", Description: "less-than-or-equal-to operator (true=1, false=0)",
			R: func(a []float32) Scalar { return boolScalar(a[0] <= a[1]) }},
		{Name: "ge", Arity: 2, Format: "(%1 >= %2)", Description: "greater-than-or-equal-to operator (true=1, false=0)",
			R: func(a []float32) Scalar { return boolScalar(a[0] >= a[1]) }},
		{Name: "eq", Arity: 2, Format: "(%1 == %2)", Description: "equal-to operator (true=1, false=0)", ZtoR: true,
			R: func(a []float32) Scalar { return boolScalar(a[0] == a[1]) },
			Z: func(a []Scalar) Scalar { return boolScalar(a[0] == a[1]) }},
		{Name: "neq", Arity: 2, Format: "(%1 != %2)", Description: "not-equal-to operator (true=1, false=0)", ZtoR: true,
			R: func(a []float32) Scalar { return boolScalar(a[0] != a[1]) },
			Z: func(a []Scalar) Scalar { return boolScalar(a[0] != a[1]) }},
		{Name: "complex", Arity: 2, Format: "(%1 + %2 i)",
			Description: "create complex number using the last two operands as real,imaginary components",
			RtoZ:        true,
			R:           func(a []float32) Scalar { return complex(a[0], a[1]) }},

		// ---- ternary ----
		{Name: "if", Arity: 3, Format: "(%1 ? %2 : %3)",
			Description: "if first operand is true (non-zero), return second operand, otherwise return third operand",
			R: func(a []float32) Scalar {
				if a[0] != 0 {
					return complex(a[1], 0)
				}
				return complex(a[2], 0)
			},
			Z: func(a []Scalar) Scalar {
				if real(a[0]) != 0 {
					return a[1]
				}
				return a[2]
			}},
	}

	m := make(map[string]*Operator, len(ops))
	for _, op := range ops {
		m[op.Name] = op
	}
	return m
}

// Lookup returns the catalogue entry for name, or nil if name isn't a
// known operator.
func Lookup(name string) *Operator { return catalog[name] }

// Names returns every catalogued operator name, for CLI help text.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for n := range catalog {
		names = append(names, n)
	}
	return names
}
