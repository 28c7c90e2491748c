package calc

import "math"

// The helpers below are thin float32 wrappers around math's float64
// functions. Go's standard library only ships float64 transcendental
// functions, but the operator catalogue works in float32, so every
// R-kernel that isn't pure arithmetic needs one of these. There is no
// well-established third-party float32 math library worth reaching
// for here instead of two casts around math's own functions.

func absf32(x float32) float32   { return float32(math.Abs(float64(x))) }
func sqrtf32(x float32) float32  { return float32(math.Sqrt(float64(x))) }
func expf32(x float32) float32   { return float32(math.Exp(float64(x))) }
func logf32(x float32) float32   { return float32(math.Log(float64(x))) }
func log10f32(x float32) float32 { return float32(math.Log10(float64(x))) }
func cosf32(x float32) float32   { return float32(math.Cos(float64(x))) }
func sinf32(x float32) float32   { return float32(math.Sin(float64(x))) }
func tanf32(x float32) float32   { return float32(math.Tan(float64(x))) }
func coshf32(x float32) float32  { return float32(math.Cosh(float64(x))) }
func sinhf32(x float32) float32  { return float32(math.Sinh(float64(x))) }
func tanhf32(x float32) float32  { return float32(math.Tanh(float64(x))) }
func acosf32(x float32) float32  { return float32(math.Acos(float64(x))) }
func asinf32(x float32) float32  { return float32(math.Asin(float64(x))) }
func atanf32(x float32) float32  { return float32(math.Atan(float64(x))) }
func acoshf32(x float32) float32 { return float32(math.Acosh(float64(x))) }
func asinhf32(x float32) float32 { return float32(math.Asinh(float64(x))) }
func atanhf32(x float32) float32 { return float32(math.Atanh(float64(x))) }
func roundf32(x float32) float32 { return float32(math.Round(float64(x))) }
func ceilf32(x float32) float32  { return float32(math.Ceil(float64(x))) }
func floorf32(x float32) float32 { return float32(math.Floor(float64(x))) }
func powf32(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

// minf32/maxf32 delegate to math.Min/math.Max rather than a hand-rolled
// comparison, so NaN tie-breaking matches Go's own behaviour —
// deliberately left implementation-defined rather than pinned down.
func minf32(x, y float32) float32 { return float32(math.Min(float64(x), float64(y))) }
func maxf32(x, y float32) float32 { return float32(math.Max(float64(x), float64(y))) }

func isNaNf32(x float32) bool    { return math.IsNaN(float64(x)) }
func isInff32(x float32) bool    { return math.IsInf(float64(x), 0) }
func isFinitef32(x float32) bool { return !isNaNf32(x) && !isInff32(x) }
