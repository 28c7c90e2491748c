package calc

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/rdpauw/mrtrix3/pkg/voximage"
)

// imageSet backs a test's openFn: a fixed map from operand token to a
// pre-built in-memory image, bypassing disk entirely.
type imageSet map[string]*voximage.Image

func (s imageSet) open(path string) (ImageSource, error) {
	img, ok := s[path]
	if !ok {
		return nil, &IOError{Path: path, Err: errNotAnImage}
	}
	return imageAdapter{img}, nil
}

func mustImage(t *testing.T, size []int, complex_ bool, values []complex64) *voximage.Image {
	t.Helper()
	img, err := voximage.New(voximage.NewHeader(size, complex_))
	if err != nil {
		t.Fatalf("voximage.New: %v", err)
	}
	for i, v := range values {
		img.Set(i, v)
	}
	return img
}

func TestScenario1PureScalarMultiply(t *testing.T) {
	b := NewBuilder(noImages)
	b.PushOperand("3")
	b.PushOperand("2")
	if err := b.PushOperator("multiply"); err != nil {
		t.Fatalf("PushOperator: %v", err)
	}
	res, err := Run(b, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.CalculatorMode || res.Scalar != complex(float32(6), 0) {
		t.Errorf("res = %+v, want calculator mode scalar 6", res)
	}
}

func TestScenario2ImageTimesScalar(t *testing.T) {
	a := mustImage(t, []int{2, 2}, false, []complex64{1, 2, 3, 4})
	images := imageSet{"A": a}

	outPath := tempPath(t, "out.vxlc")
	b := NewBuilder(images.open)
	b.PushOperand("A")
	b.PushOperand("2")
	if err := b.PushOperator("multiply"); err != nil {
		t.Fatalf("PushOperator: %v", err)
	}
	b.PushOperand(outPath)

	res, err := Run(b, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := voximage.Open(res.OutputPath)
	if err != nil {
		t.Fatalf("Open result: %v", err)
	}
	want := []complex64{2, 4, 6, 8}
	for i, w := range want {
		if out.At(i) != w {
			t.Errorf("voxel %d = %v, want %v", i, out.At(i), w)
		}
	}
}

func TestScenario3NegThenExp(t *testing.T) {
	a := mustImage(t, []int{2, 2}, false, []complex64{1, 0, -1, 0})
	images := imageSet{"A": a}
	outPath := tempPath(t, "out.vxlc")

	b := NewBuilder(images.open)
	b.PushOperand("A")
	if err := b.PushOperator("neg"); err != nil {
		t.Fatalf("neg: %v", err)
	}
	if err := b.PushOperator("exp"); err != nil {
		t.Fatalf("exp: %v", err)
	}
	b.PushOperand(outPath)

	res, err := Run(b, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := voximage.Open(res.OutputPath)
	if err != nil {
		t.Fatalf("Open result: %v", err)
	}
	want := []float64{1 / math.E, 1, math.E, 1}
	for i, w := range want {
		got := float64(real(out.At(i)))
		if math.Abs(got-w) > 1e-6 {
			t.Errorf("voxel %d = %v, want %v", i, got, w)
		}
	}
}

func TestScenario4BroadcastAddThreeAxes(t *testing.T) {
	a := mustImage(t, []int{2, 2, 1}, false, []complex64{0, 1, 10, 11})
	bImg := mustImage(t, []int{1, 1, 3}, false, []complex64{100, 200, 300})
	images := imageSet{"A": a, "B": bImg}
	outPath := tempPath(t, "out.vxlc")

	bld := NewBuilder(images.open)
	bld.PushOperand("A")
	bld.PushOperand("B")
	if err := bld.PushOperator("add"); err != nil {
		t.Fatalf("add: %v", err)
	}
	bld.PushOperand(outPath)

	res, err := Run(bld, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := voximage.Open(res.OutputPath)
	if err != nil {
		t.Fatalf("Open result: %v", err)
	}
	if out.Size(0) != 2 || out.Size(1) != 2 || out.Size(2) != 3 {
		t.Fatalf("unexpected output shape %d,%d,%d", out.Size(0), out.Size(1), out.Size(2))
	}
	for k := 0; k < 3; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				flat := i + 2*j + 4*k
				aVal := a.At(i + 2*j)
				bVal := bImg.At(k)
				want := aVal + bVal
				if out.At(flat) != want {
					t.Errorf("out[%d,%d,%d] = %v, want %v", i, j, k, out.At(flat), want)
				}
			}
		}
	}
}

func TestBroadcastMixedNDimLeaves(t *testing.T) {
	// A is 3-D, M is 2-D: M's missing third axis is implicitly size 1
	// and must broadcast across every k, exercising a leaf cursor
	// shorter than the output's axis count.
	a := mustImage(t, []int{2, 2, 2}, false, []complex64{0, 1, 2, 3, 4, 5, 6, 7})
	m := mustImage(t, []int{2, 2}, false, []complex64{10, 20, 30, 40})
	images := imageSet{"A": a, "M": m}
	outPath := tempPath(t, "out.vxlc")

	b := NewBuilder(images.open)
	b.PushOperand("A")
	b.PushOperand("M")
	if err := b.PushOperator("multiply"); err != nil {
		t.Fatalf("multiply: %v", err)
	}
	b.PushOperand(outPath)

	res, err := Run(b, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := voximage.Open(res.OutputPath)
	if err != nil {
		t.Fatalf("Open result: %v", err)
	}
	if out.Size(0) != 2 || out.Size(1) != 2 || out.Size(2) != 2 {
		t.Fatalf("unexpected output shape %d,%d,%d", out.Size(0), out.Size(1), out.Size(2))
	}
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				flat := i + 2*j + 4*k
				want := a.At(flat) * m.At(i+2*j)
				if out.At(flat) != want {
					t.Errorf("out[%d,%d,%d] = %v, want %v", i, j, k, out.At(flat), want)
				}
			}
		}
	}
}

func TestScenario5RandomMeanNearHalf(t *testing.T) {
	// "rand out" needs a companion leaf to anchor output shape; zero
	// it out via multiply so it contributes nothing to the value.
	dummy := mustImage(t, []int{4, 4, 4}, false, make([]complex64, 64))
	images := imageSet{"dummy": dummy}
	outPath := tempPath(t, "out.vxlc")

	b := NewBuilder(images.open)
	b.PushOperand("dummy")
	b.PushOperand("0")
	if err := b.PushOperator("multiply"); err != nil {
		t.Fatalf("multiply: %v", err)
	}
	b.PushOperand("rand")
	if err := b.PushOperator("add"); err != nil {
		t.Fatalf("add: %v", err)
	}
	b.PushOperand(outPath)

	res, err := Run(b, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := voximage.Open(res.OutputPath)
	if err != nil {
		t.Fatalf("Open result: %v", err)
	}
	if out.Len() != 64 {
		t.Fatalf("Len() = %d, want 64", out.Len())
	}
	voxels := make([]float64, out.Len())
	for i := range voxels {
		v := float64(real(out.At(i)))
		if v < 0 || v >= 1 {
			t.Fatalf("voxel %d = %v, want value in [0,1)", i, v)
		}
		voxels[i] = v
	}
	mean := stat.Mean(voxels, nil)
	if math.Abs(mean-0.5) > 0.2 {
		t.Errorf("mean = %v, want close to 0.5", mean)
	}
}

func TestScenario6ComplexAbsBroadcastFromDummy(t *testing.T) {
	dummy := mustImage(t, []int{2}, false, []complex64{7, 7})
	images := imageSet{"dummy": dummy}
	outPath := tempPath(t, "out.vxlc")

	b := NewBuilder(images.open)
	b.PushOperand("dummy")
	b.PushOperand("0")
	if err := b.PushOperator("multiply"); err != nil {
		t.Fatalf("multiply: %v", err)
	}
	b.PushOperand("2")
	b.PushOperand("3")
	if err := b.PushOperator("complex"); err != nil {
		t.Fatalf("complex: %v", err)
	}
	if err := b.PushOperator("abs"); err != nil {
		t.Fatalf("abs: %v", err)
	}
	if err := b.PushOperator("add"); err != nil {
		t.Fatalf("add: %v", err)
	}
	b.PushOperand(outPath)

	res, err := Run(b, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := voximage.Open(res.OutputPath)
	if err != nil {
		t.Fatalf("Open result: %v", err)
	}
	want := float32(cmplx.Abs(complex(2, 3)))
	for i := 0; i < out.Len(); i++ {
		got := real(out.At(i))
		if math.Abs(float64(got-want)) > 1e-5 {
			t.Errorf("voxel %d = %v, want %v", i, got, want)
		}
	}
}

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return t.TempDir() + "/" + name
}
