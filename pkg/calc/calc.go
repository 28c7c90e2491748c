// Package calc implements the voxel expression engine: a postfix
// stack machine (Builder) over scalar, random, and image operands,
// real/complex type inference, broadcast geometry, and a parallel
// chunked evaluator that writes the result through an output image.
package calc

import (
	"runtime"

	"github.com/rdpauw/mrtrix3/internal/models"
	"github.com/rdpauw/mrtrix3/pkg/config"
	"github.com/rdpauw/mrtrix3/pkg/voximage"
)

// Options configures one Run invocation.
type Options struct {
	// Datatype names the requested output datatype; Unset means "infer
	// float32 or cfloat32 from the expression". Run only checks that its
	// complex-ness matches the expression's: the written file always
	// stores float32 (real) or complex64 voxels, whichever datatype is
	// named.
	Datatype config.Datatype

	// NumThreads is the worker pool size. nil means "hardware
	// parallelism"; a pointed-to 0 means "run single-threaded".
	NumThreads *int

	// Force permits overwriting an existing output path.
	Force bool

	// Progress, if non-nil, is invoked after each completed outer tile.
	Progress ProgressCallback
}

// Result is what Run produced: either a folded scalar (calculator
// mode) or the path of the image it wrote.
type Result struct {
	CalculatorMode bool
	Scalar         Scalar
	OutputPath     string
}

// OpenImage adapts voximage.Open to the signature Builder.resolve
// needs for image-leaf resolution: it returns an ImageSource so
// pkg/calc never imports voximage's concrete type outside this file.
func OpenImage(path string) (ImageSource, error) {
	img, err := voximage.Open(path)
	if err != nil {
		return nil, err
	}
	return imageAdapter{img}, nil
}

// imageAdapter exists only because Go requires a method's return type
// to match an interface's exactly: *voximage.Image.NewCursor returns
// *voximage.Cursor, not the VoxelCursor interface, so the image type
// itself can't satisfy ImageSource without this one-line indirection.
// voximage.Cursor needs no equivalent adapter: its own SetIndex/Value/
// SetValue methods already match VoxelCursor and VoxelWriteCursor.
type imageAdapter struct{ img *voximage.Image }

func (a imageAdapter) NDim() int                { return a.img.NDim() }
func (a imageAdapter) Size(axis int) int        { return a.img.Size(axis) }
func (a imageAdapter) Spacing(axis int) float32 { return a.img.Spacing(axis) }
func (a imageAdapter) IsComplex() bool          { return a.img.IsComplex() }
func (a imageAdapter) Path() string             { return a.img.Path() }
func (a imageAdapter) NewCursor() VoxelCursor   { return a.img.NewCursor() }

// Run drives a fully-fed Builder (every token already pushed via
// PushOperand/PushOperator) through dispatch, geometry inference, and
// either calculator-mode folding or a full parallel evaluation. On any
// evaluation failure the output file is removed, so no partial output
// is ever left usable.
func Run(b *Builder, opts Options) (*Result, error) {
	root, outputPath, calculatorMode, err := b.Finish()
	if err != nil {
		return nil, err
	}

	if calculatorMode {
		return &Result{CalculatorMode: true, Scalar: root.Value}, nil
	}

	leaves := collectLeaves(root)
	size, spacing, err := computeGeometry(leaves)
	if err != nil {
		return nil, err
	}

	outputIsComplex := root.IsComplex()
	dt := opts.Datatype
	if dt != config.Unset && dt.IsComplex() != outputIsComplex {
		return nil, &DatatypeMismatchError{Datatype: string(dt), ExpressionIsComplex: outputIsComplex}
	}

	hdr := voximage.NewHeader(size, outputIsComplex)
	copy(hdr.Spacing, spacing)

	outImg, err := voximage.Create(outputPath, hdr, opts.Force)
	if err != nil {
		return nil, &IOError{Path: outputPath, Err: err}
	}

	geom := models.Geometry{Size: size, Spacing: spacing}
	inner0, inner1 := geom.InnerAxes()
	outerAxes := geom.OuterAxes()
	shape := tileShape{rows: geom.SizeAt(inner0), cols: geom.SizeAt(inner1)}

	numWorkers := resolveThreads(opts.NumThreads)

	runErr := RunParallel(
		root,
		outerAxes, size,
		[2]int{inner0, inner1},
		shape,
		outputIsComplex,
		numWorkers,
		func() VoxelWriteCursor { return outImg.NewCursor() },
		workerSeed,
		opts.Progress,
		nil,
	)
	if runErr != nil {
		_ = outImg.Remove()
		return nil, runErr
	}

	if err := outImg.Flush(); err != nil {
		_ = outImg.Remove()
		return nil, &IOError{Path: outputPath, Err: err}
	}

	return &Result{OutputPath: outputPath}, nil
}

// resolveThreads implements the nthreads option's rule.
func resolveThreads(n *int) int {
	if n == nil {
		return defaultParallelism()
	}
	if *n == 0 {
		return 1
	}
	return *n
}

func defaultParallelism() int { return runtime.NumCPU() }

// workerSeed derives a distinct seed per worker so independent random
// streams never correlate — draws are never coordinated between
// threads.
func workerSeed(worker int) uint64 {
	return uint64(worker)*0x9E3779B97F4A7C15 + 1
}
