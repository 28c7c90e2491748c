package calc

import (
	"path/filepath"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ImageSource is the structural contract this package needs from an
// opened N-D image. voximage.Image is adapted to it by imageAdapter in
// calc.go, the only file of this package that refers to the concrete
// storage format.
type ImageSource interface {
	NDim() int
	Size(axis int) int
	Spacing(axis int) float32
	IsComplex() bool
	Path() string
	NewCursor() VoxelCursor
}

// VoxelCursor is a per-thread, random-access read position into an
// ImageSource.
type VoxelCursor interface {
	SetIndex(axis, i int)
	Value() Scalar
}

// RandomKind distinguishes the two reserved random operand tokens.
type RandomKind int

const (
	RandomUniform RandomKind = iota // "rand": uniform on [0,1)
	RandomNormal                    // "randn": standard normal
)

// ImageLeaf is a resolved image operand: a handle shared read-only
// across every worker once the builder finishes. Operand tokens that
// name the same path once lexically cleaned (filepath.Clean) share one
// ImageLeaf (the image leaf cache below).
type ImageLeaf struct {
	Source ImageSource
}

// randomStream is the per-worker state a random leaf node draws
// through. Built fresh at worker start, seeded independently per
// worker so draws never collide across goroutines; there is no
// coordination of draws between threads.
type randomStream struct {
	uniform distuv.Uniform
	normal  distuv.Normal
}

func newRandomStream(seed uint64) *randomStream {
	src := rand.NewSource(seed)
	return &randomStream{
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
		normal:  distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

func (s *randomStream) draw(kind RandomKind) Scalar {
	switch kind {
	case RandomNormal:
		return complex(float32(s.normal.Rand()), 0)
	default:
		return complex(float32(s.uniform.Rand()), 0)
	}
}

// leafCache de-duplicates image operands by filesystem path within a
// single builder run. It is deliberately builder-local rather than a
// package-level cache shared across runs, since a long-lived process
// (tests, a server embedding this package) must not leak handles
// across independent expressions.
type leafCache struct {
	byPath map[string]*ImageLeaf
}

func newLeafCache() *leafCache {
	return &leafCache{byPath: make(map[string]*ImageLeaf)}
}

// open returns the cached leaf for path, opening it via openFn on
// first reference.
func (c *leafCache) open(path string, openFn func(string) (ImageSource, error)) (*ImageLeaf, error) {
	key := filepath.Clean(path)
	if leaf, ok := c.byPath[key]; ok {
		return leaf, nil
	}
	src, err := openFn(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	leaf := &ImageLeaf{Source: src}
	c.byPath[key] = leaf
	return leaf, nil
}
