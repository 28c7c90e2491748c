package voximage

import (
	"fmt"
	"math"

	"github.com/rdpauw/mrtrix3/internal/models"
)

// Header carries an image leaf's per-image attributes: axis count,
// per-axis size and spacing, and whether the voxel datatype is complex.
type Header struct {
	models.Geometry
	Complex bool
}

// NewHeader builds a Header from explicit sizes, defaulting every
// spacing entry to NaN ("unknown" — filled in from another leaf during
// geometry inference).
func NewHeader(size []int, complex_ bool) Header {
	spacing := make([]float32, len(size))
	for i := range spacing {
		spacing[i] = float32(math.NaN())
	}
	return Header{
		Geometry: models.Geometry{Size: append([]int(nil), size...), Spacing: spacing},
		Complex:  complex_,
	}
}

// Validate checks that every axis has a positive size.
func (h Header) Validate() error {
	if h.NDim() == 0 {
		return fmt.Errorf("voximage: header has no axes")
	}
	for a, s := range h.Size {
		if s < 1 {
			return fmt.Errorf("voximage: axis %d has non-positive size %d", a, s)
		}
	}
	return nil
}

// strides returns the row-major flat-index stride for each axis, axis
// 0 fastest-varying, matching the evaluator's inner-axis convention.
func (h Header) strides() []int {
	strides := make([]int, h.NDim())
	acc := 1
	for a := 0; a < h.NDim(); a++ {
		strides[a] = acc
		acc *= h.SizeAt(a)
	}
	return strides
}
