// Package voximage is a minimal N-dimensional voxel image container
// exposing a random-access cursor contract ("cursor.index(axis, i)",
// "cursor.value()"). It carries no format negotiation, no compression
// and no metadata beyond what the calculator engine needs — real image
// format I/O (NIfTI, MRtrix .mif, …) is a separate concern; this
// package exists only so the engine has a real contract to compile and
// test against.
//
// The on-disk layout is written with encoding/binary
// (binary.Write/binary.LittleEndian): a small fixed header precedes a
// flat, row-major voxel payload.
package voximage

import (
	"github.com/rdpauw/mrtrix3/internal/models"
)

// Image is a flat, row-major, axis-0-fastest N-dimensional voxel
// buffer backed (optionally) by a file on disk.
type Image struct {
	path    string
	hdr     Header
	strides []int
	data    []complex64
}

// New allocates an in-memory image with the given header, all voxels
// zero. Used both by Create (before Flush) and directly by tests that
// never touch disk.
func New(hdr Header) (*Image, error) {
	if err := hdr.Validate(); err != nil {
		return nil, err
	}
	return &Image{
		hdr:     hdr,
		strides: hdr.strides(),
		data:    make([]complex64, hdr.Voxels()),
	}, nil
}

// Header returns this image's geometry and datatype.
func (img *Image) Header() Header { return img.hdr }

// NDim, Size, Spacing and IsComplex satisfy the minimal ImageSource
// contract pkg/calc's leaf resolution depends on.
func (img *Image) NDim() int                 { return img.hdr.NDim() }
func (img *Image) Size(axis int) int         { return img.hdr.SizeAt(axis) }
func (img *Image) Spacing(axis int) float32  { return img.hdr.SpacingAt(axis) }
func (img *Image) IsComplex() bool           { return img.hdr.Complex }
func (img *Image) Path() string              { return img.path }
func (img *Image) Geometry() models.Geometry { return img.hdr.Geometry }

// NewCursor returns an independent read cursor over this image's
// shared backing storage. Per-thread cursors are cheap: just a small
// index slice pointing at the same data, a clone sharing the backing
// storage rather than a copy of it.
func (img *Image) NewCursor() *Cursor {
	return &Cursor{img: img, idx: make([]int, img.hdr.NDim())}
}

// Set writes a single voxel directly, bypassing a cursor. Used by
// tests and by Open/Create-adjacent fixture helpers.
func (img *Image) Set(flat int, v complex64) { img.data[flat] = v }

// At reads a single voxel directly by flat row-major index.
func (img *Image) At(flat int) complex64 { return img.data[flat] }

// Len returns the total voxel count.
func (img *Image) Len() int { return len(img.data) }

// Cursor is a per-thread random-access cursor into an Image. It
// satisfies both pkg/calc's VoxelCursor (read) and VoxelWriteCursor
// (read+write) structural interfaces.
type Cursor struct {
	img *Image
	idx []int
}

// SetIndex positions the cursor at index i along axis.
func (c *Cursor) SetIndex(axis, i int) {
	c.idx[axis] = i
}

func (c *Cursor) flat() int {
	off := 0
	for a, s := range c.img.strides {
		off += c.idx[a] * s
	}
	return off
}

// Value returns the voxel at the cursor's current position.
func (c *Cursor) Value() complex64 { return c.img.data[c.flat()] }

// SetValue writes the voxel at the cursor's current position.
func (c *Cursor) SetValue(v complex64) { c.img.data[c.flat()] = v }
