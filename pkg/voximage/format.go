package voximage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// magic identifies this package's voxel container format on disk.
// There is no ambition here beyond "a format this package can read
// back"; real image formats (NIfTI, MRtrix .mif, …) are out of scope.
const magic uint32 = 0x5658_4c43 // "VXLC"

// Open reads an image from path, the way mrcalc's own operand
// resolution probes a candidate token as a filesystem path before
// falling back to reserved words or a numeric literal.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var m uint32
	if err := binary.Read(r, binary.LittleEndian, &m); err != nil {
		return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
	}
	if m != magic {
		return nil, fmt.Errorf("voximage: %s is not a voxel image", path)
	}

	var ndim uint32
	if err := binary.Read(r, binary.LittleEndian, &ndim); err != nil {
		return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
	}

	size := make([]int, ndim)
	spacing := make([]float32, ndim)
	for a := range size {
		var sz uint32
		if err := binary.Read(r, binary.LittleEndian, &sz); err != nil {
			return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
		}
		size[a] = int(sz)
	}
	for a := range spacing {
		if err := binary.Read(r, binary.LittleEndian, &spacing[a]); err != nil {
			return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
		}
	}

	var isComplex uint8
	if err := binary.Read(r, binary.LittleEndian, &isComplex); err != nil {
		return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
	}

	hdr := NewHeader(size, isComplex != 0)
	hdr.Spacing = spacing

	img, err := New(hdr)
	if err != nil {
		return nil, fmt.Errorf("voximage: %s: %w", path, err)
	}
	img.path = path

	for i := range img.data {
		var re float32
		if err := binary.Read(r, binary.LittleEndian, &re); err != nil {
			return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
		}
		im := float32(0)
		if hdr.Complex {
			if err := binary.Read(r, binary.LittleEndian, &im); err != nil {
				return nil, fmt.Errorf("voximage: reading %s: %w", path, err)
			}
		}
		img.data[i] = complex(re, im)
	}

	return img, nil
}

// Create allocates a new in-memory image with the given header, bound
// to path; nothing is written to disk until Flush. force controls
// whether an existing file at path may be overwritten, the behaviour
// the engine's "force" option governs.
func Create(path string, hdr Header, force bool) (*Image, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("voximage: %s already exists (use force to overwrite)", path)
		}
	}
	img, err := New(hdr)
	if err != nil {
		return nil, err
	}
	img.path = path
	return img, nil
}

// Flush writes the image's current contents to its path. Calling
// Flush on an image with no path is a no-op, so calculator-mode runs
// (which never create an output image) don't need special-casing.
func (img *Image) Flush() error {
	if img.path == "" {
		return nil
	}

	f, err := os.Create(img.path)
	if err != nil {
		return fmt.Errorf("voximage: creating %s: %w", img.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := binary.Write(w, binary.LittleEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(img.hdr.NDim())); err != nil {
		return err
	}
	for _, s := range img.hdr.Size {
		if err := binary.Write(w, binary.LittleEndian, uint32(s)); err != nil {
			return err
		}
	}
	for _, s := range img.hdr.Spacing {
		sp := s
		if math.IsNaN(float64(sp)) {
			sp = 0
		}
		if err := binary.Write(w, binary.LittleEndian, sp); err != nil {
			return err
		}
	}
	isComplex := uint8(0)
	if img.hdr.Complex {
		isComplex = 1
	}
	if err := binary.Write(w, binary.LittleEndian, isComplex); err != nil {
		return err
	}

	for _, v := range img.data {
		if err := binary.Write(w, binary.LittleEndian, real(v)); err != nil {
			return err
		}
		if img.hdr.Complex {
			if err := binary.Write(w, binary.LittleEndian, imag(v)); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

// Remove deletes the file backing this image, if any. Used on the
// evaluation-failure path, where no partial output is left usable.
func (img *Image) Remove() error {
	if img.path == "" {
		return nil
	}
	err := os.Remove(img.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
