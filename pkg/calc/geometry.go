package calc

import "math"

// computeGeometry derives the output geometry from the set of image
// leaves referenced anywhere in the tree: per-axis max size
// (broadcasting compatible) and the first finite spacing seen on each
// axis. A nil/empty leaves slice yields the degenerate empty geometry
// (calculator mode never calls this).
func computeGeometry(leaves []*ImageLeaf) (size []int, spacing []float32, err error) {
	if len(leaves) == 0 {
		return nil, nil, nil
	}

	ndim := 0
	for _, leaf := range leaves {
		if n := leaf.Source.NDim(); n > ndim {
			ndim = n
		}
	}

	size = make([]int, ndim)
	spacing = make([]float32, ndim)
	for a := range spacing {
		spacing[a] = float32(math.NaN())
	}

	for a := 0; a < ndim; a++ {
		maxSize := 1
		for _, leaf := range leaves {
			if a >= leaf.Source.NDim() {
				continue
			}
			if s := leaf.Source.Size(a); s > maxSize {
				maxSize = s
			}
		}
		size[a] = maxSize

		for _, leaf := range leaves {
			if a >= leaf.Source.NDim() {
				continue
			}
			if sp := leaf.Source.Spacing(a); !math.IsNaN(float64(sp)) && !math.IsInf(float64(sp), 0) {
				spacing[a] = sp
				break
			}
		}
	}

	for a := 0; a < ndim; a++ {
		for _, leaf := range leaves {
			if a >= leaf.Source.NDim() {
				continue
			}
			leafSize := leaf.Source.Size(a)
			if leafSize != 1 && leafSize != size[a] {
				return nil, nil, &GeometryMismatchError{
					Axis:  a,
					Size1: leafSize,
					Size2: size[a],
					Path1: leaf.Source.Path(),
					Path2: "<output>",
				}
			}
		}
	}

	return size, spacing, nil
}

// collectLeaves gathers every distinct image leaf reachable from root
// (random and scalar leaves carry no geometry).
func collectLeaves(root *Node) []*ImageLeaf {
	seen := make(map[*ImageLeaf]bool)
	var out []*ImageLeaf
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Kind {
		case KindImage:
			if !seen[n.Image] {
				seen[n.Image] = true
				out = append(out, n.Image)
			}
		case KindOperator:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}
