package calc

// tileShape is the chunk capacity along each inner axis: every image or
// random leaf's chunk holds rows*cols scalars. The buffer is allocated
// afresh for each tile; it is not pooled across tiles.
type tileShape struct {
	rows, cols int // inner axis 0 (rows, fastest), inner axis 1 (cols)
}

// scratch is one worker's private evaluation state: one chunk slot per
// leaf node, in the traversal order used by the evaluator, plus a
// cloned output cursor and random stream, both exclusively owned for
// this worker's lifetime.
type scratch struct {
	shape   tileShape
	leaves  []*Node        // leaves in traversal order, for index stability
	slots   map[*Node]Chunk // current tile's content per leaf
	cursors map[*Node]VoxelCursor
	rand    *randomStream
	out     VoxelWriteCursor
}

// VoxelWriteCursor extends VoxelCursor with the ability to write,
// satisfied by voximage's concrete cursor type.
type VoxelWriteCursor interface {
	VoxelCursor
	SetValue(v Scalar)
}

// newScratch allocates one worker's scratch, pre-creating a cursor per
// image leaf. Chunk buffers are not created here: refresh allocates a
// new one per image or random leaf on every tile.
func newScratch(root *Node, shape tileShape, out VoxelWriteCursor, seed uint64) *scratch {
	s := &scratch{
		shape:   shape,
		slots:   make(map[*Node]Chunk),
		cursors: make(map[*Node]VoxelCursor),
		rand:    newRandomStream(seed),
		out:     out,
	}
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Kind {
		case KindImage:
			if _, ok := s.cursors[n]; !ok {
				s.cursors[n] = n.Image.Source.NewCursor()
				s.leaves = append(s.leaves, n)
			}
		case KindRandom:
			if _, ok := s.slots[n]; !ok {
				s.leaves = append(s.leaves, n)
			}
		case KindOperator:
			for _, c := range n.Children {
				walk(c)
			}
		}
	}
	walk(root)
	return s
}

// refresh repositions every image-leaf cursor for the outer index
// iter and draws fresh values for every random leaf, filling each
// leaf's chunk for the upcoming tile.
func (s *scratch) refresh(iter []int, innerAxes [2]int) {
	for _, leaf := range s.leaves {
		switch leaf.Kind {
		case KindImage:
			s.fillImageChunk(leaf, iter, innerAxes)
		case KindRandom:
			s.fillRandomChunk(leaf)
		}
	}
}

func (s *scratch) fillImageChunk(leaf *Node, iter []int, innerAxes [2]int) {
	cursor := s.cursors[leaf]
	src := leaf.Image.Source

	ndim := src.NDim()

	for a, idx := range iter {
		if a == innerAxes[0] || a == innerAxes[1] || a >= ndim {
			continue
		}
		if src.Size(a) > 1 {
			cursor.SetIndex(a, idx)
		} else {
			cursor.SetIndex(a, 0)
		}
	}

	rowBroadcast := innerAxes[0] < 0 || innerAxes[0] >= ndim || src.Size(innerAxes[0]) <= 1
	colBroadcast := innerAxes[1] < 0 || innerAxes[1] >= ndim || src.Size(innerAxes[1]) <= 1

	if rowBroadcast && colBroadcast {
		if innerAxes[0] >= 0 && innerAxes[0] < ndim {
			cursor.SetIndex(innerAxes[0], 0)
		}
		if innerAxes[1] >= 0 && innerAxes[1] < ndim {
			cursor.SetIndex(innerAxes[1], 0)
		}
		s.slots[leaf] = broadcastChunk(cursor.Value())
		return
	}

	data := make([]Scalar, s.shape.rows*s.shape.cols)
	for col := 0; col < s.shape.cols; col++ {
		if innerAxes[1] >= 0 && innerAxes[1] < ndim {
			if colBroadcast {
				cursor.SetIndex(innerAxes[1], 0)
			} else {
				cursor.SetIndex(innerAxes[1], col)
			}
		}
		for row := 0; row < s.shape.rows; row++ {
			if innerAxes[0] >= 0 && innerAxes[0] < ndim {
				if rowBroadcast {
					cursor.SetIndex(innerAxes[0], 0)
				} else {
					cursor.SetIndex(innerAxes[0], row)
				}
			}
			data[col*s.shape.rows+row] = cursor.Value()
		}
	}
	s.slots[leaf] = Chunk{Data: data}
}

func (s *scratch) fillRandomChunk(leaf *Node) {
	n := s.shape.rows * s.shape.cols
	data := make([]Scalar, n)
	for i := range data {
		data[i] = s.rand.draw(leaf.Random)
	}
	s.slots[leaf] = Chunk{Data: data}
}

// evaluate recursively computes n's chunk for the current tile.
// Scalar leaves need no per-tile work: their slot is just a broadcast
// of their folded value.
func (s *scratch) evaluate(n *Node) Chunk {
	switch n.Kind {
	case KindScalar:
		return broadcastChunk(n.Value)
	case KindImage, KindRandom:
		return s.slots[n]
	default:
		return s.evaluateOperator(n)
	}
}

// evaluateOperator applies n's R or Z kernel element-wise, reusing the
// leftmost non-broadcast child chunk as the output buffer in place.
func (s *scratch) evaluateOperator(n *Node) Chunk {
	children := make([]Chunk, len(n.Children))
	for i, c := range n.Children {
		children[i] = s.evaluate(c)
	}

	length := 0
	dest := -1
	for i, c := range children {
		if !c.Broadcast() {
			length = c.Len()
			if dest < 0 {
				dest = i
			}
		}
	}

	if dest < 0 {
		return broadcastChunk(applyKernel(n, children, -1))
	}

	out := children[dest].Data
	args := make([]Scalar, len(children))
	for i := 0; i < length; i++ {
		for j, c := range children {
			args[j] = c.At(i)
		}
		out[i] = applyScalarKernel(n, args)
	}
	return Chunk{Data: out}
}

// applyKernel evaluates n's kernel once over broadcast-only children
// (every child a constant), producing a single scalar.
func applyKernel(n *Node, children []Chunk, _ int) Scalar {
	args := make([]Scalar, len(children))
	for i, c := range children {
		args[i] = c.Value
	}
	return applyScalarKernel(n, args)
}

// applyScalarKernel dispatches to n.Op's R or Z kernel per the cached
// anyOperandComplex bit: dispatch always comes from cached bits, never
// from runtime operand values.
func applyScalarKernel(n *Node, args []Scalar) Scalar {
	if !n.anyOperandComplex {
		reals := make([]float32, len(args))
		for i, a := range args {
			reals[i] = real32(a)
		}
		return n.Op.R(reals)
	}
	return n.Op.Z(args)
}

func real32(v Scalar) float32 { return real(v) }

// writeTile writes the root's evaluated chunk into the output cursor
// over the inner tile, casting complex→real at write time when the
// output datatype is real.
func (s *scratch) writeTile(root *Node, iter []int, innerAxes [2]int, outputIsComplex bool) {
	chunk := s.evaluate(root)

	for a, idx := range iter {
		if a == innerAxes[0] || a == innerAxes[1] {
			continue
		}
		s.out.SetIndex(a, idx)
	}

	for col := 0; col < s.shape.cols; col++ {
		if innerAxes[1] >= 0 {
			s.out.SetIndex(innerAxes[1], col)
		}
		for row := 0; row < s.shape.rows; row++ {
			if innerAxes[0] >= 0 {
				s.out.SetIndex(innerAxes[0], row)
			}
			v := chunk.At(col*s.shape.rows + row)
			if !outputIsComplex {
				v = complex(real(v), 0)
			}
			s.out.SetValue(v)
		}
	}
}
