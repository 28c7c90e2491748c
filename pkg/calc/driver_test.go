package calc

import (
	"sync"
	"testing"
)

func TestEnumerateTasksCartesianProduct(t *testing.T) {
	tasks := enumerateTasks([]int{2}, []int{2, 2, 3})
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
	for i, tk := range tasks {
		if tk.iter[2] != i {
			t.Errorf("tasks[%d].iter[2] = %d, want %d", i, tk.iter[2], i)
		}
	}
}

func TestEnumerateTasksNoOuterAxes(t *testing.T) {
	if tasks := enumerateTasks(nil, nil); tasks != nil {
		t.Errorf("enumerateTasks(nil) = %v, want nil", tasks)
	}
}

// memCursor is a minimal in-memory VoxelWriteCursor for driver tests:
// a flat buffer addressed the same way voximage.Cursor addresses
// *Image (row-major, axis 0 fastest), guarded by a mutex since
// multiple worker goroutines share the backing slice (writes target
// disjoint cells by construction, but the race detector does not know
// that, so the mutex keeps the test race-clean without changing the
// semantics under test).
type memCursor struct {
	mu      *sync.Mutex
	data    []Scalar
	strides []int
	idx     []int
}

func newMemCursor(mu *sync.Mutex, data []Scalar, size []int) *memCursor {
	strides := make([]int, len(size))
	acc := 1
	for a, s := range size {
		strides[a] = acc
		acc *= s
	}
	return &memCursor{mu: mu, data: data, strides: strides, idx: make([]int, len(size))}
}

func (c *memCursor) SetIndex(axis, i int) { c.idx[axis] = i }
func (c *memCursor) flat() int {
	f := 0
	for a, i := range c.idx {
		f += i * c.strides[a]
	}
	return f
}
func (c *memCursor) Value() Scalar {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[c.flat()]
}
func (c *memCursor) SetValue(v Scalar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[c.flat()] = v
}

func TestRunParallelFillsConstantExpression(t *testing.T) {
	root := newScalarNode(complex(float32(7), 0))

	size := []int{2, 2, 2}
	total := 8
	data := make([]Scalar, total)
	var mu sync.Mutex

	err := RunParallel(
		root,
		[]int{2}, size,
		[2]int{0, 1},
		tileShape{rows: 2, cols: 2},
		false,
		2,
		func() VoxelWriteCursor { return newMemCursor(&mu, data, size) },
		func(w int) uint64 { return uint64(w) + 1 },
		nil,
		nil,
	)
	if err != nil {
		t.Fatalf("RunParallel: %v", err)
	}
	for i, v := range data {
		if v != complex(float32(7), 0) {
			t.Errorf("data[%d] = %v, want 7", i, v)
		}
	}
}
