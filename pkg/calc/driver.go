package calc

import (
	"sync"
	"sync/atomic"
)

// ProgressCallback is invoked once per completed outer-axis tile, for
// a caller-supplied progress bar; nil disables reporting. This uses a
// worker pool that pulls from a job channel rather than spawning one
// goroutine per task, since the outer iteration space here can run far
// larger than a handful of subsets.
type ProgressCallback func(completed, total int)

// task is a single outer-axis coordinate to evaluate.
type task struct {
	iter []int
}

// RunParallel partitions the output's outer axes into tasks and
// evaluates them across a bounded worker pool. newCursor must produce
// a fresh, independently-positioned write cursor over the same backing
// storage for every worker — a clone sharing storage, not a copy of
// it. seedFor derives each worker's random seed from its index, so
// draws never collide.
func RunParallel(
	root *Node,
	outerAxes []int,
	outerSizes []int,
	innerAxes [2]int,
	shape tileShape,
	outputIsComplex bool,
	numWorkers int,
	newCursor func() VoxelWriteCursor,
	seedFor func(worker int) uint64,
	progress ProgressCallback,
	cancelled func() bool,
) error {
	tasks := enumerateTasks(outerAxes, outerSizes)
	total := len(tasks)
	if total == 0 {
		// No outer axes at all (ndim <= 2): a single tile covers the
		// whole output.
		tasks = []task{{iter: nil}}
		total = 1
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > total {
		numWorkers = total
	}

	jobs := make(chan task)
	stop := make(chan struct{})
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
		mu       sync.Mutex
		done     int64
	)

	// setErr records only the first worker error and closes stop so
	// every other worker (and the sender below) abandons its remaining
	// tasks; in-flight tiles still finish, nothing still queued starts.
	setErr := func(err error) {
		errOnce.Do(func() {
			mu.Lock()
			firstErr = err
			mu.Unlock()
			close(stop)
		})
	}

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		worker := w
		go func() {
			defer wg.Done()
			s := newScratch(root, shape, newCursor(), seedFor(worker))
			for t := range jobs {
				select {
				case <-stop:
					continue
				default:
				}
				if cancelled != nil && cancelled() {
					continue
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							setErr(panicToError(r))
						}
					}()
					s.refresh(t.iter, innerAxes)
					s.writeTile(root, t.iter, innerAxes, outputIsComplex)
				}()
				if progress != nil {
					n := atomic.AddInt64(&done, 1)
					progress(int(n), total)
				}
			}
		}()
	}

sendLoop:
	for _, t := range tasks {
		select {
		case jobs <- t:
		case <-stop:
			break sendLoop
		}
	}
	close(jobs)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	return firstErr
}

// enumerateTasks produces the cartesian product of the outer axes'
// index ranges, one task per outer coordinate.
func enumerateTasks(outerAxes []int, outerSizes []int) []task {
	if len(outerAxes) == 0 {
		return nil
	}

	ndim := 0
	for _, a := range outerAxes {
		if a+1 > ndim {
			ndim = a + 1
		}
	}

	var tasks []task
	idx := make([]int, len(outerAxes))
	for {
		iter := make([]int, ndim)
		for i, a := range outerAxes {
			iter[a] = idx[i]
		}
		tasks = append(tasks, task{iter: iter})

		pos := len(outerAxes) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < outerSizes[outerAxes[pos]] {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return tasks
}

func panicToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &IOError{Path: "<worker>", Err: errRecovered{r}}
}

type errRecovered struct{ v interface{} }

func (e errRecovered) Error() string { return "panic recovered in worker" }
