package collect

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PartitionFunc runs one partition of trials for the given worker index
// and returns that worker's results.
type PartitionFunc func(worker, trials int) ([]int, error)

// Executor maps a PartitionFunc over a partition list and merges every
// partition's results into one slice. Result order is unspecified.
type Executor interface {
	Execute(parts []int, fn PartitionFunc) ([]int, error)
}

// Parallel runs one goroutine per partition. Each goroutine appends its whole
// batch to the shared slice under a single lock acquisition.
// Any worker error or panic fails the whole execution.
type Parallel struct{}

func (Parallel) Execute(parts []int, fn PartitionFunc) ([]int, error) {
	total := 0
	for _, n := range parts {
		total += n
	}

	var (
		mu      sync.Mutex
		results = make([]int, 0, total)
		g       errgroup.Group
	)
	for w, n := range parts {
		g.Go(func() error {
			local, err := runPartition(fn, w, n)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Sequential runs partitions one after another on the calling goroutine.
// With a fixed seed its output order is deterministic too. A panicking
// partition fails the execution the same way it does under Parallel.
type Sequential struct{}

func (Sequential) Execute(parts []int, fn PartitionFunc) ([]int, error) {
	var results []int
	for w, n := range parts {
		local, err := runPartition(fn, w, n)
		if err != nil {
			return nil, err
		}
		results = append(results, local...)
	}
	return results, nil
}

// runPartition calls fn for worker w and turns a panic into an error.
func runPartition(fn PartitionFunc, w, n int) (local []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			local, err = nil, fmt.Errorf("worker %d panicked: %v", w, r)
		}
	}()
	local, err = fn(w, n)
	if err != nil {
		return nil, fmt.Errorf("worker %d: %w", w, err)
	}
	return local, nil
}

// Partition splits n trials over w workers: the first w-1 get n/w each and
// the last one takes the remainder, so the parts always sum to n.
func Partition(n, w int) []int {
	if w <= 0 {
		return nil
	}
	per := n / w
	parts := make([]int, w)
	for i := 0; i < w-1; i++ {
		parts[i] = per
	}
	parts[w-1] = n - per*(w-1)
	return parts
}
