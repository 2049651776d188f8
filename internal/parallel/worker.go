// Package parallel provides the internal worker pool used to saturate cores
// during O(n) and O(n log n) work: column materialization, casting, sorting
// buckets and per-group reducer evaluation.
//
// Three scheduling patterns are offered:
//   - static: Range splits rows into fixed chunks, one goroutine each;
//   - dynamic: Process/ProcessIndexed pull work items from a shared channel;
//   - ordered: OrderedRange releases chunk results strictly in index order.
//
// All of them are synchronous from the caller's perspective and deterministic
// for any worker count: outputs are written by index, never in completion
// order. Cancellation is cooperative, via an atomic flag polled at chunk
// boundaries; on cancellation partial results are discarded and a Cancelled
// error is returned.
package parallel

import (
	"sync"
	"sync/atomic"

	"github.com/coldframe/coldframe/internal/config"
	"github.com/coldframe/coldframe/internal/errors"
)

// Pool manages a fixed set of goroutine workers.
type Pool struct {
	numWorkers int
	cancelled  *atomic.Bool
}

// NewPool creates a pool of the given size with a private cancellation flag;
// size <= 0 uses the configured nthreads option (default hardware
// concurrency).
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = config.Get().EffectiveThreads()
	}
	return &Pool{numWorkers: numWorkers, cancelled: new(atomic.Bool)}
}

// interrupt is the process-wide cancellation flag observed by every pool
// returned from Shared. Engine operations run on shared pools, so a single
// Interrupt call reaches whichever computation is in flight.
var interrupt atomic.Bool

// Shared returns a pool sized from the current configuration whose
// cancellation flag is the process-wide interrupt.
func Shared() *Pool {
	return &Pool{numWorkers: config.Get().EffectiveThreads(), cancelled: &interrupt}
}

// Interrupt requests cooperative cancellation of work running on shared
// pools. In-flight operations stop at the next chunk boundary and return a
// Cancelled error; the flag stays set, failing subsequent operations fast,
// until ResetInterrupt clears it.
func Interrupt() { interrupt.Store(true) }

// ResetInterrupt clears the process-wide interrupt flag.
func ResetInterrupt() { interrupt.Store(false) }

// NumWorkers returns the pool size.
func (p *Pool) NumWorkers() int { return p.numWorkers }

// Cancel requests cooperative cancellation. Workers observe the flag at the
// next chunk boundary; the in-flight operation returns a Cancelled error.
func (p *Pool) Cancel() { p.cancelled.Store(true) }

// Cancelled reports whether cancellation has been requested.
func (p *Pool) Cancelled() bool { return p.cancelled.Load() }

// Reset clears the cancellation flag so the pool can be reused.
func (p *Pool) Reset() { p.cancelled.Store(false) }

// Range executes fn over [0, n) in static chunks. fn must only write state
// owned by its chunk. Returns a Cancelled error if Cancel was called before
// all chunks completed.
func (p *Pool) Range(op string, n, minChunk int, fn func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	workers := p.numWorkers
	if n < minChunk || workers <= 1 {
		if p.Cancelled() {
			return errors.NewCancelledError(op)
		}
		fn(0, n)
		return nil
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		if p.Cancelled() {
			break
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if p.Cancelled() {
				return
			}
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
	if p.Cancelled() {
		return errors.NewCancelledError(op)
	}
	return nil
}

// OrderedRange executes fn over [0, n) in chunks, then calls release for each
// chunk strictly in index order once the chunk and all earlier chunks have
// completed. Used when downstream steps depend on upstream completing in
// sequence, e.g. cumulative reducers across groups.
func (p *Pool) OrderedRange(op string, n, minChunk int, fn func(start, end int), release func(start, end int)) error {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	workers := p.numWorkers
	if n < minChunk || workers <= 1 {
		if p.Cancelled() {
			return errors.NewCancelledError(op)
		}
		fn(0, n)
		release(0, n)
		return nil
	}
	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	type span struct{ start, end int }
	var spans []span
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		spans = append(spans, span{start, end})
	}

	done := make([]chan struct{}, len(spans))
	for i := range done {
		done[i] = make(chan struct{})
	}
	var wg sync.WaitGroup
	for i, sp := range spans {
		wg.Add(1)
		go func(i int, sp span) {
			defer wg.Done()
			defer close(done[i])
			if p.Cancelled() {
				return
			}
			fn(sp.start, sp.end)
		}(i, sp)
	}

	// Release in index order as chunks finish.
	for i, sp := range spans {
		<-done[i]
		if p.Cancelled() {
			break
		}
		release(sp.start, sp.end)
	}
	wg.Wait()
	if p.Cancelled() {
		return errors.NewCancelledError(op)
	}
	return nil
}

// Process executes work items in parallel using a fan-out/fan-in pattern.
// Result order is unspecified; use ProcessIndexed when order matters.
func Process[T, R any](p *Pool, items []T, worker func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	itemCh := make(chan T, len(items))
	resultCh := make(chan R, len(items))

	var wg sync.WaitGroup
	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				if p.Cancelled() {
					return
				}
				resultCh <- worker(item)
			}
		}()
	}
	for _, item := range items {
		itemCh <- item
	}
	close(itemCh)
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]R, 0, len(items))
	for r := range resultCh {
		results = append(results, r)
	}
	return results
}

// ProcessIndexed executes work items in parallel and places each result at
// its input index, preserving order regardless of completion order.
func ProcessIndexed[T, R any](p *Pool, items []T, worker func(int, T) R) ([]R, error) {
	if len(items) == 0 {
		return nil, nil
	}
	type indexed struct {
		index int
		value T
	}
	itemCh := make(chan indexed, len(items))

	results := make([]R, len(items))
	var wg sync.WaitGroup
	for i := 0; i < p.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				if p.Cancelled() {
					return
				}
				results[item.index] = worker(item.index, item.value)
			}
		}()
	}
	for i, item := range items {
		itemCh <- indexed{index: i, value: item}
	}
	close(itemCh)
	wg.Wait()

	if p.Cancelled() {
		return nil, errors.NewCancelledError("ProcessIndexed")
	}
	return results, nil
}
