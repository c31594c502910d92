package utils

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// DefaultPoolSize is twice the number of usable CPUs, never less than one.
func DefaultPoolSize() int {
	return MaxInt(1, 2*runtime.GOMAXPROCS(0))
}

type (
	// BatchWorkFunc processes work item i. It may be called concurrently with other items of the
	// same batch.
	BatchWorkFunc func(i int) error
	// BatchDoneFunc runs on the dispatching goroutine after each batch has been joined.
	BatchDoneFunc func(done, total int)
)

// RunBatches processes the items 0..total-1 in consecutive batches of at most poolSize items. Every
// item of a batch runs on its own goroutine and the batch is joined before the next one starts, so
// at most poolSize items are in flight at any time. A non-positive poolSize means DefaultPoolSize.
//
// A returned error or a panic in any item is collected at the join. All collected errors are
// returned combined and no further batches are dispatched.
func RunBatches(total, poolSize int, work BatchWorkFunc, onBatch BatchDoneFunc) error {
	if total <= 0 {
		return nil
	}
	if poolSize <= 0 {
		poolSize = DefaultPoolSize()
	}

	done := 0
	for _, batch := range lo.Chunk(lo.Range(total), poolSize) {
		errs := make([]error, len(batch))
		var wg sync.WaitGroup
		wg.Add(len(batch))
		for slot, item := range batch {
			// Done is called from the callback on panic since the deferred recover runs after f
			// has unwound.
			goutils.PanicCapturingGoWithCallback(func() {
				errs[slot] = work(item)
				wg.Done()
			}, func(thePanic interface{}) {
				errs[slot] = errors.Errorf("panic processing item %d: %v", item, thePanic)
				wg.Done()
			})
		}
		wg.Wait()

		done += len(batch)
		if onBatch != nil {
			onBatch(done, total)
		}
		if err := multierr.Combine(errs...); err != nil {
			return err
		}
	}
	return nil
}
