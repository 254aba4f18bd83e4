package upgma

import (
	"sync"
	"sync/atomic"
)

// parallelRows calls fn over contiguous row ranges covering [0, n), one
// range per worker, and waits for all of them. Workers must write only to
// slots owned by their own rows. With numWorkers <= 1 it calls fn(0, n)
// on the calling goroutine.
func parallelRows(n, numWorkers int, fn func(start, end int)) {
	if numWorkers <= 1 || n <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}

// parallelRowsDynamic is parallelRows for rows of uneven cost: workers pull
// chunks of chunkSize rows from a shared counter until [0, n) is exhausted.
// Lower-triangle scans use it since row r costs O(r).
func parallelRowsDynamic(n, numWorkers, chunkSize int, fn func(start, end int)) {
	if numWorkers <= 1 || n <= chunkSize {
		fn(0, n)
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				start := int(next.Add(int64(chunkSize))) - chunkSize
				if start >= n {
					return
				}
				fn(start, min(start+chunkSize, n))
			}
		}()
	}

	wg.Wait()
}
