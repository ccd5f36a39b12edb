package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Chunk is a contiguous range of pixel indices [Start, End)
type Chunk struct {
	ID    int
	Start int
	End   int
}

// Len returns the number of pixels in the chunk
func (c Chunk) Len() int {
	return c.End - c.Start
}

// NewChunks splits [0, total) into consecutive chunks of at most size pixels
func NewChunks(total, size int) []Chunk {
	if total <= 0 {
		return nil
	}
	if size <= 0 {
		size = total
	}

	chunks := make([]Chunk, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		chunks = append(chunks, Chunk{
			ID:    len(chunks),
			Start: start,
			End:   min(start+size, total),
		})
	}
	return chunks
}

// WorkerPool runs chunk tasks on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Run calls task for every chunk and waits for all of them. Chunks that have
// not started when ctx is done are skipped and ctx.Err() is returned. The first
// task error cancels the remaining chunks.
func (wp *WorkerPool) Run(ctx context.Context, chunks []Chunk, task func(Chunk) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	for _, chunk := range chunks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(chunk)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
