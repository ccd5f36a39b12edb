package renderer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestNewChunks(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		size     int
		expected []Chunk
	}{
		{"Even split", 6, 3, []Chunk{{0, 0, 3}, {1, 3, 6}}},
		{"Remainder", 10, 4, []Chunk{{0, 0, 4}, {1, 4, 8}, {2, 8, 10}}},
		{"Single chunk", 5, 100, []Chunk{{0, 0, 5}}},
		{"Non-positive size", 5, 0, []Chunk{{0, 0, 5}}},
		{"Empty", 0, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewChunks(tt.total, tt.size)
			if len(chunks) != len(tt.expected) {
				t.Fatalf("Expected %d chunks, got %d", len(tt.expected), len(chunks))
			}
			for i := range chunks {
				if chunks[i] != tt.expected[i] {
					t.Errorf("Chunk %d: expected %+v, got %+v", i, tt.expected[i], chunks[i])
				}
			}
		})
	}
}

func TestWorkerPool_RunsEveryChunk(t *testing.T) {
	chunks := NewChunks(1000, 7)
	covered := make([]int32, 1000)

	pool := NewWorkerPool(4)
	err := pool.Run(context.Background(), chunks, func(c Chunk) error {
		for i := c.Start; i < c.End; i++ {
			atomic.AddInt32(&covered[i], 1)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i, n := range covered {
		if n != 1 {
			t.Fatalf("Pixel %d rendered %d times", i, n)
		}
	}
}

func TestWorkerPool_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	pool := NewWorkerPool(2)

	err := pool.Run(context.Background(), NewChunks(100, 10), func(c Chunk) error {
		if c.ID == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	if n := NewWorkerPool(0).NumWorkers(); n < 1 {
		t.Errorf("Expected at least one worker, got %d", n)
	}
	if n := NewWorkerPool(3).NumWorkers(); n != 3 {
		t.Errorf("Expected 3 workers, got %d", n)
	}
}
