package kit

import (
	"testing"

	"golang.org/x/sync/errgroup"
)

func TestSequenceStartsAtOne(t *testing.T) {
	var s Sequence
	if got := s.Next(); got != 1 {
		t.Fatalf("first Next() = %d, want 1", got)
	}
	if got := s.Next(); got != 2 {
		t.Fatalf("second Next() = %d, want 2", got)
	}
}

func TestSequenceConcurrentUnique(t *testing.T) {
	var s Sequence

	const n = 500
	ids := make(chan int64, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			ids <- s.Next()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	close(ids)

	seen := make(map[int64]struct{}, n)
	for id := range ids {
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		if id < 1 || id > n {
			t.Fatalf("id %d out of range [1,%d]", id, n)
		}
		seen[id] = struct{}{}
	}
}
