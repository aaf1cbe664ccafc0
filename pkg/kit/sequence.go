package kit

import "sync/atomic"

// Sequence hands out increasing int64 IDs starting at 1. An ID is consumed
// the moment Next returns it; callers that fail afterwards leave a gap,
// never a reuse.
type Sequence struct {
	n atomic.Int64
}

func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}
