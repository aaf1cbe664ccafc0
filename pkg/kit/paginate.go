package kit

// Paginate slices the offset/limit window out of in. Offsets past the end
// yield an empty, non-nil slice. Overflowing limits clamp to the end.
func Paginate[T any](in []T, offset, limit int) []T {
	if offset >= len(in) {
		return []T{}
	}
	end := offset + limit
	if end > len(in) || end < 0 {
		end = len(in)
	}
	return in[offset:end]
}
