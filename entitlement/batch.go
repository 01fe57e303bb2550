package entitlement

// DefaultBatchSize is the per-call holder ceiling of the surrounding
// operator transport. Plans larger than this must be applied across
// multiple calls.
const DefaultBatchSize = 14

// Chunk partitions a plan into batches of at most size entries, preserving
// canonical order. A size of zero or less falls back to DefaultBatchSize.
// Batches are views into the original plan, not copies.
func Chunk(p Plan, size int) []Plan {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if len(p) == 0 {
		return nil
	}

	batches := make([]Plan, 0, (len(p)+size-1)/size)
	for start := 0; start < len(p); start += size {
		end := start + size
		if end > len(p) {
			end = len(p)
		}
		batches = append(batches, p[start:end])
	}
	return batches
}
