package records

// Page slices records into fixed-size pages. Page numbers start at 1;
// an out-of-range page yields an empty slice rather than an error, so
// callers that clamp (or fail to) always get something renderable.
func Page(records []Record, pageSize, pageNumber int) []Record {
	if pageSize <= 0 || pageNumber <= 0 {
		return nil
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(records) {
		return nil
	}
	end := start + pageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
