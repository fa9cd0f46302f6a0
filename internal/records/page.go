package records

// Page returns the window of recs for a 1-based page of perPage entries.
// A non-positive perPage means no paging; a page past the end is empty.
func Page(recs []Record, page, perPage int) []Record {
	if perPage <= 0 {
		return recs
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	if start >= len(recs) {
		return []Record{}
	}
	end := start + perPage
	if end > len(recs) {
		end = len(recs)
	}
	return recs[start:end]
}
