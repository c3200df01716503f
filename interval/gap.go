package interval

// NextGap returns the smallest s >= from such that [s, s+width) is vacant
// for tag (per CheckVacant's same-tag-coalesces rule), or false if no such
// s exists before limit (limit is exclusive: the returned window must fit
// entirely below limit).
//
// Used by gcl's query_later_vacant to find, one replica at a time, the next
// point a stream's window could shift to. Complexity: O(n) over stored
// intervals, each visited once while sliding the candidate start forward
// past blocking differently-tagged intervals.
func (m *Map) NextGap(from, width, limit int64, tag interface{}) (int64, bool) {
	if width <= 0 {
		return 0, false
	}

	s := from
	for {
		candidate := Range{Start: s, End: s + width}
		if candidate.End > limit {
			return 0, false
		}
		if m.CheckVacant(candidate, tag) {
			return s, true
		}

		// Advance s past the blocking interval: find the first
		// differently-tagged entry overlapping candidate and jump to its End.
		advanced := false
		idx := m.search(candidate.Start)
		if idx > 0 {
			pred := m.entries[idx-1]
			if pred.tag != tag && pred.rng.overlaps(candidate) {
				s = pred.rng.End
				advanced = true
			}
		}
		if !advanced {
			for i := idx; i < len(m.entries) && m.entries[i].rng.Start < candidate.End; i++ {
				if m.entries[i].tag != tag {
					s = m.entries[i].rng.End
					advanced = true

					break
				}
			}
		}
		if !advanced {
			// No blocker found yet candidate wasn't vacant: shouldn't
			// happen given CheckVacant's definition, but guard against an
			// infinite loop defensively.
			return 0, false
		}
	}
}
