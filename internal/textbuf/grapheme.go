package textbuf

import "github.com/rivo/uniseg"

// Grapheme helpers for byte-offset navigation. The buffer itself deals
// purely in bytes; callers that move a cursor or delete "one character"
// need boundaries that keep combining sequences and emoji intact.

// GraphemeCount returns the number of grapheme clusters in s.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// NextGraphemeBoundary returns the byte offset of the first grapheme
// boundary strictly after offset. If offset is at or past the end of s,
// len(s) is returned. Offsets inside a cluster snap to that cluster's
// end.
func NextGraphemeBoundary(s string, offset int) int {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(s) {
		return len(s)
	}

	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		cluster, tail, _, newState := uniseg.StepString(rest, state)
		pos += len(cluster)
		if pos > offset {
			return pos
		}
		rest = tail
		state = newState
	}
	return len(s)
}

// PrevGraphemeBoundary returns the byte offset of the last grapheme
// boundary strictly before offset. If offset is at or before the start
// of s, 0 is returned. Offsets inside a cluster snap to that cluster's
// start.
func PrevGraphemeBoundary(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(s) {
		offset = len(s)
	}

	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		cluster, tail, _, newState := uniseg.StepString(rest, state)
		next := pos + len(cluster)
		if next >= offset {
			return pos
		}
		pos = next
		rest = tail
		state = newState
	}
	return pos
}
