package stormlight

import (
	"sort"
)

// Span is one highlighted region of the document: a byte range, the style
// it resolved to, and the capture that produced it.
type Span struct {
	Range    Range
	Style    Style
	Category Category
	Capture  string
}

// sortSpans orders spans by start offset, wider first on ties, so an
// enclosing span always precedes the spans nested inside it.
func sortSpans(spans []Span) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Range.Start != spans[j].Range.Start {
			return spans[i].Range.Start < spans[j].Range.Start
		}
		return spans[i].Range.End > spans[j].Range.End
	})
}

// FlattenSpans resolves overlapping spans into non-overlapping runs, the
// innermost span winning wherever spans nest. Cell-oriented renderers want
// exactly one style per byte; Document.Spans deliberately preserves the
// nesting instead, so flattening is the renderer's call.
//
// The input must be sorted as Document.Spans returns it. Gaps between
// spans stay gaps.
func FlattenSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	type event struct {
		pos     ByteOffset
		isStart bool
		idx     int
	}

	events := make([]event, 0, len(spans)*2)
	for i := range spans {
		if spans[i].Range.IsEmpty() {
			continue
		}
		events = append(events,
			event{pos: spans[i].Range.Start, isStart: true, idx: i},
			event{pos: spans[i].Range.End, isStart: false, idx: i},
		)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].pos != events[j].pos {
			return events[i].pos < events[j].pos
		}
		if events[i].isStart != events[j].isStart {
			return !events[i].isStart
		}
		if events[i].isStart {
			return events[i].idx < events[j].idx
		}
		return events[i].idx > events[j].idx
	})

	var stack []int
	active := make([]bool, len(spans))
	var result []Span
	var lastPos ByteOffset
	top := -1

	flush := func(end ByteOffset) {
		if top >= 0 && end > lastPos {
			run := spans[top]
			run.Range = Range{Start: lastPos, End: end}
			result = append(result, run)
		}
	}

	for _, ev := range events {
		flush(ev.pos)

		if ev.isStart {
			stack = append(stack, ev.idx)
			active[ev.idx] = true
		} else {
			active[ev.idx] = false
			for len(stack) > 0 && !active[stack[len(stack)-1]] {
				stack = stack[:len(stack)-1]
			}
		}

		lastPos = ev.pos
		top = -1
		for i := len(stack) - 1; i >= 0; i-- {
			if active[stack[i]] {
				top = stack[i]
				break
			}
		}
	}
	return result
}
