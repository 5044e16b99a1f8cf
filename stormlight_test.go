package stormlight

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

// identGrammar compiles a one-capture query so span content is fully
// predictable, independent of the bundled highlight query.
func identGrammar(t *testing.T) *Grammar {
	t.Helper()
	g, err := NewGrammar("python", pythonLanguage(t), "(identifier) @variable")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}
	return g
}

func mustNew(t *testing.T, text string, g *Grammar, opts ...Option) *Document {
	t.Helper()
	doc, err := New(text, g, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if doc.Degraded() {
		t.Fatalf("document degraded after construction")
	}
	return doc
}

func spanRanges(spans []Span) []Range {
	out := make([]Range, len(spans))
	for i, s := range spans {
		out[i] = s.Range
	}
	return out
}

func assertSpanRanges(t *testing.T, spans []Span, want ...Range) {
	t.Helper()
	got := spanRanges(spans)
	if len(got) != len(want) {
		t.Fatalf("got %d spans %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNewNilGrammar(t *testing.T) {
	_, err := New("x\n", nil)
	if !errors.Is(err, ErrNoLanguage) {
		t.Fatalf("got %v, want ErrNoLanguage", err)
	}
}

func TestNewHighlightsPython(t *testing.T) {
	const src = "def greet(name):\n    return \"hi \" + name\n"

	doc := mustNew(t, src, pythonGrammar(t))

	spans := doc.Spans()
	if len(spans) == 0 {
		t.Fatal("no spans for python source")
	}
	for i, s := range spans {
		if s.Range.IsEmpty() {
			t.Errorf("span %d is empty: %s", i, s.Range)
		}
		if s.Range.Start < 0 || s.Range.End > doc.Len() {
			t.Errorf("span %d out of bounds: %s in %d bytes", i, s.Range, doc.Len())
		}
		if s.Capture == "" {
			t.Errorf("span %d has no capture name", i)
		}
		if i > 0 {
			prev := spans[i-1]
			if s.Range.Start < prev.Range.Start ||
				(s.Range.Start == prev.Range.Start && s.Range.End > prev.Range.End) {
				t.Errorf("spans out of order: %s before %s", prev.Range, s.Range)
			}
		}
	}

	// Whatever else the bundled query captures, the string literal is
	// highlighted.
	lit := ByteOffset(strings.Index(src, `"hi "`))
	covered := false
	for _, s := range spans {
		if s.Range.Contains(lit) {
			covered = true
			break
		}
	}
	if !covered {
		t.Errorf("no span covers the string literal at offset %d", lit)
	}
}

func TestDocumentSpans(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	spans := doc.Spans()
	assertSpanRanges(t, spans, NewRange(0, 1), NewRange(4, 5))
	for i, s := range spans {
		if s.Capture != "variable" {
			t.Errorf("span %d capture: got %q, want %q", i, s.Capture, "variable")
		}
		if s.Category != CategoryVariable {
			t.Errorf("span %d category: got %v, want %v", i, s.Category, CategoryVariable)
		}
		if got := s.Style.Foreground.Hex(); got != "#61afef" {
			t.Errorf("span %d foreground: got %q, want %q", i, got, "#61afef")
		}
	}

	// Reading again without an intervening edit gives identical spans.
	again := doc.Spans()
	if len(again) != len(spans) {
		t.Fatalf("second read: %d spans, want %d", len(again), len(spans))
	}
	for i := range spans {
		if again[i] != spans[i] {
			t.Errorf("second read span %d: got %+v, want %+v", i, again[i], spans[i])
		}
	}
}

func TestNumberStyle(t *testing.T) {
	g, err := NewGrammar("python", pythonLanguage(t), "(integer) @number")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}
	doc := mustNew(t, "x = 1", g)

	spans := doc.Spans()
	assertSpanRanges(t, spans, NewRange(4, 5))
	if spans[0].Category != CategoryNumber {
		t.Errorf("category: got %v, want CategoryNumber", spans[0].Category)
	}
	want, ok := doc.Theme().Resolve(CategoryNumber)
	if !ok {
		t.Fatal("default theme hides the number category")
	}
	if !spans[0].Style.Equals(want) {
		t.Errorf("style: got %+v, want the theme's number style", spans[0].Style)
	}
}

func TestEditRehighlights(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	// Replacing the identifier with a number removes its capture.
	res, err := doc.Edit(NewRange(4, 5), "1")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got := doc.Text(); got != "x = 1\n" {
		t.Fatalf("text after edit: %q", got)
	}
	if res.OldText != "y" {
		t.Errorf("OldText: got %q, want %q", res.OldText, "y")
	}
	if res.NewRange != NewRange(4, 5) {
		t.Errorf("NewRange: got %s, want %s", res.NewRange, NewRange(4, 5))
	}
	assertSpanRanges(t, doc.Spans(), NewRange(0, 1))

	// And back again.
	if _, err := doc.Edit(NewRange(4, 5), "w"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	assertSpanRanges(t, doc.Spans(), NewRange(0, 1), NewRange(4, 5))
}

func TestEditShiftsFollowingSpans(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	if _, err := doc.Insert(0, "z = w\n"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := doc.Text(); got != "z = w\nx = y\n" {
		t.Fatalf("text after insert: %q", got)
	}
	assertSpanRanges(t, doc.Spans(),
		NewRange(0, 1), NewRange(4, 5), NewRange(6, 7), NewRange(10, 11))
}

func TestEditGrowsSpan(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	// Prepending onto an identifier extends its node.
	if _, err := doc.Insert(0, "a"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := doc.Text(); got != "ax = y\n" {
		t.Fatalf("text after insert: %q", got)
	}
	assertSpanRanges(t, doc.Spans(), NewRange(0, 2), NewRange(5, 6))
}

func TestEditRevisions(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	rev := doc.Revision()
	if _, err := doc.Edit(NewRange(0, 1), "a"); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got := doc.Revision(); got != rev+1 {
		t.Errorf("revision after edit: got %d, want %d", got, rev+1)
	}

	// Rejected edits do not advance the revision.
	if _, err := doc.Edit(NewRange(0, 100), "a"); err == nil {
		t.Fatal("out-of-bounds edit accepted")
	}
	if got := doc.Revision(); got != rev+1 {
		t.Errorf("revision after rejected edit: got %d, want %d", got, rev+1)
	}
}

func TestEditInvalidRange(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))
	before := doc.Snapshot()

	tests := []struct {
		name string
		r    Range
		text string
	}{
		{name: "end beyond buffer", r: NewRange(0, 100), text: "a"},
		{name: "reversed", r: NewRange(3, 1), text: "a"},
		{name: "negative start", r: NewRange(-1, 2), text: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doc.Edit(tt.r, tt.text)
			if !errors.Is(err, ErrRangeInvalid) {
				t.Fatalf("got %v, want ErrRangeInvalid", err)
			}
		})
	}

	after := doc.Snapshot()
	if after.Text != before.Text || after.Revision != before.Revision {
		t.Error("rejected edits changed the document")
	}
	assertSpanRanges(t, after.Spans, spanRanges(before.Spans)...)
}

func TestEditSplitsCodePoint(t *testing.T) {
	doc := mustNew(t, "é = 1\n", pythonGrammar(t))

	// é occupies bytes [0,2); offset 1 is mid code point.
	_, err := doc.Edit(NewRange(1, 2), "x")
	if !errors.Is(err, ErrRangeInvalid) {
		t.Fatalf("got %v, want ErrRangeInvalid", err)
	}
	if got := doc.Text(); got != "é = 1\n" {
		t.Errorf("text changed by rejected edit: %q", got)
	}
}

func TestEditInvalidUTF8(t *testing.T) {
	doc := mustNew(t, "x = 1\n", pythonGrammar(t))

	_, err := doc.Edit(NewRange(0, 1), "\xff\xfe")
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("got %v, want ErrInvalidUTF8", err)
	}
	if got := doc.Text(); got != "x = 1\n" {
		t.Errorf("text changed by rejected edit: %q", got)
	}
}

func TestEditEmptyDocument(t *testing.T) {
	doc := mustNew(t, "", identGrammar(t))

	if !doc.IsEmpty() || doc.Len() != 0 {
		t.Fatalf("empty document reports Len %d", doc.Len())
	}
	if doc.LineCount() != 1 {
		t.Errorf("LineCount: got %d, want 1", doc.LineCount())
	}
	if spans := doc.Spans(); len(spans) != 0 {
		t.Errorf("empty document has %d spans", len(spans))
	}

	if _, err := doc.Insert(0, "x = y\n"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	assertSpanRanges(t, doc.Spans(), NewRange(0, 1), NewRange(4, 5))
}

func TestSetText(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	res, err := doc.SetText("a = b\nc = d\n")
	if err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if res.OldText != "x = y\n" {
		t.Errorf("OldText: got %q", res.OldText)
	}
	if got := doc.Text(); got != "a = b\nc = d\n" {
		t.Fatalf("text: %q", got)
	}
	assertSpanRanges(t, doc.Spans(),
		NewRange(0, 1), NewRange(4, 5), NewRange(6, 7), NewRange(10, 11))
}

func TestDeleteAndReplace(t *testing.T) {
	doc := mustNew(t, "abc = xyz\n", identGrammar(t))

	if _, err := doc.Delete(0, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := doc.Text(); got != "bc = xyz\n" {
		t.Fatalf("text after delete: %q", got)
	}

	if _, err := doc.Replace(5, 8, "q"); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got := doc.Text(); got != "bc = q\n" {
		t.Fatalf("text after replace: %q", got)
	}
	assertSpanRanges(t, doc.Spans(), NewRange(0, 2), NewRange(5, 6))
}

func TestSpansReturnsCopy(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	spans := doc.Spans()
	spans[0].Capture = "mutated"
	spans[0].Range = NewRange(90, 99)

	if got := doc.Spans()[0]; got.Capture == "mutated" || got.Range == NewRange(90, 99) {
		t.Error("mutating the returned slice changed document state")
	}
}

func TestSpansIn(t *testing.T) {
	doc := mustNew(t, "x = y\nz = w\n", identGrammar(t))

	assertSpanRanges(t, doc.SpansIn(NewRange(0, 6)), NewRange(0, 1), NewRange(4, 5))
	assertSpanRanges(t, doc.SpansIn(NewRange(0, 7)),
		NewRange(0, 1), NewRange(4, 5), NewRange(6, 7))
	if got := doc.SpansIn(NewRange(1, 4)); len(got) != 0 {
		t.Errorf("SpansIn between identifiers: got %v, want none", spanRanges(got))
	}
}

func TestNestedSpansFlatten(t *testing.T) {
	g, err := NewGrammar("python", pythonLanguage(t),
		"(assignment) @keyword (identifier) @variable")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}
	doc := mustNew(t, "x = y\n", g)

	// Spans keep the nesting, enclosing span first.
	spans := doc.Spans()
	assertSpanRanges(t, spans, NewRange(0, 5), NewRange(0, 1), NewRange(4, 5))

	// Flattening gives the inner captures their own runs.
	runs := FlattenSpans(spans)
	assertSpanRanges(t, runs,
		NewRange(0, 1), NewRange(1, 4), NewRange(4, 5))
	wantCaptures := []string{"variable", "keyword", "variable"}
	for i, r := range runs {
		if r.Capture != wantCaptures[i] {
			t.Errorf("run %d capture: got %q, want %q", i, r.Capture, wantCaptures[i])
		}
	}
}

func TestSpansDedupAcrossPatterns(t *testing.T) {
	// Both patterns match every identifier; each node still yields one span.
	g, err := NewGrammar("python", pythonLanguage(t),
		"(identifier) @variable (identifier) @constant")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}
	doc := mustNew(t, "x = y\n", g)

	spans := doc.Spans()
	assertSpanRanges(t, spans, NewRange(0, 1), NewRange(4, 5))
	for i, s := range spans {
		if s.Capture != "variable" && s.Capture != "constant" {
			t.Errorf("span %d capture: got %q", i, s.Capture)
		}
	}
}

func TestUnknownCaptureFallsBack(t *testing.T) {
	g, err := NewGrammar("python", pythonLanguage(t), "(identifier) @zzz.unknown")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}
	doc := mustNew(t, "x = y\n", g)

	fallback := DefaultStyle().Underline()
	spans := doc.Spans()
	assertSpanRanges(t, spans, NewRange(0, 1), NewRange(4, 5))
	for i, s := range spans {
		if s.Category != CategoryNone {
			t.Errorf("span %d category: got %v, want CategoryNone", i, s.Category)
		}
		if !s.Style.Equals(fallback) {
			t.Errorf("span %d style: got %+v, want fallback underline", i, s.Style)
		}
		if s.Capture != "zzz.unknown" {
			t.Errorf("span %d capture: got %q", i, s.Capture)
		}
	}
}

func TestStrictCaptures(t *testing.T) {
	g, err := NewGrammar("python", pythonLanguage(t), "(identifier) @zzz.unknown")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}

	_, err = New("x\n", g, WithStrictCaptures())
	if !errors.Is(err, ErrUnknownCapture) {
		t.Fatalf("got %v, want ErrUnknownCapture", err)
	}
	if !strings.Contains(err.Error(), "zzz.unknown") {
		t.Errorf("error does not name the capture: %v", err)
	}

	// Hierarchical names count as mapped when a prefix matches.
	g2, err := NewGrammar("python", pythonLanguage(t), "(identifier) @variable.special")
	if err != nil {
		t.Fatalf("NewGrammar: %v", err)
	}
	if _, err := New("x\n", g2, WithStrictCaptures()); err != nil {
		t.Fatalf("strict rejected a mapped capture: %v", err)
	}
}

func TestMaxSourceLen(t *testing.T) {
	g := pythonGrammar(t)

	_, err := New("0123456789", g, WithMaxSourceLen(4))
	if !errors.Is(err, ErrSourceTooLarge) {
		t.Fatalf("got %v, want ErrSourceTooLarge", err)
	}

	doc := mustNew(t, "ab", g, WithMaxSourceLen(4))
	if _, err := doc.Insert(2, "cd"); err != nil {
		t.Fatalf("insert to the limit: %v", err)
	}
	if _, err := doc.Insert(4, "e"); !errors.Is(err, ErrSourceTooLarge) {
		t.Fatalf("got %v, want ErrSourceTooLarge", err)
	}
	if got := doc.Text(); got != "abcd" {
		t.Errorf("text after rejected insert: %q", got)
	}

	// Shrinking frees room again.
	if _, err := doc.Delete(0, 2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := doc.Insert(2, "ef"); err != nil {
		t.Fatalf("insert after delete: %v", err)
	}
	if got := doc.Text(); got != "cdef" {
		t.Errorf("text: %q", got)
	}
}

func TestSetThemeRestyles(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	before := doc.Spans()
	rev := doc.Revision()

	doc.SetTheme(Monochrome())

	if got := doc.Revision(); got != rev {
		t.Errorf("SetTheme advanced the revision: %d -> %d", rev, got)
	}
	if got := doc.Theme().Name; got != "monochrome" {
		t.Errorf("theme name: got %q", got)
	}

	after := doc.Spans()
	assertSpanRanges(t, after, spanRanges(before)...)
	for i, s := range after {
		if !s.Style.Foreground.IsDefault() || !s.Style.Background.IsDefault() {
			t.Errorf("span %d still carries colors under the monochrome theme", i)
		}
	}

	// Nil is ignored.
	doc.SetTheme(nil)
	if doc.Theme() == nil {
		t.Error("SetTheme(nil) cleared the theme")
	}
}

func TestHiddenCategoryDropsSpans(t *testing.T) {
	th := OneMonokai()
	th.Hidden = map[Category]bool{CategoryVariable: true}

	doc := mustNew(t, "x = y\n", identGrammar(t), WithTheme(th))
	if spans := doc.Spans(); len(spans) != 0 {
		t.Fatalf("hidden category produced %d spans", len(spans))
	}

	// Unhiding via SetTheme brings them back without an edit.
	doc.SetTheme(OneMonokai())
	assertSpanRanges(t, doc.Spans(), NewRange(0, 1), NewRange(4, 5))
}

func TestSnapshotIsolation(t *testing.T) {
	doc := mustNew(t, "x = y\n", identGrammar(t))

	snap := doc.Snapshot()
	if _, err := doc.SetText("zzz = www\n"); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	if snap.Text != "x = y\n" {
		t.Errorf("snapshot text changed: %q", snap.Text)
	}
	assertSpanRanges(t, snap.Spans, NewRange(0, 1), NewRange(4, 5))
	if snap.Revision == doc.Revision() {
		t.Error("snapshot revision tracks the live document")
	}
}

func TestPointAt(t *testing.T) {
	doc := mustNew(t, "x = y\nz = w\n", pythonGrammar(t))

	p, err := doc.PointAt(10)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if p.Line != 1 || p.Column != 4 {
		t.Errorf("PointAt(10): got %d:%d, want 1:4", p.Line, p.Column)
	}

	if _, err := doc.PointAt(99); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Fatalf("got %v, want ErrOffsetOutOfRange", err)
	}
}

func TestPointAtTracksEdits(t *testing.T) {
	doc := mustNew(t, "a\nb", pythonGrammar(t))

	if _, err := doc.Insert(3, "c"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := doc.Text(); got != "a\nbc" {
		t.Fatalf("text: %q", got)
	}

	p, err := doc.PointAt(3)
	if err != nil {
		t.Fatalf("PointAt: %v", err)
	}
	if p.Line != 1 || p.Column != 1 {
		t.Errorf("PointAt(3): got %d:%d, want 1:1", p.Line, p.Column)
	}
}

func TestLineText(t *testing.T) {
	doc := mustNew(t, "x = y\nz = w\n", pythonGrammar(t))

	if got := doc.LineCount(); got != 3 {
		t.Errorf("LineCount: got %d, want 3", got)
	}
	if got := doc.LineText(1); got != "z = w" {
		t.Errorf("LineText(1): got %q", got)
	}
	if got := doc.LineText(5); got != "" {
		t.Errorf("LineText(5): got %q, want empty", got)
	}
}

func TestConcurrentReadsDuringEdits(t *testing.T) {
	doc := mustNew(t, strings.Repeat("x = y\n", 20), identGrammar(t))

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := doc.Snapshot()
				for _, s := range snap.Spans {
					if s.Range.End > ByteOffset(len(snap.Text)) {
						t.Errorf("span %s beyond snapshot of %d bytes", s.Range, len(snap.Text))
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		if _, err := doc.Insert(0, "q = r\n"); err != nil {
			t.Errorf("Insert: %v", err)
			break
		}
	}
	close(done)
	wg.Wait()
}
