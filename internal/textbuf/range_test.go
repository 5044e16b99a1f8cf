package textbuf

import "testing"

func TestRangeBasics(t *testing.T) {
	r := NewRange(3, 7)

	if r.Len() != 4 {
		t.Errorf("expected len 4, got %d", r.Len())
	}
	if r.IsEmpty() {
		t.Error("non-empty range reported empty")
	}
	if !r.IsValid() {
		t.Error("valid range reported invalid")
	}
	if r.String() != "[3:7)" {
		t.Errorf("expected [3:7), got %s", r.String())
	}
}

func TestRangeValidity(t *testing.T) {
	if (Range{Start: 5, End: 3}).IsValid() {
		t.Error("reversed range should be invalid")
	}
	if (Range{Start: -1, End: 3}).IsValid() {
		t.Error("negative start should be invalid")
	}
	if !(Range{Start: 2, End: 2}).IsValid() {
		t.Error("empty range should be valid")
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(2, 5)

	if !r.Contains(2) || !r.Contains(4) {
		t.Error("range should contain interior offsets")
	}
	if r.Contains(5) {
		t.Error("end offset is exclusive")
	}
	if r.Contains(1) {
		t.Error("offset before start should not be contained")
	}
	if !r.ContainsRange(NewRange(3, 5)) {
		t.Error("expected subrange to be contained")
	}
	if r.ContainsRange(NewRange(3, 6)) {
		t.Error("overhanging range should not be contained")
	}
}

func TestRangeOverlaps(t *testing.T) {
	r := NewRange(2, 5)

	if !r.Overlaps(NewRange(4, 8)) {
		t.Error("expected overlap")
	}
	if r.Overlaps(NewRange(5, 8)) {
		t.Error("touching ranges do not overlap")
	}
	if r.Overlaps(NewRange(0, 2)) {
		t.Error("touching ranges do not overlap")
	}
}

func TestRangeIntersectUnion(t *testing.T) {
	a := NewRange(2, 6)
	b := NewRange(4, 9)

	if got := a.Intersect(b); got != NewRange(4, 6) {
		t.Errorf("expected [4:6), got %s", got)
	}
	if got := a.Intersect(NewRange(7, 9)); !got.IsEmpty() {
		t.Errorf("disjoint intersect should be empty, got %s", got)
	}
	if got := a.Union(b); got != NewRange(2, 9) {
		t.Errorf("expected [2:9), got %s", got)
	}
}

func TestRangeShift(t *testing.T) {
	r := NewRange(2, 6)

	if got := r.Shift(3); got != NewRange(5, 9) {
		t.Errorf("expected [5:9), got %s", got)
	}
	if got := r.Shift(-2); got != NewRange(0, 4) {
		t.Errorf("expected [0:4), got %s", got)
	}
}

func TestEditConstructors(t *testing.T) {
	ins := NewInsert(3, "abc")
	if !ins.IsInsert() || ins.IsDelete() || ins.IsReplace() {
		t.Error("NewInsert should classify as insert")
	}
	if ins.Delta() != 3 {
		t.Errorf("expected delta 3, got %d", ins.Delta())
	}

	del := NewDelete(1, 4)
	if !del.IsDelete() || del.IsInsert() {
		t.Error("NewDelete should classify as delete")
	}
	if del.Delta() != -3 {
		t.Errorf("expected delta -3, got %d", del.Delta())
	}

	rep := NewEdit(NewRange(0, 2), "xyz")
	if !rep.IsReplace() {
		t.Error("NewEdit with text over a range should classify as replace")
	}
	if rep.Delta() != 1 {
		t.Errorf("expected delta 1, got %d", rep.Delta())
	}

	if !NewEdit(NewRange(2, 2), "").IsNoOp() {
		t.Error("empty edit should be a no-op")
	}
}
