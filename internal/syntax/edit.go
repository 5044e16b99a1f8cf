package syntax

import (
	"fmt"

	"github.com/odvcencio/gotreesitter"

	"github.com/dshills/stormlight/internal/textbuf"
)

// DescribeEdit builds the structural edit descriptor for replacing r in src
// with newText. All three points are derived before the edit is applied:
// the start and old end by scanning the pre-edit source, the new end by
// advancing the start point through the replacement text.
func DescribeEdit(src []byte, r textbuf.Range, newText string) (gotreesitter.InputEdit, error) {
	if !r.IsValid() || r.End > textbuf.ByteOffset(len(src)) {
		return gotreesitter.InputEdit{}, fmt.Errorf("%w: %s in %d bytes", textbuf.ErrRangeInvalid, r, len(src))
	}

	startPoint, err := textbuf.PointAt(src, r.Start)
	if err != nil {
		return gotreesitter.InputEdit{}, err
	}
	oldEndPoint, err := textbuf.PointAt(src, r.End)
	if err != nil {
		return gotreesitter.InputEdit{}, err
	}
	newEndPoint := textbuf.AdvancePoint(startPoint, []byte(newText))

	return gotreesitter.InputEdit{
		StartByte:   uint32(r.Start),
		OldEndByte:  uint32(r.End),
		NewEndByte:  uint32(r.Start + textbuf.ByteOffset(len(newText))),
		StartPoint:  tsPoint(startPoint),
		OldEndPoint: tsPoint(oldEndPoint),
		NewEndPoint: tsPoint(newEndPoint),
	}, nil
}

func tsPoint(p textbuf.Point) gotreesitter.Point {
	return gotreesitter.Point{Row: p.Line, Column: p.Column}
}
