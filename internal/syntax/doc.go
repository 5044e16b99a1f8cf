// Package syntax wraps the tree-sitter parse and query machinery behind a
// small surface tailored to incremental highlighting.
//
// The package provides:
//
//   - Parser: owns the syntax tree for one document and its lifecycle
//     (parse, structural edit, incremental reparse, failure fallback)
//   - Query: a compiled, shareable highlight query producing one capture
//     per node, first capture wins
//   - DescribeEdit: translation from a buffer edit to the structural edit
//     descriptor tree-sitter needs for subtree reuse
//
// Edit flow:
//
//	edit, err := syntax.DescribeEdit(oldSrc, r, newText) // before splicing
//	parser.ApplyEdit(edit)                               // shift node positions
//	err = parser.Reparse(newSrc)                         // after splicing
//	captures := query.Captures(parser.Tree())
//
// A Parser is single-owner: exactly one goroutine (or one lock holder)
// drives it. Query values are immutable and may be shared freely.
package syntax
