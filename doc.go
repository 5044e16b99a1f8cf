// Package stormlight provides incremental syntax highlighting for editable
// text. A Document pairs a UTF-8 text buffer with a tree-sitter parser and
// keeps a list of styled spans up to date as the text changes.
//
// The package provides:
//
//   - Incremental reparsing: edits shift the existing syntax tree so the
//     parser reuses unchanged subtrees instead of starting over
//   - Grammar loading from the bundled tree-sitter languages, by file name
//     or language name, or from a custom highlight query
//   - Capture-to-category mapping with hierarchical fallback
//     ("keyword.operator" falls back to "keyword")
//   - Themes with per-category styles, JSON and Lua theme files, and hot
//     reload via ThemeWatcher
//   - Overlap resolution with FlattenSpans for renderers that want exactly
//     one style per byte
//
// Basic usage:
//
//	g, err := stormlight.GrammarForFile("main.py")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := stormlight.New("x = 1\n", g)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Replace "1" with "hello" and read back the restyled spans.
//	doc.Edit(stormlight.NewRange(4, 5), `"hello"`)
//	for _, s := range doc.Spans() {
//	    fmt.Println(s.Range, s.Capture)
//	}
//
// Documents tolerate parse failures: a failed parse leaves the text and
// edit history intact, drops the spans, and marks the document degraded
// until a later parse succeeds.
//
// Thread Safety:
//
// All Document methods are safe for concurrent use. Reads take a shared
// lock; edits and theme swaps take an exclusive one. Snapshot returns a
// consistent text/spans pair that later edits do not touch.
package stormlight
