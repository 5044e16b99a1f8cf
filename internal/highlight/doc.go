// Package highlight turns query capture names into terminal styles.
//
// The package provides:
//
//   - Category: the fixed vocabulary of semantic classes, with
//     hierarchical resolution from raw capture names ("keyword.import"
//     resolves to the keyword category)
//   - Theme: the category-to-style table, with hidden categories and an
//     underline fallback marking captures the theme never anticipated
//   - Theme files in JSON and sandboxed Lua, plus a file watcher for hot
//     reload
//
// Resolution never fails: unknown captures degrade to the fallback style
// instead of erroring, so a grammar update cannot break highlighting.
package highlight
