// Package highlight maps query captures to style categories and themes.
package highlight

// Category is the semantic class of a highlighted region. Categories are
// the fixed vocabulary themes style; query capture names resolve to them
// by exact match first, then by dropping dot segments.
type Category uint8

// Categories, following tree-sitter highlight capture conventions.
const (
	CategoryNone Category = iota

	CategoryComment
	CategoryString
	CategoryEscape
	CategoryNumber
	CategoryBoolean

	CategoryKeyword
	CategoryOperator
	CategoryPunctuation
	CategoryPunctuationSpecial

	CategoryFunction
	CategoryFunctionBuiltin
	CategoryMethod
	CategoryConstructor

	CategoryConstant
	CategoryVariable
	CategoryVariableBuiltin
	CategoryParameter
	CategoryProperty
	CategoryType
	CategoryLabel

	// Embedded marks interpolation bodies inside strings or templates.
	CategoryEmbedded

	// Sentinel for iteration
	categoryCount
)

// String returns the capture-style name of the category.
func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Valid reports whether c is a defined category.
func (c Category) Valid() bool {
	return c < categoryCount
}

// Categories returns every category except CategoryNone, in declaration
// order.
func Categories() []Category {
	out := make([]Category, 0, int(categoryCount)-1)
	for c := CategoryNone + 1; c < categoryCount; c++ {
		out = append(out, c)
	}
	return out
}

// CategoryFromName converts an exact category name to a Category. Unlike
// CategoryFromCapture it does no hierarchical fallback; theme files must
// name categories exactly.
func CategoryFromName(name string) (Category, bool) {
	c, ok := nameToCategory[name]
	return c, ok
}

// CategoryFromCapture converts a query capture name to a Category.
// Hierarchical names fall back segment by segment: "keyword.import" tries
// "keyword.import" then "keyword". Names that never match resolve to
// CategoryNone.
func CategoryFromCapture(name string) Category {
	for len(name) > 0 {
		if c, ok := nameToCategory[name]; ok {
			return c
		}
		// Remove last segment
		for i := len(name) - 1; i >= 0; i-- {
			if name[i] == '.' {
				name = name[:i]
				break
			}
			if i == 0 {
				name = ""
			}
		}
	}
	return CategoryNone
}

// UnmappedCaptures returns the capture names that resolve to no category,
// preserving input order. Intended as a startup check that a grammar's
// query vocabulary is fully understood.
func UnmappedCaptures(names []string) []string {
	var unmapped []string
	for _, name := range names {
		if CategoryFromCapture(name) == CategoryNone {
			unmapped = append(unmapped, name)
		}
	}
	return unmapped
}

// categoryNames maps categories to their capture-style names.
var categoryNames = []string{
	CategoryNone: "none",

	CategoryComment: "comment",
	CategoryString:  "string",
	CategoryEscape:  "escape",
	CategoryNumber:  "number",
	CategoryBoolean: "boolean",

	CategoryKeyword:            "keyword",
	CategoryOperator:           "operator",
	CategoryPunctuation:        "punctuation",
	CategoryPunctuationSpecial: "punctuation.special",

	CategoryFunction:        "function",
	CategoryFunctionBuiltin: "function.builtin",
	CategoryMethod:          "function.method",
	CategoryConstructor:     "constructor",

	CategoryConstant:        "constant",
	CategoryVariable:        "variable",
	CategoryVariableBuiltin: "variable.builtin",
	CategoryParameter:       "variable.parameter",
	CategoryProperty:        "property",
	CategoryType:            "type",
	CategoryLabel:           "label",

	CategoryEmbedded: "embedded",
}

// nameToCategory maps capture-style names to categories.
var nameToCategory = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for i, name := range categoryNames {
		if name != "" {
			m[name] = Category(i)
		}
	}
	return m
}()
