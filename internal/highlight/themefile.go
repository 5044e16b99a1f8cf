package highlight

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/stormlight/internal/style"
)

// Theme file errors.
var (
	// ErrThemeInvalid indicates a theme file could not be parsed.
	ErrThemeInvalid = errors.New("invalid theme")

	// ErrUnknownCategory indicates a theme file names a category that does
	// not exist. Category names are checked, not free-form.
	ErrUnknownCategory = errors.New("unknown category")
)

// ParseTheme parses the JSON theme format:
//
//	{
//	  "name": "one-monokai",
//	  "background": "#282c34",
//	  "fallback": {"underline": true},
//	  "hidden": ["punctuation"],
//	  "styles": {
//	    "comment": {"fg": "#676f7d", "italic": true},
//	    "punctuation.special": {"fg": "#c678dd"}
//	  }
//	}
//
// Style objects accept "fg", "bg" (hex colors) and the boolean flags
// "bold", "dim", "italic", "underline", "strikethrough". Unknown category
// names are rejected; a missing "fallback" defaults to underline.
func ParseTheme(data []byte) (*Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrThemeInvalid)
	}

	theme := &Theme{
		Name:       gjson.GetBytes(data, "name").String(),
		Background: style.ColorDefault,
		Fallback:   style.DefaultStyle().Underline(),
		Styles:     make(map[Category]style.Style),
		Hidden:     make(map[Category]bool),
	}

	if bg := gjson.GetBytes(data, "background"); bg.Exists() {
		c, err := style.ColorFromHex(bg.String())
		if err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrThemeInvalid, err)
		}
		theme.Background = c
	}

	if fb := gjson.GetBytes(data, "fallback"); fb.Exists() {
		s, err := parseStyleResult(fb)
		if err != nil {
			return nil, fmt.Errorf("%w: fallback: %v", ErrThemeInvalid, err)
		}
		theme.Fallback = s
	}

	var parseErr error
	gjson.GetBytes(data, "hidden").ForEach(func(_, value gjson.Result) bool {
		cat, ok := CategoryFromName(value.String())
		if !ok {
			parseErr = fmt.Errorf("%w: hidden: %q", ErrUnknownCategory, value.String())
			return false
		}
		theme.Hidden[cat] = true
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	gjson.GetBytes(data, "styles").ForEach(func(key, value gjson.Result) bool {
		cat, ok := CategoryFromName(key.String())
		if !ok || cat == CategoryNone {
			parseErr = fmt.Errorf("%w: styles: %q", ErrUnknownCategory, key.String())
			return false
		}
		s, err := parseStyleResult(value)
		if err != nil {
			parseErr = fmt.Errorf("%w: styles.%s: %v", ErrThemeInvalid, key.String(), err)
			return false
		}
		theme.Styles[cat] = s
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return theme, nil
}

// parseStyleResult decodes one style object.
func parseStyleResult(res gjson.Result) (style.Style, error) {
	s := style.DefaultStyle()
	if fg := res.Get("fg"); fg.Exists() {
		c, err := style.ColorFromHex(fg.String())
		if err != nil {
			return s, fmt.Errorf("fg: %v", err)
		}
		s.Foreground = c
	}
	if bg := res.Get("bg"); bg.Exists() {
		c, err := style.ColorFromHex(bg.String())
		if err != nil {
			return s, fmt.Errorf("bg: %v", err)
		}
		s.Background = c
	}
	if res.Get("bold").Bool() {
		s = s.Bold()
	}
	if res.Get("dim").Bool() {
		s = s.Dim()
	}
	if res.Get("italic").Bool() {
		s = s.Italic()
	}
	if res.Get("underline").Bool() {
		s = s.Underline()
	}
	if res.Get("strikethrough").Bool() {
		s = s.Strikethrough()
	}
	return s, nil
}

// EncodeTheme renders a theme back to its JSON format, categories in
// declaration order.
func EncodeTheme(t *Theme) ([]byte, error) {
	out := "{}"
	var err error

	if out, err = sjson.Set(out, "name", t.Name); err != nil {
		return nil, err
	}
	if !t.Background.IsDefault() {
		if out, err = sjson.Set(out, "background", t.Background.Hex()); err != nil {
			return nil, err
		}
	}
	if out, err = sjson.Set(out, "fallback", styleDoc(t.Fallback)); err != nil {
		return nil, err
	}

	var hidden []string
	if t.Hidden[CategoryNone] {
		hidden = append(hidden, CategoryNone.String())
	}
	for _, cat := range Categories() {
		if t.Hidden[cat] {
			hidden = append(hidden, cat.String())
		}
	}
	if len(hidden) > 0 {
		if out, err = sjson.Set(out, "hidden", hidden); err != nil {
			return nil, err
		}
	}

	for _, cat := range Categories() {
		s, ok := t.Styles[cat]
		if !ok {
			continue
		}
		path := "styles." + escapePathKey(cat.String())
		if out, err = sjson.Set(out, path, styleDoc(s)); err != nil {
			return nil, err
		}
	}

	return pretty.Pretty([]byte(out)), nil
}

// styleDoc builds the JSON object for one style.
func styleDoc(s style.Style) map[string]any {
	doc := make(map[string]any)
	if !s.Foreground.IsDefault() {
		doc["fg"] = s.Foreground.Hex()
	}
	if !s.Background.IsDefault() {
		doc["bg"] = s.Background.Hex()
	}
	if s.Attributes.Has(style.AttrBold) {
		doc["bold"] = true
	}
	if s.Attributes.Has(style.AttrDim) {
		doc["dim"] = true
	}
	if s.Attributes.Has(style.AttrItalic) {
		doc["italic"] = true
	}
	if s.Attributes.Has(style.AttrUnderline) {
		doc["underline"] = true
	}
	if s.Attributes.Has(style.AttrStrikethrough) {
		doc["strikethrough"] = true
	}
	return doc
}

// escapePathKey escapes dots so category names stay single JSON keys.
func escapePathKey(key string) string {
	return strings.ReplaceAll(key, ".", "\\.")
}

// LoadThemeFile reads and parses a JSON theme file.
func LoadThemeFile(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	theme, err := ParseTheme(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// SaveThemeFile writes a theme to path in the JSON format.
func SaveThemeFile(path string, t *Theme) error {
	data, err := EncodeTheme(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
