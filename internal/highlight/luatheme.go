package highlight

import (
	"fmt"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/stormlight/internal/style"
)

// LoadTheme loads a theme file, dispatching on extension: .lua scripts run
// in a sandboxed interpreter, everything else parses as JSON.
func LoadTheme(path string) (*Theme, error) {
	if strings.EqualFold(filepath.Ext(path), ".lua") {
		return LoadThemeLua(path)
	}
	return LoadThemeFile(path)
}

// LoadThemeLua executes a Lua theme script and reads the global `theme`
// table. The script runs sandboxed: only the base, table, string and math
// libraries are available, so a theme cannot touch the file system or
// spawn processes.
//
//	theme = {
//	  name = "my-theme",
//	  background = "#282c34",
//	  fallback = { underline = true },
//	  hidden = { "punctuation" },
//	  styles = {
//	    comment = { fg = "#676f7d", italic = true },
//	    ["punctuation.special"] = { fg = "#c678dd" },
//	  },
//	}
func LoadThemeLua(path string) (*Theme, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibraries(L)

	if err := doFileRecovered(L, path); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrThemeInvalid, err)
	}

	tbl, ok := L.GetGlobal("theme").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: %w: global 'theme' is not a table", path, ErrThemeInvalid)
	}

	theme, err := themeFromLuaTable(tbl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// openSafeLibraries opens only safe Lua standard libraries. io, os, debug
// and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// doFileRecovered executes a Lua file with panic recovery.
func doFileRecovered(L *lua.LState, path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return L.DoFile(path)
}

func themeFromLuaTable(tbl *lua.LTable) (*Theme, error) {
	theme := &Theme{
		Name:       lua.LVAsString(tbl.RawGetString("name")),
		Background: style.ColorDefault,
		Fallback:   style.DefaultStyle().Underline(),
		Styles:     make(map[Category]style.Style),
		Hidden:     make(map[Category]bool),
	}

	if v := tbl.RawGetString("background"); v != lua.LNil {
		c, err := style.ColorFromHex(lua.LVAsString(v))
		if err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrThemeInvalid, err)
		}
		theme.Background = c
	}

	if v, ok := tbl.RawGetString("fallback").(*lua.LTable); ok {
		s, err := styleFromLuaTable(v)
		if err != nil {
			return nil, fmt.Errorf("%w: fallback: %v", ErrThemeInvalid, err)
		}
		theme.Fallback = s
	}

	var parseErr error
	if v, ok := tbl.RawGetString("hidden").(*lua.LTable); ok {
		v.ForEach(func(_, value lua.LValue) {
			if parseErr != nil {
				return
			}
			name := lua.LVAsString(value)
			cat, found := CategoryFromName(name)
			if !found {
				parseErr = fmt.Errorf("%w: hidden: %q", ErrUnknownCategory, name)
				return
			}
			theme.Hidden[cat] = true
		})
	}
	if parseErr != nil {
		return nil, parseErr
	}

	if v, ok := tbl.RawGetString("styles").(*lua.LTable); ok {
		v.ForEach(func(key, value lua.LValue) {
			if parseErr != nil {
				return
			}
			name := lua.LVAsString(key)
			cat, found := CategoryFromName(name)
			if !found || cat == CategoryNone {
				parseErr = fmt.Errorf("%w: styles: %q", ErrUnknownCategory, name)
				return
			}
			styleTbl, isTable := value.(*lua.LTable)
			if !isTable {
				parseErr = fmt.Errorf("%w: styles.%s: not a table", ErrThemeInvalid, name)
				return
			}
			s, err := styleFromLuaTable(styleTbl)
			if err != nil {
				parseErr = fmt.Errorf("%w: styles.%s: %v", ErrThemeInvalid, name, err)
				return
			}
			theme.Styles[cat] = s
		})
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return theme, nil
}

func styleFromLuaTable(tbl *lua.LTable) (style.Style, error) {
	s := style.DefaultStyle()
	if v := tbl.RawGetString("fg"); v != lua.LNil {
		c, err := style.ColorFromHex(lua.LVAsString(v))
		if err != nil {
			return s, fmt.Errorf("fg: %v", err)
		}
		s.Foreground = c
	}
	if v := tbl.RawGetString("bg"); v != lua.LNil {
		c, err := style.ColorFromHex(lua.LVAsString(v))
		if err != nil {
			return s, fmt.Errorf("bg: %v", err)
		}
		s.Background = c
	}
	if lua.LVAsBool(tbl.RawGetString("bold")) {
		s = s.Bold()
	}
	if lua.LVAsBool(tbl.RawGetString("dim")) {
		s = s.Dim()
	}
	if lua.LVAsBool(tbl.RawGetString("italic")) {
		s = s.Italic()
	}
	if lua.LVAsBool(tbl.RawGetString("underline")) {
		s = s.Underline()
	}
	if lua.LVAsBool(tbl.RawGetString("strikethrough")) {
		s = s.Strikethrough()
	}
	return s, nil
}
