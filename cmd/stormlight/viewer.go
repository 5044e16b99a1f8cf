package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/stormlight"
)

// errQuit signals a clean exit from the event loop.
var errQuit = errors.New("quit")

const tabWidth = 4

// Interrupt payloads posted into the tcell event queue from other
// goroutines.
type (
	quitRequest struct{}
	themeUpdate struct{ theme *stormlight.Theme }
	themeFault  struct{ err error }
)

// viewer is the terminal frontend: a tcell screen, one document, and a
// byte-offset cursor. All document access happens on the event loop
// goroutine; watchers and signal handlers only post events.
type viewer struct {
	screen tcell.Screen
	doc    *stormlight.Document
	path   string

	// text mirrors the document content; cursor math runs against it so
	// each keystroke does not re-copy the buffer.
	text   string
	cursor stormlight.ByteOffset

	topLine  int
	modified bool
	quitArm  bool
	status   string
}

func newViewer(doc *stormlight.Document, path string) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return &viewer{
		screen: screen,
		doc:    doc,
		path:   path,
		text:   doc.Text(),
	}, nil
}

// Shutdown restores the terminal. Safe to call after a failed Run.
func (v *viewer) Shutdown() {
	v.screen.Fini()
}

// Quit asks the event loop to exit. Safe from any goroutine.
func (v *viewer) Quit() {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
}

// WatchThemes forwards watcher updates into the event loop.
func (v *viewer) WatchThemes(w *stormlight.ThemeWatcher) {
	go func() {
		for theme := range w.Themes() {
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(themeUpdate{theme: theme}))
		}
	}()
	go func() {
		for err := range w.Errors() {
			_ = v.screen.PostEvent(tcell.NewEventInterrupt(themeFault{err: err}))
		}
	}()
}

// Run drives the event loop until quit.
func (v *viewer) Run() error {
	for {
		v.draw()

		switch ev := v.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if err := v.handleKey(ev); err != nil {
				return err
			}

		case *tcell.EventResize:
			v.screen.Sync()

		case *tcell.EventInterrupt:
			switch data := ev.Data().(type) {
			case quitRequest:
				return errQuit
			case themeUpdate:
				v.doc.SetTheme(data.theme)
				v.status = fmt.Sprintf("theme %q reloaded", data.theme.Name)
			case themeFault:
				v.status = fmt.Sprintf("theme reload: %v", data.err)
			}
		}
	}
}

func (v *viewer) handleKey(ev *tcell.EventKey) error {
	// Any key other than a second Ctrl-Q disarms the pending quit.
	armed := v.quitArm
	v.quitArm = false

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		if v.modified && !armed {
			v.quitArm = true
			v.status = "unsaved changes, Ctrl-Q again to quit"
			return nil
		}
		return errQuit

	case tcell.KeyCtrlS:
		v.save()

	case tcell.KeyEnter:
		v.insert("\n")
	case tcell.KeyTab:
		v.insert("    ")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		v.backspace()
	case tcell.KeyDelete:
		v.deleteForward()

	case tcell.KeyLeft:
		v.moveHorizontal(-1)
	case tcell.KeyRight:
		v.moveHorizontal(+1)
	case tcell.KeyUp:
		v.moveVertical(-1)
	case tcell.KeyDown:
		v.moveVertical(+1)
	case tcell.KeyHome:
		v.moveLineEdge(false)
	case tcell.KeyEnd:
		v.moveLineEdge(true)
	case tcell.KeyPgUp:
		v.movePage(-1)
	case tcell.KeyPgDn:
		v.movePage(+1)

	case tcell.KeyRune:
		v.insert(string(ev.Rune()))
	}
	return nil
}

// refresh re-reads the document after a mutation.
func (v *viewer) refresh() {
	v.text = v.doc.Text()
}

func (v *viewer) insert(s string) {
	if _, err := v.doc.Insert(v.cursor, s); err != nil {
		v.status = err.Error()
		return
	}
	v.cursor += stormlight.ByteOffset(len(s))
	v.modified = true
	v.status = ""
	v.refresh()
}

func (v *viewer) backspace() {
	start := stormlight.ByteOffset(stormlight.PrevGraphemeBoundary(v.text, int(v.cursor)))
	if start == v.cursor {
		return
	}
	if _, err := v.doc.Delete(start, v.cursor); err != nil {
		v.status = err.Error()
		return
	}
	v.cursor = start
	v.modified = true
	v.status = ""
	v.refresh()
}

func (v *viewer) deleteForward() {
	end := stormlight.ByteOffset(stormlight.NextGraphemeBoundary(v.text, int(v.cursor)))
	if end == v.cursor {
		return
	}
	if _, err := v.doc.Delete(v.cursor, end); err != nil {
		v.status = err.Error()
		return
	}
	v.modified = true
	v.status = ""
	v.refresh()
}

func (v *viewer) moveHorizontal(dir int) {
	if dir < 0 {
		v.cursor = stormlight.ByteOffset(stormlight.PrevGraphemeBoundary(v.text, int(v.cursor)))
	} else {
		v.cursor = stormlight.ByteOffset(stormlight.NextGraphemeBoundary(v.text, int(v.cursor)))
	}
}

func (v *viewer) moveVertical(dir int) {
	pt, err := v.doc.PointAt(v.cursor)
	if err != nil {
		return
	}
	target := int(pt.Line) + dir
	if target < 0 || target >= v.doc.LineCount() {
		return
	}
	lr, err := v.doc.LineRange(target)
	if err != nil {
		return
	}
	line := v.text[lr.Start:lr.End]
	v.cursor = lr.Start + stormlight.ByteOffset(snapToCluster(line, int(pt.Column)))
}

func (v *viewer) moveLineEdge(end bool) {
	pt, err := v.doc.PointAt(v.cursor)
	if err != nil {
		return
	}
	lr, err := v.doc.LineRange(int(pt.Line))
	if err != nil {
		return
	}
	if end {
		v.cursor = lr.End
	} else {
		v.cursor = lr.Start
	}
}

func (v *viewer) movePage(dir int) {
	_, h := v.screen.Size()
	page := h - 1
	if page < 1 {
		page = 1
	}
	for i := 0; i < page; i++ {
		v.moveVertical(dir)
	}
	v.topLine += dir * page
	v.clampTopLine()
}

func (v *viewer) save() {
	if v.path == "" {
		v.status = "no file to save (opened the bundled sample)"
		return
	}
	if err := os.WriteFile(v.path, v.doc.Bytes(), 0o644); err != nil {
		v.status = err.Error()
		return
	}
	v.modified = false
	v.status = fmt.Sprintf("wrote %s (%d bytes)", v.path, v.doc.Len())
}

func (v *viewer) clampTopLine() {
	if max := v.doc.LineCount() - 1; v.topLine > max {
		v.topLine = max
	}
	if v.topLine < 0 {
		v.topLine = 0
	}
}

// scrollIntoView adjusts topLine so the cursor's line is on screen.
func (v *viewer) scrollIntoView(cursorLine, contentHeight int) {
	if cursorLine < v.topLine {
		v.topLine = cursorLine
	}
	if cursorLine >= v.topLine+contentHeight {
		v.topLine = cursorLine - contentHeight + 1
	}
	v.clampTopLine()
}

func (v *viewer) draw() {
	width, height := v.screen.Size()
	if width <= 0 || height <= 0 {
		return
	}
	contentHeight := height - 1 // last row is the status line

	theme := v.doc.Theme()
	base := tcell.StyleDefault
	if !theme.Background.IsDefault() {
		base = base.Background(tcellColor(theme.Background))
	}

	pt, err := v.doc.PointAt(v.cursor)
	if err != nil {
		pt = stormlight.Point{}
	}
	v.scrollIntoView(int(pt.Line), contentHeight)

	v.screen.Fill(' ', base)

	runs := stormlight.FlattenSpans(v.doc.Spans())
	runIdx := 0

	cursorX, cursorY := -1, -1
	for row := 0; row < contentHeight; row++ {
		lineNo := v.topLine + row
		lr, err := v.doc.LineRange(lineNo)
		if err != nil {
			break
		}
		line := v.text[lr.Start:lr.End]

		x := 0
		off := lr.Start
		if lineNo == int(pt.Line) && v.cursor == off {
			cursorX, cursorY = 0, row
		}

		state := -1
		for len(line) > 0 {
			var cluster string
			cluster, line, _, state = uniseg.StepString(line, state)

			st := base
			if s, ok := styleAtOffset(runs, &runIdx, off); ok {
				st = applyStyle(base, s)
			}

			w := clusterWidth(cluster, x)
			if cluster == "\t" {
				for i := 0; i < w && x+i < width; i++ {
					v.screen.SetContent(x+i, row, ' ', nil, st)
				}
			} else if x < width {
				rs := []rune(cluster)
				v.screen.SetContent(x, row, rs[0], rs[1:], st)
			}

			x += w
			off += stormlight.ByteOffset(len(cluster))
			if lineNo == int(pt.Line) && v.cursor == off && x < width {
				cursorX, cursorY = x, row
			}
			if x >= width {
				break
			}
		}
	}

	v.drawStatus(width, height-1, base)

	if cursorX >= 0 {
		v.screen.ShowCursor(cursorX, cursorY)
	} else {
		v.screen.HideCursor()
	}
	v.screen.Show()
}

func (v *viewer) drawStatus(width, row int, base tcell.Style) {
	name := v.path
	if name == "" {
		name = "[sample]"
	}
	marker := ""
	if v.modified {
		marker = " [+]"
	}
	if v.doc.Degraded() {
		marker += " [no highlight]"
	}

	pt, _ := v.doc.PointAt(v.cursor)
	left := fmt.Sprintf(" %s%s  %s  %d:%d", name, marker, v.doc.Grammar().Name(), pt.Line+1, pt.Column+1)
	right := fmt.Sprintf("rev %d  %d spans  Ctrl-S save  Ctrl-Q quit ", v.doc.Revision(), len(v.doc.Spans()))
	if v.status != "" {
		left = " " + v.status
	}

	st := base.Reverse(true)
	x := 0
	for _, r := range left {
		if x >= width {
			break
		}
		v.screen.SetContent(x, row, r, nil, st)
		x++
	}
	pad := width - x - len([]rune(right))
	for i := 0; i < pad; i++ {
		v.screen.SetContent(x, row, ' ', nil, st)
		x++
	}
	for _, r := range right {
		if x >= width {
			break
		}
		v.screen.SetContent(x, row, r, nil, st)
		x++
	}
}

// styleAtOffset finds the flattened run covering off. Runs are sorted and
// disjoint and draw offsets only grow, so idx advances monotonically
// through one draw pass.
func styleAtOffset(runs []stormlight.Span, idx *int, off stormlight.ByteOffset) (stormlight.Style, bool) {
	for *idx < len(runs) && runs[*idx].Range.End <= off {
		*idx++
	}
	if *idx < len(runs) && runs[*idx].Range.Contains(off) {
		return runs[*idx].Style, true
	}
	return stormlight.Style{}, false
}

// clusterWidth returns the display width of one grapheme cluster drawn at
// column x. Tabs advance to the next tab stop.
func clusterWidth(cluster string, x int) int {
	if cluster == "\t" {
		return tabWidth - x%tabWidth
	}
	w := uniseg.StringWidth(cluster)
	if w < 1 {
		w = 1
	}
	return w
}

// snapToCluster clamps a byte column to the nearest cluster start at or
// before it, so vertical motion cannot land inside a grapheme.
func snapToCluster(line string, col int) int {
	if col >= len(line) {
		return len(line)
	}
	pos := 0
	state := -1
	for len(line) > 0 {
		var cluster string
		cluster, line, _, state = uniseg.StepString(line, state)
		if pos+len(cluster) > col {
			return pos
		}
		pos += len(cluster)
	}
	return pos
}

// applyStyle converts an engine style to a tcell style on top of base.
func applyStyle(base tcell.Style, s stormlight.Style) tcell.Style {
	st := base
	if !s.Foreground.IsDefault() {
		st = st.Foreground(tcellColor(s.Foreground))
	}
	if !s.Background.IsDefault() {
		st = st.Background(tcellColor(s.Background))
	}
	if s.Attributes.Has(stormlight.AttrBold) {
		st = st.Bold(true)
	}
	if s.Attributes.Has(stormlight.AttrDim) {
		st = st.Dim(true)
	}
	if s.Attributes.Has(stormlight.AttrItalic) {
		st = st.Italic(true)
	}
	if s.Attributes.Has(stormlight.AttrUnderline) {
		st = st.Underline(true)
	}
	if s.Attributes.Has(stormlight.AttrStrikethrough) {
		st = st.StrikeThrough(true)
	}
	return st
}

func tcellColor(c stormlight.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
