package highlight

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the write bursts editors produce when saving.
const DefaultDebounce = 100 * time.Millisecond

// ThemeWatcher reloads a theme file whenever it changes on disk.
//
// The watch is placed on the file's directory rather than the file itself:
// editors commonly save by writing a temp file and renaming it over the
// original, which silently kills a direct file watch.
type ThemeWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration

	themes chan *Theme
	errs   chan error

	closeOnce sync.Once
	closeCh   chan struct{}
	wg        sync.WaitGroup
}

// NewThemeWatcher starts watching the theme file at path. The file does
// not need to exist yet; the first successful load is delivered once it
// appears.
func NewThemeWatcher(path string) (*ThemeWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &ThemeWatcher{
		watcher:  fsw,
		path:     abs,
		debounce: DefaultDebounce,
		themes:   make(chan *Theme, 1),
		errs:     make(chan error, 4),
		closeCh:  make(chan struct{}),
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Themes returns the channel of successfully reloaded themes.
func (w *ThemeWatcher) Themes() <-chan *Theme {
	return w.themes
}

// Errors returns the channel of reload and watch errors.
func (w *ThemeWatcher) Errors() <-chan error {
	return w.errs
}

// Path returns the absolute path being watched.
func (w *ThemeWatcher) Path() string {
	return w.path
}

// Close stops the watcher. The Themes and Errors channels are closed once
// the processing loop has drained.
func (w *ThemeWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.wg.Wait()
		close(w.themes)
		close(w.errs)
		err = w.watcher.Close()
	})
	return err
}

// processLoop handles incoming fsnotify events.
func (w *ThemeWatcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			timer = nil
			timerC = nil
			theme, err := LoadTheme(w.path)
			if err != nil {
				w.sendError(err)
				continue
			}
			w.sendTheme(theme)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// matches reports whether a notification names the watched file.
func (w *ThemeWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.path
}

// sendTheme delivers a theme, replacing an undelivered one: only the
// newest reload matters.
func (w *ThemeWatcher) sendTheme(theme *Theme) {
	for {
		select {
		case w.themes <- theme:
			return
		default:
			select {
			case <-w.themes:
			default:
			}
		}
	}
}

// sendError delivers an error, dropping it if nobody is listening.
func (w *ThemeWatcher) sendError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
