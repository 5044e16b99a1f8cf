// Package main is a terminal viewer and scratch editor for the stormlight
// highlighting engine. It opens one file (or a bundled sample), paints it
// with the engine's spans, and feeds every keystroke back through the
// incremental edit path.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	tsgrammars "github.com/odvcencio/gotreesitter/grammars"

	"github.com/dshills/stormlight"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.ListLanguages {
		listLanguages()
		return 0
	}
	if opts.WriteTheme != "" {
		if err := stormlight.SaveThemeFile(opts.WriteTheme, stormlight.OneMonokai()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: write theme: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", opts.WriteTheme)
		return 0
	}

	text, name, err := loadInput(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	grammar, err := pickGrammar(opts.Lang, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Use -list-languages to see the bundled grammars.\n")
		return 1
	}

	theme := stormlight.OneMonokai()
	if opts.Theme != "" {
		theme, err = stormlight.LoadTheme(opts.Theme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	doc, err := stormlight.New(text, grammar, stormlight.WithTheme(theme))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	v, err := newViewer(doc, opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	defer v.Shutdown()

	if opts.WatchTheme && opts.Theme != "" {
		watcher, err := stormlight.NewThemeWatcher(opts.Theme)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: watch theme: %v\n", err)
			return 1
		}
		defer watcher.Close()
		v.WatchThemes(watcher)
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		v.Quit()
	}()

	if err := v.Run(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// options holds the parsed command line.
type options struct {
	Theme         string
	WatchTheme    bool
	Lang          string
	ListLanguages bool
	WriteTheme    string
	File          string
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.Theme, "theme", "", "Path to a theme file (.json or .lua)")
	flag.BoolVar(&opts.WatchTheme, "watch-theme", false, "Reload the theme file when it changes")
	flag.StringVar(&opts.Lang, "lang", "", "Grammar to use, overriding file name detection")
	flag.BoolVar(&opts.ListLanguages, "list-languages", false, "List bundled grammars and exit")
	flag.StringVar(&opts.WriteTheme, "write-theme", "", "Write the default theme as JSON to the given path and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Stormlight - incremental syntax highlighting viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: stormlight [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stormlight                          Open the bundled Python sample\n")
		fmt.Fprintf(os.Stderr, "  stormlight main.go                  Open a file\n")
		fmt.Fprintf(os.Stderr, "  stormlight -lang python notes.txt   Force a grammar\n")
		fmt.Fprintf(os.Stderr, "  stormlight -theme t.json -watch-theme main.py\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Stormlight %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one file may be given\n")
		flag.Usage()
		os.Exit(1)
	}
	if flag.NArg() == 1 {
		opts.File = flag.Arg(0)
	}

	return opts
}

// loadInput reads the file to view, or falls back to the bundled sample.
// It returns the text and the name grammar detection should work from.
func loadInput(path string) (text, name string, err error) {
	if path == "" {
		return sampleText, "sample.py", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), filepath.Base(path), nil
}

// pickGrammar chooses the grammar: -lang wins, then file name detection.
func pickGrammar(lang, fileName string) (*stormlight.Grammar, error) {
	if lang != "" {
		return stormlight.GrammarForName(lang)
	}
	return stormlight.GrammarForFile(fileName)
}

func listLanguages() {
	languages := tsgrammars.AllLanguages()
	names := make([]string, 0, len(languages))
	for i := range languages {
		if strings.TrimSpace(languages[i].HighlightQuery) == "" {
			continue
		}
		names = append(names, languages[i].Name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(name)
	}
}

// sampleText is shown when no file is given.
const sampleText = `import antigravity

a = 42.5
x = f"Hello {a + 1}"

def scope_test():
    def do_local():
        spam = 'local spam'

    def do_nonlocal():
        nonlocal spam
        spam = 'nonlocal spam'

    def do_global():
        global spam
        spam = 'global spam'

    spam = 'test spam'
    do_local()
    print('After local assignment:', spam)
    do_nonlocal()
    print('After nonlocal assignment:', spam)
    do_global()
    print('After global assignment:', spam)

scope_test()
print('In global scope:', spam)
`
