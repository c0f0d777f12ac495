// Package app wires the editor together: engine, renderer, terminal
// backend, configuration, document storage, and the event loop.
package app

import (
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/typewright/internal/config"
	"github.com/dshills/typewright/internal/engine"
	"github.com/dshills/typewright/internal/renderer"
	"github.com/dshills/typewright/internal/renderer/backend"
	"github.com/dshills/typewright/internal/renderer/core"
	"github.com/dshills/typewright/internal/renderer/layout"
	"github.com/dshills/typewright/internal/script"
	"github.com/dshills/typewright/internal/storage"
)

// Options configures the application.
type Options struct {
	// ConfigPath overrides the default configuration file location.
	ConfigPath string

	// Files are files to open on startup. Only the first is opened;
	// the editor holds one document.
	Files []string

	// LogLevel overrides the configured logging verbosity when set.
	LogLevel string

	// ReadOnly rejects every editing operation.
	ReadOnly bool

	// NoSession disables reading and writing the session file.
	NoSession bool
}

// Application owns every component and runs the event loop. All methods
// except RequestQuit must be called from one goroutine.
type Application struct {
	opts   Options
	cfg    config.Config
	logger *Logger
	logOut io.WriteCloser

	backend backend.Backend
	eng     *engine.Engine
	shaper  *layout.Shaper
	rend    *renderer.Renderer
	doc     *Document
	session *storage.Session
	watcher *config.Watcher

	// live reload hands the fresh config over from the watcher goroutine
	cfgMu   sync.Mutex
	nextCfg *config.Config

	quit     atomic.Bool
	shutdown sync.Once

	// transient UI state owned by the event loop
	clipboard    string
	message      string
	pendingQuit  bool
	pendingForce bool
	mouseDown    bool
	clicks       clickTracker
	pasting      bool
	pasteBuf     []rune
}

// New creates an application, loads its configuration, and opens the
// startup document. The terminal attaches later via SetBackend.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			cfgPath = p
		}
	}
	cfg, err := config.Load(cfgPath)
	app.cfg = cfg
	app.opts.ConfigPath = cfgPath

	app.initLogger()
	if err != nil {
		app.logger.Warn("config: %v", err)
	}

	app.shaper = layout.NewShaper(cfg.Editor.TabWidth, cfg.Editor.WordWrap)
	app.eng = engine.New(app.shaper)
	app.doc = NewDocument(app.eng)

	if !opts.NoSession {
		if p, err := storage.DefaultSessionPath(); err == nil {
			app.session = storage.OpenSession(p)
			app.logger = app.logger.WithField("session", app.session.ID())
		}
	}

	if err := app.openStartupFile(); err != nil {
		return nil, err
	}
	return app, nil
}

// initLogger builds the logger from the config's log section. The flag
// level wins over the configured one. Without a log file, logging is
// off; the terminal belongs to the editor.
func (app *Application) initLogger() {
	level := ParseLogLevel(app.cfg.Log.Level)
	if app.opts.LogLevel != "" {
		level = ParseLogLevel(app.opts.LogLevel)
	}

	if app.cfg.Log.File == "" {
		app.logger = NullLogger
		return
	}
	f, err := os.OpenFile(app.cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		app.logger = NullLogger
		return
	}
	app.logOut = f
	app.logger = NewLogger(level, f)
}

// openStartupFile opens the first file argument, or the most recent
// session file when started bare, or leaves the document untitled.
func (app *Application) openStartupFile() error {
	enc, err := storage.ParseEncoding(app.cfg.Files.Encoding)
	if err != nil {
		app.logger.Warn("config: %v", err)
		enc = storage.EncodingUTF8
	}

	path := ""
	if len(app.opts.Files) > 0 {
		path = app.opts.Files[0]
		if len(app.opts.Files) > 1 {
			app.logger.Warn("ignoring %d extra file arguments", len(app.opts.Files)-1)
		}
	} else if app.session != nil {
		for _, p := range app.session.RecentFiles() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path == "" {
		return nil
	}

	if err := app.doc.Open(path, enc); err != nil {
		return err
	}
	app.logger.WithComponent("document").Info("opened %s", app.doc.Path())

	if app.session != nil {
		if cur, ok := app.session.Cursor(app.doc.Path()); ok {
			if n := app.eng.Len(); cur > n {
				cur = n
			}
			if cur > 0 {
				app.eng.SetCursor(cur)
			}
		}
	}
	return nil
}

// SetBackend attaches the terminal surface and builds the renderer on
// it. Must be called before Run.
func (app *Application) SetBackend(b backend.Backend) {
	app.backend = b
	app.rend = renderer.New(b, app.eng, renderer.DarkTheme())
}

// Run initializes the backend and drives the event loop until quit or
// failure. A user-requested quit returns ErrQuit.
func (app *Application) Run() error {
	if app.backend == nil {
		return ErrNoBackend
	}
	if err := app.backend.Init(); err != nil {
		return err
	}
	app.backend.EnableMouse()
	app.backend.EnablePaste()
	app.applyConfig(app.cfg)
	app.startWatcher()

	for {
		app.rend.SetStatus(app.status())
		app.rend.Frame()

		ev := app.backend.PollEvent()
		if app.quit.Load() {
			return ErrQuit
		}
		if err := app.handleEvent(ev); err != nil {
			return err
		}
	}
}

// RequestQuit asks the event loop to exit. Safe to call from any
// goroutine; signal handlers use it.
func (app *Application) RequestQuit() {
	app.quit.Store(true)
	if app.backend != nil {
		app.backend.PostEvent(backend.Event{Type: backend.EventRefresh})
	}
}

// Shutdown releases the terminal and persists session state. Safe to
// call more than once.
func (app *Application) Shutdown() {
	app.shutdown.Do(func() {
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if app.backend != nil {
			app.backend.Shutdown()
		}
		if app.session != nil {
			if app.doc.Path() != "" {
				app.session.Touch(app.doc.Path(), app.eng.CursorPos())
			}
			if err := app.session.Save(); err != nil {
				app.logger.Warn("session: %v", err)
			}
		}
		if app.logOut != nil {
			_ = app.logOut.Close()
		}
	})
}

// startWatcher begins live config reload. The callback runs on the
// watcher's goroutine, so it parks the config and wakes the event loop
// instead of touching shared state.
func (app *Application) startWatcher() {
	if app.opts.ConfigPath == "" {
		return
	}
	w, err := config.Watch(app.opts.ConfigPath,
		func(cfg config.Config) {
			app.cfgMu.Lock()
			app.nextCfg = &cfg
			app.cfgMu.Unlock()
			app.backend.PostEvent(backend.Event{Type: backend.EventRefresh})
		},
		config.WithErrorHandler(func(err error) {
			app.logger.WithComponent("config").Warn("watch: %v", err)
		}),
	)
	if err != nil {
		app.logger.WithComponent("config").Warn("watch: %v", err)
		return
	}
	app.watcher = w
}

// takeNextConfig collects a config parked by the watcher, if any.
func (app *Application) takeNextConfig() *config.Config {
	app.cfgMu.Lock()
	defer app.cfgMu.Unlock()
	cfg := app.nextCfg
	app.nextCfg = nil
	return cfg
}

// applyConfig pushes a configuration into the live components,
// invalidating shaped layouts when text metrics changed.
func (app *Application) applyConfig(cfg config.Config) {
	reshape := cfg.Editor.TabWidth != app.shaper.TabWidth() ||
		cfg.Editor.WordWrap != app.cfg.Editor.WordWrap
	app.shaper.SetTabWidth(cfg.Editor.TabWidth)
	app.shaper.SetWordWrap(cfg.Editor.WordWrap)
	if reshape {
		app.eng.InvalidateLayout()
	}

	theme, ok := renderer.ThemeByName(cfg.UI.Theme)
	if !ok {
		app.logger.Warn("config: unknown theme %q", cfg.UI.Theme)
		theme = renderer.DarkTheme()
	}
	if cfg.UI.Accent != "" {
		if accent, err := core.ColorFromHex(cfg.UI.Accent); err == nil {
			theme = theme.WithAccent(accent)
		} else {
			app.logger.Warn("config: bad accent color: %v", err)
		}
	}
	app.rend.SetTheme(theme)
	app.rend.SetShowLineNumbers(cfg.Editor.LineNumbers)
	app.backend.SetCursorStyle(parseCursorStyle(cfg.UI.CursorStyle))

	app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	app.cfg = cfg
}

// RunScript executes the Lua file at path against the document. The
// run is one edit group, so however many edits the script makes, a
// single undo reverts them all.
func (app *Application) RunScript(path string) ([]string, error) {
	if app.opts.ReadOnly {
		return nil, ErrReadOnly
	}
	app.eng.BeginGroup()
	defer app.eng.EndGroup()
	r := script.NewRunner(&scriptHost{eng: app.eng})
	err := r.RunFile(path)
	return r.Printed(), err
}

// RunBatch executes the Lua file at path against the opened document
// and saves the result, without ever touching the terminal. Read-only
// mode runs the script but skips the save, which makes it a dry run.
func (app *Application) RunBatch(scriptPath string) ([]string, error) {
	if app.doc.Path() == "" {
		return nil, ErrNoFileName
	}
	r := script.NewRunner(&scriptHost{eng: app.eng})
	if err := r.RunFile(scriptPath); err != nil {
		return r.Printed(), err
	}
	if app.opts.ReadOnly {
		return r.Printed(), nil
	}
	return r.Printed(), app.doc.Save(false)
}

// status assembles the status line for the next frame.
func (app *Application) status() renderer.Status {
	info := app.doc.Info()
	s := renderer.Status{
		Name:     app.doc.Name(),
		Modified: app.eng.Modified(),
		ReadOnly: app.opts.ReadOnly,
		Message:  app.message,
	}
	if info.Encoding != "" {
		s.Encoding = string(info.Encoding)
	}
	if info.LineEnding != "" {
		s.LineEnd = strings.ToUpper(string(info.LineEnding))
	}
	return s
}

func parseCursorStyle(name string) backend.CursorStyle {
	switch name {
	case "underline":
		return backend.CursorUnderline
	case "block":
		return backend.CursorBlock
	default:
		return backend.CursorBar
	}
}
