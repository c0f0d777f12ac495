package app

import (
	"errors"
	"time"

	"github.com/dshills/typewright/internal/config"
	"github.com/dshills/typewright/internal/renderer/backend"
	"github.com/dshills/typewright/internal/storage"
)

// handleEvent dispatches one terminal event. Returning ErrQuit unwinds
// the event loop.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		if app.pasting {
			app.collectPaste(ev)
			return nil
		}
		return app.handleKey(ev)

	case backend.EventMouse:
		app.handleMouse(ev)

	case backend.EventPaste:
		app.handlePasteBoundary(ev)

	case backend.EventRefresh:
		if cfg := app.takeNextConfig(); cfg != nil {
			app.applyConfig(*cfg)
			app.setMessage("config reloaded")
		}

	case backend.EventResize:
		// The next Frame reads the new size.
	}
	return nil
}

// handleKey runs one Notepad-style key binding. Shift held during a
// navigation key extends the selection: the engine only ever moves the
// cursor, and collapsing when shift is absent happens here.
func (app *Application) handleKey(ev backend.Event) error {
	app.message = ""
	defer app.resetConfirms(ev)

	if ev.Key == backend.KeyRune && ev.Mod.Has(backend.ModCtrl) {
		return app.handleControl(ev.Rune)
	}

	shift := ev.Mod.Has(backend.ModShift)
	ctrl := ev.Mod.Has(backend.ModCtrl)

	switch ev.Key {
	case backend.KeyRune:
		app.edit(func() { app.eng.InsertRune(ev.Rune) })
	case backend.KeyEnter:
		app.edit(func() { app.eng.InsertRune('\n') })
	case backend.KeyTab:
		app.edit(func() { app.eng.InsertRune('\t') })
	case backend.KeyBackspace:
		app.edit(func() { app.eng.Backspace() })
	case backend.KeyDelete:
		app.edit(func() { app.eng.Delete() })

	case backend.KeyLeft:
		app.move(shift, func() {
			if ctrl {
				app.eng.WordLeft()
			} else {
				app.eng.Left()
			}
		})
	case backend.KeyRight:
		app.move(shift, func() {
			if ctrl {
				app.eng.WordRight()
			} else {
				app.eng.Right()
			}
		})
	case backend.KeyUp:
		if ctrl {
			app.eng.Scroll(-1)
		} else {
			app.move(shift, app.eng.Up)
		}
	case backend.KeyDown:
		if ctrl {
			app.eng.Scroll(1)
		} else {
			app.move(shift, app.eng.Down)
		}
	case backend.KeyHome:
		if ctrl {
			app.move(shift, app.eng.DocumentStart)
		} else {
			app.move(shift, app.eng.Home)
		}
	case backend.KeyEnd:
		if ctrl {
			app.move(shift, app.eng.DocumentEnd)
		} else {
			app.move(shift, app.eng.End)
		}
	case backend.KeyPageUp:
		app.move(shift, app.eng.PageUp)
	case backend.KeyPageDown:
		app.move(shift, app.eng.PageDown)

	case backend.KeyEscape:
		app.eng.ClearSelection()

	case backend.KeyF2:
		app.runConfiguredScript()
	case backend.KeyF5:
		app.reloadConfig()
	}
	return nil
}

// handleControl runs the Ctrl-letter bindings. tcell reports control
// chords as the plain letter with ModCtrl set.
func (app *Application) handleControl(r rune) error {
	switch r {
	case 'a':
		app.eng.SelectAll()
	case 'c':
		if app.eng.HasSelection() {
			app.clipboard = app.eng.SelectedText()
		}
	case 'x':
		app.edit(func() {
			if text := app.eng.CutSelection(); text != "" {
				app.clipboard = text
			}
		})
	case 'v':
		app.edit(func() { app.eng.Paste(app.clipboard) })
	case 'z':
		app.edit(app.eng.Undo)
	case 'y':
		app.edit(app.eng.Redo)
	case 's':
		app.save()
	case 'q':
		return app.quitRequested()
	}
	return nil
}

// move runs a navigation operation and collapses the selection unless
// shift extends it.
func (app *Application) move(shift bool, op func()) {
	op()
	if !shift {
		app.eng.ClearSelection()
	}
}

// edit runs an editing operation, or beeps in read-only mode.
func (app *Application) edit(op func()) {
	if app.opts.ReadOnly {
		app.backend.Beep()
		app.setMessage("read-only")
		return
	}
	op()
}

// save writes the document, walking the confirm dance when the file
// changed on disk: the first Ctrl+S refuses, the next one forces.
func (app *Application) save() {
	if app.opts.ReadOnly {
		app.backend.Beep()
		app.setMessage("read-only")
		return
	}
	err := app.doc.Save(app.pendingForce)
	switch {
	case err == nil:
		app.pendingForce = false
		app.setMessage("wrote " + app.doc.Name())
		app.logger.WithComponent("document").Info("saved %s", app.doc.Path())
	case errors.Is(err, storage.ErrFileChanged):
		app.pendingForce = true
		app.setMessage("file changed on disk; Ctrl+S again to overwrite")
	case errors.Is(err, ErrNoFileName):
		app.backend.Beep()
		app.setMessage("no file name")
	default:
		app.backend.Beep()
		app.setMessage(err.Error())
		app.logger.WithComponent("document").Error("save: %v", err)
	}
}

// quitRequested quits, or with unsaved changes demands a second Ctrl+Q.
func (app *Application) quitRequested() error {
	if app.eng.Modified() && !app.pendingQuit {
		app.pendingQuit = true
		app.setMessage("unsaved changes; Ctrl+Q again to discard")
		return nil
	}
	return ErrQuit
}

// resetConfirms forgets pending confirmations as soon as any other key
// arrives.
func (app *Application) resetConfirms(ev backend.Event) {
	isCtrl := func(r rune) bool {
		return ev.Key == backend.KeyRune && ev.Mod.Has(backend.ModCtrl) && ev.Rune == r
	}
	if !isCtrl('q') {
		app.pendingQuit = false
	}
	if !isCtrl('s') {
		app.pendingForce = false
	}
}

func (app *Application) runConfiguredScript() {
	path := app.cfg.Editor.Script
	if path == "" {
		app.setMessage("no script configured")
		return
	}
	printed, err := app.RunScript(path)
	if err != nil {
		app.backend.Beep()
		app.setMessage("script: " + err.Error())
		app.logger.WithComponent("script").Error("%v", err)
		return
	}
	if len(printed) > 0 {
		app.setMessage(printed[len(printed)-1])
	} else {
		app.setMessage("script done")
	}
}

func (app *Application) reloadConfig() {
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		app.setMessage("config: " + err.Error())
		return
	}
	app.applyConfig(cfg)
	app.setMessage("config reloaded")
}

func (app *Application) setMessage(msg string) {
	app.message = msg
}

// wheelLines is how many text rows one wheel tick scrolls.
const wheelLines = 3

// handleMouse translates screen cells to text-area coordinates and
// drives click, drag, double click, and wheel scrolling.
func (app *Application) handleMouse(ev backend.Event) {
	ox, oy := app.rend.TextOrigin()
	x, y := ev.MouseX-ox, ev.MouseY-oy

	switch ev.Button {
	case backend.MouseWheelUp:
		app.eng.Scroll(-wheelLines)
	case backend.MouseWheelDown:
		app.eng.Scroll(wheelLines)

	case backend.MouseLeft:
		if app.mouseDown {
			// Drag: the cursor follows, the selection endpoint stays.
			app.eng.Click(x, y)
			return
		}
		app.mouseDown = true
		app.message = ""
		if app.clicks.record(ev.MouseX, ev.MouseY, time.Now()) == 2 {
			app.eng.DoubleClick(x, y)
			return
		}
		app.eng.Click(x, y)
		if !ev.Mod.Has(backend.ModShift) {
			app.eng.ClearSelection()
		}

	case backend.MouseNone:
		app.mouseDown = false
	}
}

// handlePasteBoundary brackets a paste: keys between the start and end
// markers accumulate and land as one edit, one undo step.
func (app *Application) handlePasteBoundary(ev backend.Event) {
	if ev.Start {
		app.pasting = true
		app.pasteBuf = app.pasteBuf[:0]
		return
	}
	app.pasting = false
	if len(app.pasteBuf) == 0 {
		return
	}
	app.edit(func() { app.eng.Paste(string(app.pasteBuf)) })
}

func (app *Application) collectPaste(ev backend.Event) {
	switch ev.Key {
	case backend.KeyRune:
		app.pasteBuf = append(app.pasteBuf, ev.Rune)
	case backend.KeyEnter:
		app.pasteBuf = append(app.pasteBuf, '\n')
	case backend.KeyTab:
		app.pasteBuf = append(app.pasteBuf, '\t')
	}
}

// clickTracker detects double clicks: a second press close enough in
// time and space to the first.
type clickTracker struct {
	lastX, lastY int
	lastTime     time.Time
	count        int
}

const (
	clickMaxInterval = 400 * time.Millisecond
	clickMaxDistance = 1 // cells, per axis
)

// record notes a press and returns its position in the click sequence,
// starting over after a double click.
func (t *clickTracker) record(x, y int, now time.Time) int {
	same := t.count > 0 &&
		now.Sub(t.lastTime) >= 0 && now.Sub(t.lastTime) <= clickMaxInterval &&
		abs(x-t.lastX) <= clickMaxDistance && abs(y-t.lastY) <= clickMaxDistance
	if same {
		t.count++
		if t.count > 2 {
			t.count = 1
		}
	} else {
		t.count = 1
	}
	t.lastX, t.lastY, t.lastTime = x, y, now
	return t.count
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
