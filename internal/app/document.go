package app

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"github.com/dshills/typewright/internal/engine"
	"github.com/dshills/typewright/internal/storage"
)

// Document binds the engine's in-memory text to a file on disk. The
// engine always holds LF-normalized UTF-8; the on-disk encoding and
// line ending live in the FileInfo and are restored on save.
type Document struct {
	eng  *engine.Engine
	info storage.FileInfo
}

// NewDocument creates an untitled empty document over eng.
func NewDocument(eng *engine.Engine) *Document {
	return &Document{eng: eng}
}

// Open loads the file at path into the engine. A path that does not
// exist yet opens as an empty document that will be created on save.
// fallback decodes files without a byte order mark.
func (d *Document) Open(path string, fallback storage.Encoding) error {
	text, info, err := storage.Load(path, fallback)
	if errors.Is(err, fs.ErrNotExist) {
		abs, aerr := filepath.Abs(path)
		if aerr != nil {
			return aerr
		}
		d.info = storage.FileInfo{Path: abs, Encoding: fallback}
		d.eng.Load("", false)
		return nil
	}
	if err != nil {
		return err
	}
	d.info = info
	d.eng.Load(text, false)
	return nil
}

// Save writes the engine's content back to the document's path in its
// original encoding and line ending, then marks the engine saved. When
// the file changed on disk since it was loaded, Save refuses with
// storage.ErrFileChanged unless force is set.
func (d *Document) Save(force bool) error {
	if d.info.Path == "" {
		return ErrNoFileName
	}
	if err := storage.Save(d.info.Path, d.eng.Content(), &d.info, force); err != nil {
		return err
	}
	d.eng.MarkSaved()
	return nil
}

// Path returns the absolute file path, empty for an untitled document.
func (d *Document) Path() string {
	return d.info.Path
}

// Name returns the file's base name, or "untitled".
func (d *Document) Name() string {
	if d.info.Path == "" {
		return "untitled"
	}
	return filepath.Base(d.info.Path)
}

// Info returns the document's on-disk representation.
func (d *Document) Info() storage.FileInfo {
	return d.info
}

// ChangedOnDisk reports whether the file was modified behind the
// editor's back.
func (d *Document) ChangedOnDisk() bool {
	return storage.Changed(d.info)
}

// scriptHost exposes the engine to Lua scripts through the script.Host
// surface. The engine panics on bad positions; scripts get errors
// instead, so a buggy script fails its run rather than the editor.
type scriptHost struct {
	eng *engine.Engine
}

func (h *scriptHost) Content() string {
	return h.eng.Content()
}

func (h *scriptHost) LineCount() int {
	return h.eng.NumLines()
}

func (h *scriptHost) Cursor() int {
	return h.eng.CursorPos()
}

func (h *scriptHost) SetCursor(pos int) error {
	if pos < 0 || pos > h.eng.Len() {
		return fmt.Errorf("position %d outside document of length %d", pos, h.eng.Len())
	}
	h.eng.SetCursor(pos)
	return nil
}

func (h *scriptHost) Selection() (start, end int) {
	return h.eng.Selection()
}

func (h *scriptHost) SelectedText() string {
	return h.eng.SelectedText()
}

func (h *scriptHost) Insert(text string) error {
	if !utf8.ValidString(text) {
		return errors.New("insert: text is not valid UTF-8")
	}
	h.eng.Paste(text)
	return nil
}

func (h *scriptHost) Replace(start, end int, text string) error {
	n := h.eng.Len()
	if start < 0 || end > n || start > end {
		return fmt.Errorf("range [%d,%d) outside document of length %d", start, end, n)
	}
	if !utf8.ValidString(text) {
		return errors.New("replace: text is not valid UTF-8")
	}
	h.eng.Replace(start, end, text)
	return nil
}
