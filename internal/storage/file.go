// Package storage reads and writes document files, handling character
// encodings, byte order marks, and line endings, plus the editor's
// session state.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	// ErrFileChanged means the file on disk is newer than the copy the
	// document was loaded from. Saving over it needs force.
	ErrFileChanged = errors.New("file changed on disk")

	// ErrBinaryFile means the content does not look like text.
	ErrBinaryFile = errors.New("binary file")

	// ErrIsDirectory means the path names a directory.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge means the file exceeds the open size limit.
	ErrTooLarge = errors.New("file too large")

	// ErrUnknownEncoding means the encoding name is not supported.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

// maxFileSize bounds what Load will read.
const maxFileSize = 32 << 20

// Encoding names a supported character encoding.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF8BOM Encoding = "utf-8-bom"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingLatin1  Encoding = "latin-1"
	EncodingWin1252 Encoding = "windows-1252"
)

// LineEnding names a line ending style.
type LineEnding string

const (
	LineEndingLF   LineEnding = "lf"
	LineEndingCRLF LineEnding = "crlf"
	LineEndingCR   LineEnding = "cr"
)

// Newline returns the ending's byte sequence.
func (le LineEnding) Newline() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// FileInfo records how a document sits on disk, so a save can restore
// exactly the representation the load found. The zero value describes a
// new file: utf-8, LF, mode 0644.
type FileInfo struct {
	Path       string
	Encoding   Encoding
	LineEnding LineEnding
	ModTime    time.Time
	Perm       fs.FileMode
}

// ParseEncoding maps a config spelling to an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "utf-8-bom", "utf8-bom":
		return EncodingUTF8BOM, nil
	case "utf-16le", "utf16le":
		return EncodingUTF16LE, nil
	case "utf-16be", "utf16be":
		return EncodingUTF16BE, nil
	case "latin-1", "latin1", "iso-8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252":
		return EncodingWin1252, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Byte order marks.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Load reads the file at path and returns its content as UTF-8 text
// with LF line endings, along with the on-disk representation needed to
// save it back. A BOM picks the encoding; without one, fallback applies
// (except that invalid UTF-8 under a utf-8 fallback degrades to
// latin-1, which accepts every byte).
func Load(path string, fallback Encoding) (string, FileInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", FileInfo{}, err
	}

	st, err := os.Stat(abs)
	if err != nil {
		return "", FileInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}
	if st.IsDir() {
		return "", FileInfo{}, fmt.Errorf("opening %s: %w", path, ErrIsDirectory)
	}
	if st.Size() > maxFileSize {
		return "", FileInfo{}, fmt.Errorf("opening %s: %w", path, ErrTooLarge)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", FileInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}

	enc, body := detectEncoding(data, fallback)
	text, err := decode(body, enc)
	if err != nil {
		return "", FileInfo{}, fmt.Errorf("decoding %s as %s: %w", path, enc, err)
	}
	if isBinary(text) {
		return "", FileInfo{}, fmt.Errorf("opening %s: %w", path, ErrBinaryFile)
	}

	info := FileInfo{
		Path:       abs,
		Encoding:   enc,
		LineEnding: detectLineEnding(text),
		ModTime:    st.ModTime(),
		Perm:       st.Mode().Perm(),
	}
	return normalizeToLF(text), info, nil
}

// Save writes text to path in info's on-disk representation and
// refreshes info's Path and ModTime. When the file on disk is newer
// than info.ModTime it refuses with ErrFileChanged unless force is set.
func Save(path, text string, info *FileInfo, force bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if !force && !info.ModTime.IsZero() {
		if st, err := os.Stat(abs); err == nil && !st.ModTime().Equal(info.ModTime) {
			return fmt.Errorf("saving %s: %w", path, ErrFileChanged)
		}
	}

	enc := info.Encoding
	if enc == "" {
		enc = EncodingUTF8
	}
	le := info.LineEnding
	if le == "" {
		le = LineEndingLF
	}
	perm := info.Perm
	if perm == 0 {
		perm = 0o644
	}

	out := text
	if le != LineEndingLF {
		out = strings.ReplaceAll(out, "\n", le.Newline())
	}
	data, err := encode(out, enc)
	if err != nil {
		return fmt.Errorf("encoding %s as %s: %w", path, enc, err)
	}

	if err := writeFileAtomic(abs, data, perm); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}

	st, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	info.Path = abs
	info.Encoding = enc
	info.LineEnding = le
	info.ModTime = st.ModTime()
	info.Perm = perm
	return nil
}

// Changed reports whether the file on disk no longer matches info's
// modification time. A missing file does not count as changed.
func Changed(info FileInfo) bool {
	if info.Path == "" || info.ModTime.IsZero() {
		return false
	}
	st, err := os.Stat(info.Path)
	if err != nil {
		return false
	}
	return !st.ModTime().Equal(info.ModTime)
}

// detectEncoding resolves the encoding from a BOM, falling back to the
// configured one, and returns the content with any BOM stripped.
func detectEncoding(data []byte, fallback Encoding) (Encoding, []byte) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8BOM, data[3:]
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE, data[2:]
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE, data[2:]
	}
	if fallback == "" {
		fallback = EncodingUTF8
	}
	if fallback == EncodingUTF8 && !utf8.Valid(data) {
		return EncodingLatin1, data
	}
	return fallback, data
}

// decode converts body to UTF-8.
func decode(body []byte, enc Encoding) (string, error) {
	dec := decoderFor(enc)
	if dec == nil {
		return string(body), nil
	}
	out, err := dec.Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// encode converts UTF-8 text to the target encoding, without BOM
// handling for UTF-8 itself. Runes the target cannot express become
// substitution bytes rather than failing the save.
func encode(text string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(text), nil
	case EncodingUTF8BOM:
		return append(append([]byte{}, bomUTF8...), text...), nil
	}

	e := encoderFor(enc)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
	data, err := e.Bytes([]byte(text))
	if err != nil {
		return nil, err
	}
	switch enc {
	case EncodingUTF16LE:
		data = append(append([]byte{}, bomUTF16LE...), data...)
	case EncodingUTF16BE:
		data = append(append([]byte{}, bomUTF16BE...), data...)
	}
	return data, nil
}

func decoderFor(enc Encoding) *encoding.Decoder {
	switch enc {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder()
	case EncodingWin1252:
		return charmap.Windows1252.NewDecoder()
	default:
		return nil
	}
}

func encoderFor(enc Encoding) *encoding.Encoder {
	switch enc {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	case EncodingLatin1:
		return encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
	case EncodingWin1252:
		return encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	default:
		return nil
	}
}

// detectLineEnding returns the dominant ending, CRLF winning ties.
func detectLineEnding(text string) LineEnding {
	var lf, crlf, cr int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	if crlf >= lf && crlf >= cr && crlf > 0 {
		return LineEndingCRLF
	}
	if cr > lf {
		return LineEndingCR
	}
	return LineEndingLF
}

// normalizeToLF rewrites every line ending as a single \n.
func normalizeToLF(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\r' {
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			b.WriteByte('\n')
			continue
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// isBinary guesses from the first 8KB of decoded text: NUL bytes or a
// high share of control characters mean not text.
func isBinary(text string) bool {
	sample := text
	if len(sample) > 8192 {
		sample = sample[:8192]
	}
	if strings.ContainsRune(sample, 0) {
		return true
	}
	control := 0
	for i := 0; i < len(sample); i++ {
		if b := sample[i]; b < 32 && b != '\t' && b != '\n' && b != '\r' {
			control++
		}
	}
	return len(sample) > 0 && float64(control)/float64(len(sample)) > 0.1
}

// writeFileAtomic writes data to a temp file in path's directory and
// renames it into place, so a crash mid-write never truncates the
// original.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
