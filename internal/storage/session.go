package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maxRecent bounds the recent-files list.
const maxRecent = 10

// Session persists small cross-run state: a stable session id, the
// recently opened files, and the last cursor offset per file. The
// backing JSON is edited in place, so fields written by other versions
// survive a round trip.
type Session struct {
	path string
	id   string
	raw  []byte
}

type recentEntry struct {
	Path   string `json:"path"`
	Cursor int    `json:"cursor"`
}

// DefaultSessionPath returns the per-user session file location.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "typewright", "session.json"), nil
}

// OpenSession reads the session file at path. A missing or corrupt file
// degrades to a fresh session with a new id.
func OpenSession(path string) *Session {
	s := &Session{path: path, raw: []byte("{}")}
	if data, err := os.ReadFile(path); err == nil && gjson.ValidBytes(data) {
		s.raw = data
	}

	s.id = gjson.GetBytes(s.raw, "id").String()
	if uuid.Validate(s.id) != nil {
		s.id = uuid.NewString()
		if raw, err := sjson.SetBytes(s.raw, "id", s.id); err == nil {
			s.raw = raw
		}
	}
	return s
}

// ID returns the session's stable identifier.
func (s *Session) ID() string {
	return s.id
}

// RecentFiles returns the recently opened paths, most recent first.
func (s *Session) RecentFiles() []string {
	entries := s.entries()
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// Cursor returns the stored cursor offset for path.
func (s *Session) Cursor(path string) (int, bool) {
	for _, e := range s.entries() {
		if e.Path == path {
			return e.Cursor, true
		}
	}
	return 0, false
}

// Touch moves path to the front of the recent list and records its
// cursor offset.
func (s *Session) Touch(path string, cursor int) {
	entries := s.entries()
	out := make([]recentEntry, 0, len(entries)+1)
	out = append(out, recentEntry{Path: path, Cursor: cursor})
	for _, e := range entries {
		if e.Path != path {
			out = append(out, e)
		}
	}
	if len(out) > maxRecent {
		out = out[:maxRecent]
	}
	if raw, err := sjson.SetBytes(s.raw, "recent", out); err == nil {
		s.raw = raw
	}
}

// Save writes the session file, creating its directory as needed.
func (s *Session) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := writeFileAtomic(s.path, s.raw, 0o600); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (s *Session) entries() []recentEntry {
	var out []recentEntry
	for _, e := range gjson.GetBytes(s.raw, "recent").Array() {
		out = append(out, recentEntry{
			Path:   e.Get("path").String(),
			Cursor: int(e.Get("cursor").Int()),
		})
	}
	return out
}
