// Package session persists per-file view state between runs: scroll
// position and cursor location, keyed by file path. Font-size overrides
// are deliberately not stored; they live only for the process lifetime.
package session

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrNoState indicates no saved state exists for the file.
var ErrNoState = errors.New("no saved state")

const emptyDoc = `{"version":1,"files":{}}`

// ViewState captures the restorable view of a single file.
type ViewState struct {
	ScrollX    float64 `json:"scrollX"`
	ScrollY    float64 `json:"scrollY"`
	CursorLine int     `json:"cursorLine"`
	CursorCol  int     `json:"cursorCol"`
}

// Store reads and writes view state in a single JSON document.
// Entries are keyed by a hash of the file path; the path itself is
// kept inside the entry. Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	doc  string
}

// NewStore opens the store at path, loading any existing document.
// The store is a cache: an unreadable or corrupt document is replaced
// with an empty one rather than reported.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, doc: emptyDoc}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	if doc := string(data); gjson.Valid(doc) {
		s.doc = doc
	}
	return s, nil
}

// Get returns the saved state for a file, or ErrNoState.
func (s *Store) Get(file string) (ViewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := gjson.Get(s.doc, "files."+fileKey(file))
	if !entry.Exists() {
		return ViewState{}, ErrNoState
	}

	return ViewState{
		ScrollX:    entry.Get("scrollX").Float(),
		ScrollY:    entry.Get("scrollY").Float(),
		CursorLine: int(entry.Get("cursorLine").Int()),
		CursorCol:  int(entry.Get("cursorCol").Int()),
	}, nil
}

// Put saves the state for a file and persists the document.
func (s *Store) Put(file string, state ViewState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := map[string]any{
		"path":       filepath.Clean(file),
		"scrollX":    state.ScrollX,
		"scrollY":    state.ScrollY,
		"cursorLine": state.CursorLine,
		"cursorCol":  state.CursorCol,
		"savedAt":    time.Now().UTC().Format(time.RFC3339),
	}

	doc, err := sjson.Set(s.doc, "files."+fileKey(file), entry)
	if err != nil {
		return fmt.Errorf("updating session state: %w", err)
	}
	s.doc = doc

	return s.persistLocked()
}

// Remove drops the saved state for a file. Removing an absent entry is
// not an error.
func (s *Store) Remove(file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := "files." + fileKey(file)
	if !gjson.Get(s.doc, key).Exists() {
		return nil
	}

	doc, err := sjson.Delete(s.doc, key)
	if err != nil {
		return fmt.Errorf("removing session state: %w", err)
	}
	s.doc = doc

	return s.persistLocked()
}

// Prune removes entries older than maxAge (and entries whose savedAt
// is unreadable). It returns how many were removed.
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)

	var stale []string
	gjson.Get(s.doc, "files").ForEach(func(key, value gjson.Result) bool {
		savedAt, err := time.Parse(time.RFC3339, value.Get("savedAt").String())
		if err != nil || savedAt.Before(cutoff) {
			stale = append(stale, key.String())
		}
		return true
	})

	for _, key := range stale {
		doc, err := sjson.Delete(s.doc, "files."+key)
		if err != nil {
			return 0, fmt.Errorf("pruning session state: %w", err)
		}
		s.doc = doc
	}

	if len(stale) == 0 {
		return 0, nil
	}
	return len(stale), s.persistLocked()
}

// Count returns the number of stored entries.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(gjson.Get(s.doc, "files").Map())
}

// Files returns the paths of all stored entries.
func (s *Store) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var files []string
	gjson.Get(s.doc, "files").ForEach(func(_, value gjson.Result) bool {
		files = append(files, value.Get("path").String())
		return true
	})
	return files
}

// Path returns the store's document path.
func (s *Store) Path() string {
	return s.path
}

// persistLocked writes the document through a temp file and rename so
// a crash mid-write cannot truncate the previous state. Callers hold s.mu.
func (s *Store) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}

	if _, err := tmp.WriteString(s.doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing session state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing session state: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing session state: %w", err)
	}
	return nil
}

// fileKey hashes a file path into a stable JSON-safe key.
func fileKey(file string) string {
	h := fnv.New64a()
	_, _ = io.WriteString(h, filepath.Clean(file))
	return strconv.FormatUint(h.Sum64(), 16)
}

// DefaultPath returns the default session state location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "brackets", "session.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "brackets", "session.json")
}
