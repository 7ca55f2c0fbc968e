// Package history persists the keyword history supplying the initial
// keyword set. The extraction core only reads it; the shell owns its
// lifecycle.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxKeywords bounds the history size; the oldest entries are dropped
// first.
const MaxKeywords = 1000

type historyFile struct {
	Keywords []string `json:"keywords"`
	Updated  string   `json:"updated"`
}

// Store is a JSON-file-backed keyword history. Most recent keywords last,
// case-insensitive deduplication.
type Store struct {
	path     string
	keywords []string
}

// NewStore creates a store backed by path. The file is created on first
// Save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the history file. A missing file is an empty history, not an
// error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.keywords = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot read keyword history: %w", err)
	}
	var hf historyFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return fmt.Errorf("corrupted keyword history file %s: %w", s.path, err)
	}
	s.keywords = hf.Keywords
	return nil
}

// Save writes the history back to disk, creating parent directories as
// needed.
func (s *Store) Save() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("cannot create history directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(historyFile{
		Keywords: s.keywords,
		Updated:  time.Now().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write keyword history: %w", err)
	}
	return nil
}

// Add appends a keyword, removing any existing case-insensitive duplicate
// so the keyword moves to the most-recent position.
func (s *Store) Add(keyword string) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return
	}
	s.Remove(keyword)
	s.keywords = append(s.keywords, keyword)
	if len(s.keywords) > MaxKeywords {
		s.keywords = s.keywords[len(s.keywords)-MaxKeywords:]
	}
}

// Remove deletes a keyword, case-insensitively.
func (s *Store) Remove(keyword string) {
	kept := s.keywords[:0]
	for _, kw := range s.keywords {
		if !strings.EqualFold(kw, keyword) {
			kept = append(kept, kw)
		}
	}
	s.keywords = kept
}

// Clear removes all keywords.
func (s *Store) Clear() {
	s.keywords = nil
}

// Keywords returns a copy of the history, oldest first.
func (s *Store) Keywords() []string {
	out := make([]string, len(s.keywords))
	copy(out, s.keywords)
	return out
}
