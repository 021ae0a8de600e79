package mood

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// historyLimit bounds how many past choices the store keeps.
const historyLimit = 5

// Store persists the rolling mood history as a small JSON record on disk.
// Access is single-process, last writer wins.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

type historyRecord struct {
	History []string `json:"history"`
}

// Load reads the persisted history. A missing, unreadable, or malformed file
// means no history; labels outside the mood set are dropped.
func (s *Store) Load() []Mood {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var record historyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}

	history := make([]Mood, 0, len(record.History))
	for _, label := range record.History {
		m := Mood(label)
		if m.Valid() {
			history = append(history, m)
		}
	}
	return history
}

// Save persists the last historyLimit entries of history, creating the
// storage directory if needed.
func (s *Store) Save(history []Mood) error {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	record := historyRecord{History: make([]string, len(history))}
	for i, m := range history {
		record.History[i] = string(m)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode mood history: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create mood history directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write mood history: %w", err)
	}
	return nil
}
