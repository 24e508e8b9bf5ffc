// Package manifest maintains the durable hash ledger that enables O(1)
// "did anything change" checks without re-diffing full baseline text.
//
// The stored sha256 covers normalized stdout ONLY. A matching hash therefore
// does not guarantee stderr or exit-code equality; the comparator must still
// check both even on the fast path. Stdout is the dominant payload and the
// expensive part to diff, so this trade-off is load-bearing: widening the
// hash would silently change match semantics for every existing baseline.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FileName is the manifest's name inside the golden directory.
const FileName = "manifest.json"

// CurrentVersion is the manifest schema version written by this engine.
const CurrentVersion = 1

// Entry is the per-test ledger record. (Category, Name) is unique within a
// manifest. Normalizations snapshots the chain in effect at record time so
// a comparison against a stale chain is auditable.
type Entry struct {
	Category       string   `json:"category"`
	Name           string   `json:"name"`
	GoldenPath     string   `json:"golden_path"`
	SHA256         string   `json:"sha256"`
	ExitCode       int      `json:"exit_code"`
	Normalizations []string `json:"normalizations"`
}

// Manifest is the persisted ledger, with provenance metadata.
type Manifest struct {
	Version    int     `json:"version"`
	ToolCommit string  `json:"tool_commit"`
	RecordedAt string  `json:"recorded_at"`
	Entries    []Entry `json:"entries"`
}

// New returns an empty manifest at the current schema version.
func New() *Manifest {
	return &Manifest{Version: CurrentVersion, Entries: []Entry{}}
}

// Load reads the manifest from dir. A missing file yields an empty manifest,
// never an error; first-time runs have no ledger yet. A present but
// unparsable file is a structural error.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("corrupt manifest: %w", err)
	}
	if m.Entries == nil {
		m.Entries = []Entry{}
	}
	return &m, nil
}

// Save writes the manifest deterministically: entries sorted by identity,
// two-space indent, newline-terminated. Creates dir if needed.
func Save(m *Manifest, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}

	sort.SliceStable(m.Entries, func(i, j int) bool {
		if m.Entries[i].Category != m.Entries[j].Category {
			return m.Entries[i].Category < m.Entries[j].Category
		}
		return m.Entries[i].Name < m.Entries[j].Name
	})

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Find returns the entry for (category, name), or nil if absent.
func (m *Manifest) Find(category, name string) *Entry {
	for i := range m.Entries {
		if m.Entries[i].Category == category && m.Entries[i].Name == name {
			return &m.Entries[i]
		}
	}
	return nil
}

// Upsert replaces the entry with the same identity, or appends it.
// Re-recording never duplicates: at most one entry per (category, name).
func (m *Manifest) Upsert(e Entry) {
	for i := range m.Entries {
		if m.Entries[i].Category == e.Category && m.Entries[i].Name == e.Name {
			m.Entries[i] = e
			return
		}
	}
	m.Entries = append(m.Entries, e)
}

// Remove deletes the entry for (category, name), reporting whether one existed.
func (m *Manifest) Remove(category, name string) bool {
	for i := range m.Entries {
		if m.Entries[i].Category == category && m.Entries[i].Name == name {
			m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
			return true
		}
	}
	return false
}
