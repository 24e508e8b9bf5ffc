// Package golden reads and writes on-disk baselines.
//
// Per test identity (category, name) the layout under the golden dir is:
//
//	category/name.json    metadata: exit code, stderr, sidecar pointer
//	category/name.stdout  normalized stdout, kept as plain text so version
//	                      control diffs stay human-readable
//	manifest.json         hash ledger (see package manifest)
//
// Snapshots are created or overwritten only by the Recorder and are
// read-only to the comparator.
package golden

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoSnapshot marks a test case with no recorded baseline at all.
// Expected for first-time tests; surfaced as status "new", not an error.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// ErrStdoutMissing marks metadata whose stdout sidecar has gone missing.
var ErrStdoutMissing = errors.New("snapshot stdout sidecar missing")

// Snapshot is a stored baseline: the expected observable behavior.
type Snapshot struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// metadata is the name.json wire form. Stderr lives inline; stdout lives in
// the sidecar named by StdoutFile.
type metadata struct {
	ExitCode   int    `json:"exit_code"`
	StdoutFile string `json:"stdout_file"`
	Stderr     string `json:"stderr"`
}

// MetadataPath returns the metadata file path for an identity.
func MetadataPath(dir, category, name string) string {
	return filepath.Join(dir, category, name+".json")
}

// StdoutPath returns the stdout sidecar path for an identity.
func StdoutPath(dir, category, name string) string {
	return filepath.Join(dir, category, name+".stdout")
}

// Digest returns the hex sha256 of normalized stdout, the value stored in
// the manifest. It deliberately covers stdout only.
func Digest(stdout string) string {
	sum := sha256.Sum256([]byte(stdout))
	return hex.EncodeToString(sum[:])
}

// Load reads the baseline for (category, name) from dir.
//
// Returns ErrNoSnapshot if no metadata exists, ErrStdoutMissing if metadata
// names a sidecar that is absent, and a parse error if the metadata is
// corrupt. Callers map these onto the new/missing/error statuses.
func Load(dir, category, name string) (*Snapshot, error) {
	data, err := os.ReadFile(MetadataPath(dir, category, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot metadata: %w", err)
	}

	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse snapshot metadata: %w", err)
	}

	stdoutFile := meta.StdoutFile
	if stdoutFile == "" {
		stdoutFile = name + ".stdout"
	}
	stdout, err := os.ReadFile(filepath.Join(dir, category, stdoutFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrStdoutMissing, stdoutFile)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot stdout: %w", err)
	}

	return &Snapshot{
		ExitCode: meta.ExitCode,
		Stdout:   string(stdout),
		Stderr:   meta.Stderr,
	}, nil
}

// write persists one baseline, overwriting any prior files.
func write(dir, category, name string, snap Snapshot) error {
	catDir := filepath.Join(dir, category)
	if err := os.MkdirAll(catDir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	meta := metadata{
		ExitCode:   snap.ExitCode,
		StdoutFile: name + ".stdout",
		Stderr:     snap.Stderr,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot metadata: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(MetadataPath(dir, category, name), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot metadata: %w", err)
	}
	if err := os.WriteFile(StdoutPath(dir, category, name), []byte(snap.Stdout), 0o644); err != nil {
		return fmt.Errorf("write snapshot stdout: %w", err)
	}
	return nil
}
