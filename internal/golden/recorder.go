package golden

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/omnidev/golden/internal/manifest"
	"github.com/omnidev/golden/internal/run"
)

// Recorder captures current behavior as the new baseline. Recording is
// destructive by design: prior snapshots for the same identity are
// overwritten unconditionally, which is why it is a distinct command from
// compare.
type Recorder struct {
	// Dir is the golden directory root.
	Dir string

	// ToolCommit is recorded in the manifest for provenance. May be empty.
	ToolCommit string
}

// Record writes a snapshot for every run result, then persists the manifest
// once at the end of the batch to bound I/O. Entries for identities outside
// this batch are preserved (upsert semantics).
//
// Runs single-threaded after worker collection; no file locking is needed.
func (rec *Recorder) Record(results []run.Result) (*manifest.Manifest, error) {
	m, err := manifest.Load(rec.Dir)
	if err != nil {
		// Recording regenerates the ledger anyway; a corrupt one is
		// replaced rather than aborting the batch.
		slog.Warn("replacing unreadable manifest", "error", err)
		m = manifest.New()
	}

	for _, res := range results {
		tc := res.Case
		snap := Snapshot{
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
		if err := write(rec.Dir, tc.Category, tc.Name, snap); err != nil {
			return nil, fmt.Errorf("record %s: %w", tc.ID(), err)
		}

		m.Upsert(manifest.Entry{
			Category:       tc.Category,
			Name:           tc.Name,
			GoldenPath:     filepath.Join(tc.Category, tc.Name+".stdout"),
			SHA256:         Digest(res.Stdout),
			ExitCode:       res.ExitCode,
			Normalizations: tc.Normalizations,
		})
		slog.Debug("snapshot recorded", "case", tc.ID(), "exit_code", res.ExitCode)
	}

	m.Version = manifest.CurrentVersion
	m.ToolCommit = rec.ToolCommit
	m.RecordedAt = time.Now().UTC().Format(time.RFC3339)

	if err := manifest.Save(m, rec.Dir); err != nil {
		return nil, err
	}
	return m, nil
}
