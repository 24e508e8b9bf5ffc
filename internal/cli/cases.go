package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/omnidev/golden/internal/registry"
)

// loadCases loads the registry and applies the shared category/pattern and
// incremental filters. A missing registry is a structural error (exit 2).
func loadCases(opts *RootOptions) ([]registry.TestCase, error) {
	path := opts.ResolveRegistry()
	cases, err := registry.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("registry not found at %s", path))
		}
		return nil, WrapExitError(ExitCommandError, "failed to load registry", err)
	}

	cases = registry.Filter(cases, opts.Category, opts.Pattern)

	if opts.Incremental {
		before := len(cases)
		cases = registry.FilterChanged(cases, opts.GoldenDir)
		slog.Debug("incremental selection", "selected", len(cases), "total", before)
	}

	return cases, nil
}

// resolveBinary returns the binary path or a structural error, verifying the
// file exists before any test runs.
func resolveBinary(opts *RootOptions) (string, error) {
	binary := opts.ResolveBinary()
	if binary == "" {
		return "", NewExitError(ExitCommandError,
			"no binary specified (use --binary or set "+BinaryEnvVar+")")
	}
	if _, err := os.Stat(binary); err != nil {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("binary not found at %s", binary))
	}
	return binary, nil
}

func (o *RootOptions) timeout() time.Duration {
	return time.Duration(o.Timeout) * time.Second
}

// toolCommit returns the current git commit for manifest provenance.
// Best effort: empty when git or a repository is unavailable.
func toolCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
