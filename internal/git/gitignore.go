// Package git keeps the project's .gitignore covering files that must
// never be committed: the LiveKit credentials in .env.local and the
// installed CLI binary.
package git

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// EnsureIgnored makes sure every entry appears in the .gitignore at path,
// creating the file when it does not exist. Matching is by exact line, so
// an entry the user lists in a different spelling ("bin" instead of
// "bin/") is appended rather than treated as present. Returns the entries
// that were added, nil when the file already covered everything.
func EnsureIgnored(path string, entries []string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	existing := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		existing[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range entries {
		if !existing[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	updated := string(content)
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += strings.Join(missing, "\n") + "\n"

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}

	return missing, nil
}
