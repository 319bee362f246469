// Package testutil provides utilities for testing caller in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv prepares an isolated environment for a test and returns the
// project directory to operate in. This ensures caller tests never touch:
// - The developer's real HOME or .env.local
// - Real LiveKit credentials inherited from the shell
// - A previously installed bin/lk
//
// The placeholder credentials satisfy the dispatch preconditions without
// being usable against a real server. Cleanup is handled by t.TempDir()
// and t.Setenv(), so callers don't need to undo anything.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	// Temp directory (auto-cleaned by the testing framework)
	tmpDir := t.TempDir()

	projectDir := filepath.Join(tmpDir, "project")
	homeDir := filepath.Join(tmpDir, "home")

	// Point HOME at an empty directory so nothing reads the real one
	t.Setenv("HOME", homeDir)

	// Placeholder credentials in the agent contract's shape
	t.Setenv("LIVEKIT_URL", "wss://test.livekit.cloud")
	t.Setenv("LIVEKIT_API_KEY", "APItest4vH7ZbQ9c")
	t.Setenv("LIVEKIT_API_SECRET", "test-secret-not-a-real-one")
	t.Setenv("SIP_OUTBOUND_TRUNK_ID", "ST_testTrunk00aa")

	// A developer shell may have debug logging on; tests assert plain output
	t.Setenv("CALLER_DEBUG", "")
	os.Unsetenv("CALLER_DEBUG")

	// Create the directories
	for _, dir := range []string{projectDir, homeDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return projectDir
}
