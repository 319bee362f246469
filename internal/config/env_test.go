package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// unsetEnv clears name for the duration of the test, restoring afterwards.
func unsetEnv(t *testing.T, name string) {
	t.Helper()
	t.Setenv(name, "") // registers restoration of the previous value
	if err := os.Unsetenv(name); err != nil {
		t.Fatalf("Unsetenv(%s) error = %v", name, err)
	}
}

func TestEnvVarStatus_String(t *testing.T) {
	tests := []struct {
		status EnvVarStatus
		want   string
	}{
		{EnvVarSet, "set"},
		{EnvVarEmpty, "empty"},
		{EnvVarMissing, "missing"},
		{EnvVarStatus(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("EnvVarStatus(%d).String() = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestEnvVarStatus_Symbol(t *testing.T) {
	tests := []struct {
		status EnvVarStatus
		want   string
	}{
		{EnvVarSet, "✓"},
		{EnvVarEmpty, "?"},
		{EnvVarMissing, "✗"},
	}

	for _, tt := range tests {
		if got := tt.status.Symbol(); got != tt.want {
			t.Errorf("EnvVarStatus(%d).Symbol() = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is fine", func(t *testing.T) {
		dir := t.TempDir()
		if err := LoadEnvFile(filepath.Join(dir, ".env.local")); err != nil {
			t.Errorf("LoadEnvFile() error = %v, want nil for missing file", err)
		}
	})

	t.Run("loads variables", func(t *testing.T) {
		unsetEnv(t, "CALLER_TEST_LOADED")

		dir := t.TempDir()
		path := filepath.Join(dir, ".env.local")
		if err := os.WriteFile(path, []byte("CALLER_TEST_LOADED=from-file\n"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile() error = %v", err)
		}

		if got := os.Getenv("CALLER_TEST_LOADED"); got != "from-file" {
			t.Errorf("CALLER_TEST_LOADED = %q, want from-file", got)
		}
	})

	t.Run("shell environment wins", func(t *testing.T) {
		t.Setenv("CALLER_TEST_PRECEDENCE", "from-shell")

		dir := t.TempDir()
		path := filepath.Join(dir, ".env.local")
		if err := os.WriteFile(path, []byte("CALLER_TEST_PRECEDENCE=from-file\n"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile() error = %v", err)
		}

		if got := os.Getenv("CALLER_TEST_PRECEDENCE"); got != "from-shell" {
			t.Errorf("CALLER_TEST_PRECEDENCE = %q, want from-shell", got)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ".env.local")
		if err := os.WriteFile(path, []byte("NOT A VALID DOTENV LINE\n"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		err := LoadEnvFile(path)
		if err == nil {
			t.Error("LoadEnvFile() error = nil, want parse error")
		}
	})
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("LIVEKIT_URL", "wss://example.livekit.cloud")
	t.Setenv("LIVEKIT_API_KEY", "key")
	t.Setenv("LIVEKIT_API_SECRET", "   ")
	unsetEnv(t, "SIP_OUTBOUND_TRUNK_ID")

	checks := CheckEnv()
	if len(checks) != len(RequiredEnvVars) {
		t.Fatalf("CheckEnv() returned %d checks, want %d", len(checks), len(RequiredEnvVars))
	}

	want := map[string]EnvVarStatus{
		"LIVEKIT_URL":           EnvVarSet,
		"LIVEKIT_API_KEY":       EnvVarSet,
		"LIVEKIT_API_SECRET":    EnvVarEmpty,
		"SIP_OUTBOUND_TRUNK_ID": EnvVarMissing,
	}

	for _, check := range checks {
		wantStatus, ok := want[check.Name]
		if !ok {
			t.Errorf("CheckEnv() unexpected variable %s", check.Name)
			continue
		}
		if check.Status != wantStatus {
			t.Errorf("CheckEnv() %s = %s, want %s", check.Name, check.Status, wantStatus)
		}
	}
}

func TestRequireEnv(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		t.Setenv("LIVEKIT_URL", "wss://example.livekit.cloud")
		t.Setenv("LIVEKIT_API_KEY", "key")
		t.Setenv("LIVEKIT_API_SECRET", "secret")

		if err := RequireEnv(DispatchEnvVars...); err != nil {
			t.Errorf("RequireEnv() error = %v, want nil", err)
		}
	})

	t.Run("missing variables named", func(t *testing.T) {
		t.Setenv("LIVEKIT_URL", "wss://example.livekit.cloud")
		unsetEnv(t, "LIVEKIT_API_KEY")
		unsetEnv(t, "LIVEKIT_API_SECRET")

		err := RequireEnv(DispatchEnvVars...)
		if err == nil {
			t.Fatal("RequireEnv() error = nil, want missing-variable error")
		}

		for _, want := range []string{"LIVEKIT_API_KEY", "LIVEKIT_API_SECRET", ".env.local"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("RequireEnv() error = %v, want substring %q", err, want)
			}
		}
		if strings.Contains(err.Error(), "LIVEKIT_URL,") || strings.HasSuffix(err.Error(), "LIVEKIT_URL") {
			t.Errorf("RequireEnv() error = %v, should not list the set variable", err)
		}
	})

	t.Run("empty value counts as missing", func(t *testing.T) {
		t.Setenv("LIVEKIT_URL", "")

		err := RequireEnv("LIVEKIT_URL")
		if err == nil {
			t.Fatal("RequireEnv() error = nil, want error for empty value")
		}
	})
}
