package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// mockDetector is a test implementation of platform.Detector.
type mockDetector struct {
	info *platform.Info
	err  error
}

func (m *mockDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return m.info, m.err
}

func TestParser_ParseString_Minimal(t *testing.T) {
	luaCode := `
		caller = {
			defaults = {
				phone_number = "+14155550100",
			},
		}
	`

	parser := NewParser(nil) // No platform detection for minimal test
	config, err := parser.ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if config.Defaults.PhoneNumber != "+14155550100" {
		t.Errorf("Defaults.PhoneNumber = %s, want +14155550100", config.Defaults.PhoneNumber)
	}
	if config.Defaults.AgentName != "" {
		t.Errorf("Defaults.AgentName = %s, want empty (unset)", config.Defaults.AgentName)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	luaCode := `
		caller = {
			meta = {
				name = "Support Line",
				description = "Outbound support callbacks",
			},
			defaults = {
				agent_name = "support-agent",
				phone_number = "+14155550100",
				transfer_to = "+16505550111",
				room_prefix = "support-",
			},
			options = {
				env_file = ".env.production",
			},
		}
	`

	parser := NewParser(nil)
	config, err := parser.ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	// Check meta
	if config.Meta.Name != "Support Line" {
		t.Errorf("Meta.Name = %s, want Support Line", config.Meta.Name)
	}
	if config.Meta.Description != "Outbound support callbacks" {
		t.Errorf("Meta.Description = %s, want Outbound support callbacks", config.Meta.Description)
	}

	// Check defaults
	if config.Defaults.AgentName != "support-agent" {
		t.Errorf("Defaults.AgentName = %s, want support-agent", config.Defaults.AgentName)
	}
	if config.Defaults.PhoneNumber != "+14155550100" {
		t.Errorf("Defaults.PhoneNumber = %s, want +14155550100", config.Defaults.PhoneNumber)
	}
	if config.Defaults.TransferTo != "+16505550111" {
		t.Errorf("Defaults.TransferTo = %s, want +16505550111", config.Defaults.TransferTo)
	}
	if config.Defaults.RoomPrefix != "support-" {
		t.Errorf("Defaults.RoomPrefix = %s, want support-", config.Defaults.RoomPrefix)
	}

	// Check options
	if config.Options.EnvFile != ".env.production" {
		t.Errorf("Options.EnvFile = %s, want .env.production", config.Options.EnvFile)
	}
}

func TestParser_ParseString_PlatformConditionals(t *testing.T) {
	luaCode := `
		caller = {
			defaults = {
				agent_name = platform.is_linux and "outbound-caller" or "outbound-caller-dev",
				room_prefix = platform.when(platform.is_macos, "dev-"),
			},
		}
	`

	// Mock Linux platform
	detector := &mockDetector{
		info: &platform.Info{
			OS:      "linux",
			Arch:    "amd64",
			ArchRaw: "x86_64",
		},
	}

	parser := NewParser(detector)
	config, err := parser.ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if config.Defaults.AgentName != "outbound-caller" {
		t.Errorf("Defaults.AgentName = %s, want outbound-caller", config.Defaults.AgentName)
	}

	// when() returned nil on Linux, so the field stays unset.
	if config.Defaults.RoomPrefix != "" {
		t.Errorf("Defaults.RoomPrefix = %s, want empty", config.Defaults.RoomPrefix)
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name    string
		luaCode string
		wantErr string
	}{
		{
			name:    "syntax error",
			luaCode: `caller = { invalid syntax`,
			wantErr: "Lua syntax error",
		},
		{
			name:    "missing caller table",
			luaCode: `config = { defaults = {} }`,
			wantErr: "missing or invalid 'caller' table",
		},
		{
			name: "invalid phone number",
			luaCode: `
				caller = {
					defaults = { phone_number = "555-0100" },
				}
			`,
			wantErr: "config validation failed",
		},
		{
			name: "invalid agent name",
			luaCode: `
				caller = {
					defaults = { agent_name = "agent with spaces" },
				}
			`,
			wantErr: "config validation failed",
		},
		{
			name: "env file escaping work dir",
			luaCode: `
				caller = {
					options = { env_file = "../secrets.env" },
				}
			`,
			wantErr: "path traversal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(nil)
			_, err := parser.ParseString(context.Background(), tt.luaCode)
			if err == nil {
				t.Fatal("ParseString() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseString() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParser_ParseString_EmptyConfig(t *testing.T) {
	luaCode := `
		caller = {
			defaults = {},
			options = {},
		}
	`

	parser := NewParser(nil)
	config, err := parser.ParseString(context.Background(), luaCode)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	if config.Defaults != (Defaults{}) {
		t.Errorf("Defaults = %+v, want zero value", config.Defaults)
	}
	if config.Options.EnvFile != "" {
		t.Errorf("Options.EnvFile = %s, want empty", config.Options.EnvFile)
	}
}

func TestParser_ParseString_PlatformDetectionError(t *testing.T) {
	detector := &mockDetector{err: errors.New("platform detection failed")}
	parser := NewParser(detector)
	_, err := parser.ParseString(context.Background(), `caller = { defaults = {} }`)
	if err == nil {
		t.Fatal("expected error from platform detection")
	}
	if !strings.Contains(err.Error(), "platform detection failed") {
		t.Errorf("error = %v, want platform detection error", err)
	}
}

func TestParser_Load(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		dir := t.TempDir()
		parser := NewParser(nil)

		config, err := parser.Load(context.Background(), filepath.Join(dir, ConfigFileName))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if config.Defaults.AgentName != DefaultAgentName {
			t.Errorf("Defaults.AgentName = %s, want %s", config.Defaults.AgentName, DefaultAgentName)
		}
		if config.Defaults.PhoneNumber != DefaultPhoneNumber {
			t.Errorf("Defaults.PhoneNumber = %s, want %s", config.Defaults.PhoneNumber, DefaultPhoneNumber)
		}
		if config.Options.EnvFile != DefaultEnvFile {
			t.Errorf("Options.EnvFile = %s, want %s", config.Options.EnvFile, DefaultEnvFile)
		}
	})

	t.Run("existing file parsed", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ConfigFileName)
		luaCode := `caller = { defaults = { agent_name = "custom-agent" } }`
		if err := os.WriteFile(path, []byte(luaCode), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		parser := NewParser(nil)
		config, err := parser.Load(context.Background(), path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		if config.Defaults.AgentName != "custom-agent" {
			t.Errorf("Defaults.AgentName = %s, want custom-agent", config.Defaults.AgentName)
		}
	})

	t.Run("broken file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, ConfigFileName)
		if err := os.WriteFile(path, []byte(`caller = { nope`), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		parser := NewParser(nil)
		_, err := parser.Load(context.Background(), path)
		if err == nil {
			t.Fatal("Load() expected error for broken config")
		}
		if !strings.Contains(err.Error(), "Lua syntax error") {
			t.Errorf("Load() error = %v, want Lua syntax error", err)
		}
	})
}

func TestFormatError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		verbose bool
		want    string
	}{
		{
			name: "parse error non-verbose",
			err: &ParseError{
				Message: "Lua syntax error",
				Detail:  "<string>:1: unexpected symbol near 'invalid'\nstack traceback:\n\t[G]: ?",
			},
			verbose: false,
			want:    "Lua syntax error",
		},
		{
			name: "parse error verbose",
			err: &ParseError{
				Message: "Lua syntax error",
				Detail:  "<string>:1: unexpected symbol near 'invalid'",
			},
			verbose: true,
			want:    "Lua syntax error\n\nDetails:\n<string>:1: unexpected symbol near 'invalid'",
		},
		{
			name:    "regular error",
			err:     &ValidationError{Field: "defaults.phone_number", Message: "invalid"},
			verbose: false,
			want:    "invalid defaults.phone_number: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatError(tt.err, tt.verbose)
			if !strings.Contains(got, tt.want) {
				t.Errorf("FormatError() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestFormatError_WrappedParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(`caller = { nope`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	parser := NewParser(nil)
	_, err := parser.Load(context.Background(), path)
	if err == nil {
		t.Fatal("Load() expected error")
	}

	// Load wraps the ParseError; FormatError must still unwrap it.
	got := FormatError(err, false)
	if !strings.Contains(got, "Lua syntax error") {
		t.Errorf("FormatError() = %q, want Lua syntax error", got)
	}
}
