package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/livekit-examples/outbound-caller-go/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// ConfigFileName is the Lua config file looked up in the working directory.
const ConfigFileName = "caller.lua"

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new config parser with the given platform detector.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{
		detector: detector,
		logger:   defaultLogger(),
	}
}

// WithLogger returns the parser with its logger replaced.
func (p *Parser) WithLogger(logger Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Load reads and parses the config file at path. A missing file is not an
// error: the built-in defaults are returned, so every command works out of
// the box without a caller.lua.
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- path is the tool's own config file
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Debug("config file absent, using built-in defaults", "path", path)
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config, err := p.ParseString(ctx, string(content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	p.logger.Debug("config loaded", "path", path, "bytes", len(content))
	return config, nil
}

// ParseString parses a Lua config from a string.
// This is useful for testing and in-memory config handling.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	// Detect platform and inject platform table
	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	// Execute Lua code
	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	// Extract config from the Lua state
	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig extracts the config from a Lua state.
// It expects a global "caller" table with the config structure.
func extractConfig(L *lua.LState) (*Config, error) {
	callerTable := L.GetGlobal(luaGlobalCaller)
	if callerTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'caller' table",
			Detail:  fmt.Sprintf("expected table, got %s", callerTable.Type()),
		}
	}

	config := &Config{}
	table := callerTable.(*lua.LTable)

	// Extract meta
	if metaVal := table.RawGetString(luaFieldMeta); metaVal.Type() == lua.LTTable {
		config.Meta = extractMeta(metaVal.(*lua.LTable))
	}

	// Extract defaults
	if defaultsVal := table.RawGetString(luaFieldDefaults); defaultsVal.Type() == lua.LTTable {
		config.Defaults = extractDefaults(defaultsVal.(*lua.LTable))
	}

	// Extract options
	if optionsVal := table.RawGetString(luaFieldOptions); optionsVal.Type() == lua.LTTable {
		config.Options = extractOptions(optionsVal.(*lua.LTable))
	}

	// Validate the extracted config
	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractMeta extracts metadata from a Lua table.
func extractMeta(table *lua.LTable) Meta {
	meta := Meta{}

	if nameVal := table.RawGetString(luaFieldName); nameVal.Type() == lua.LTString {
		meta.Name = nameVal.String()
	}

	if descVal := table.RawGetString(luaFieldDesc); descVal.Type() == lua.LTString {
		meta.Description = descVal.String()
	}

	return meta
}

// extractDefaults extracts dispatch defaults from a Lua table.
// Non-string values are skipped so platform conditionals evaluating to nil
// (platform.is_macos and "..." or nil) simply leave the field unset.
func extractDefaults(table *lua.LTable) Defaults {
	defaults := Defaults{}

	if v := table.RawGetString(luaFieldAgent); v.Type() == lua.LTString {
		defaults.AgentName = v.String()
	}

	if v := table.RawGetString(luaFieldPhone); v.Type() == lua.LTString {
		defaults.PhoneNumber = v.String()
	}

	if v := table.RawGetString(luaFieldTransfer); v.Type() == lua.LTString {
		defaults.TransferTo = v.String()
	}

	if v := table.RawGetString(luaFieldRoom); v.Type() == lua.LTString {
		defaults.RoomPrefix = v.String()
	}

	return defaults
}

// extractOptions extracts options from a Lua table.
func extractOptions(table *lua.LTable) Options {
	options := Options{}

	if v := table.RawGetString(luaFieldEnvFile); v.Type() == lua.LTString {
		options.EnvFile = v.String()
	}

	return options
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		// Extract the most relevant part of the error
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
