package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Generator generates Lua configuration code.
type Generator struct {
	indent string // Indentation string (default: two spaces)
}

// NewGenerator creates a new Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ", // Two spaces
	}
}

// Generate generates Lua code from a Config struct.
// The output is formatted and human-readable.
func (g *Generator) Generate(config *Config) (string, error) {
	var buf bytes.Buffer

	// Write header comment
	buf.WriteString("-- Outbound caller configuration\n")
	buf.WriteString("-- Generated: ")
	buf.WriteString(time.Now().Format(time.RFC3339))
	buf.WriteString("\n\n")

	// Write caller table
	buf.WriteString("caller = {\n")

	// Write meta section
	if config.Meta.Name != "" || config.Meta.Description != "" {
		g.writeMeta(&buf, config.Meta)
	}

	// Write defaults section
	if config.Defaults != (Defaults{}) {
		g.writeDefaults(&buf, config.Defaults)
	}

	// Write options section
	if config.Options.EnvFile != "" {
		g.writeOptions(&buf, config.Options)
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

// Starter returns a commented scaffold caller.lua. Every default is present
// but commented out, so the file parses to an empty config and the built-in
// defaults keep applying until the user uncomments something.
func (g *Generator) Starter() string {
	var buf bytes.Buffer

	buf.WriteString("-- Outbound caller configuration\n")
	buf.WriteString("--\n")
	buf.WriteString("-- Uncomment a field to override the built-in default. Deleting this\n")
	buf.WriteString("-- file is always safe; the tool falls back to its defaults.\n")
	buf.WriteString("--\n")
	buf.WriteString("-- A read-only `platform` table is available for conditionals:\n")
	buf.WriteString("--   agent_name = platform.is_macos and \"outbound-caller-dev\" or \"outbound-caller\",\n")
	buf.WriteString("\n")
	buf.WriteString("caller = {\n")

	buf.WriteString(g.indent)
	buf.WriteString("meta = {\n")
	g.writeField(&buf, 2, "name", "Outbound Caller")
	g.writeField(&buf, 2, "description", "Dispatch defaults for the outbound-caller agent")
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")

	buf.WriteString(g.indent)
	buf.WriteString("defaults = {\n")
	g.writeCommentedField(&buf, "agent_name", DefaultAgentName)
	g.writeCommentedField(&buf, "phone_number", DefaultPhoneNumber)
	g.writeCommentedField(&buf, "transfer_to", DefaultTransferTo)
	g.writeCommentedField(&buf, "room_prefix", "call-")
	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")

	buf.WriteString(g.indent)
	buf.WriteString("options = {\n")
	g.writeCommentedField(&buf, "env_file", DefaultEnvFile)
	buf.WriteString(g.indent)
	buf.WriteString("},\n")

	buf.WriteString("}\n")

	return buf.String()
}

// WriteStarterFile writes the starter scaffold to path unless a file already
// exists there. Returns true when the file was created. An existing file is
// never touched: caller.lua belongs to the user once it exists.
func (g *Generator) WriteStarterFile(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644) // #nosec G304 -- path is the tool's own config file
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", path, err)
	}

	_, writeErr := f.WriteString(g.Starter())
	closeErr := f.Close()
	if writeErr != nil {
		return false, fmt.Errorf("write %s: %w", path, writeErr)
	}
	if closeErr != nil {
		return false, fmt.Errorf("close %s: %w", path, closeErr)
	}

	return true, nil
}

// writeMeta writes the meta section to the buffer.
func (g *Generator) writeMeta(buf *bytes.Buffer, meta Meta) {
	buf.WriteString(g.indent)
	buf.WriteString("meta = {\n")

	if meta.Name != "" {
		g.writeField(buf, 2, "name", meta.Name)
	}

	if meta.Description != "" {
		g.writeField(buf, 2, "description", meta.Description)
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

// writeDefaults writes the defaults section to the buffer.
func (g *Generator) writeDefaults(buf *bytes.Buffer, defaults Defaults) {
	buf.WriteString(g.indent)
	buf.WriteString("defaults = {\n")

	if defaults.AgentName != "" {
		g.writeField(buf, 2, "agent_name", defaults.AgentName)
	}
	if defaults.PhoneNumber != "" {
		g.writeField(buf, 2, "phone_number", defaults.PhoneNumber)
	}
	if defaults.TransferTo != "" {
		g.writeField(buf, 2, "transfer_to", defaults.TransferTo)
	}
	if defaults.RoomPrefix != "" {
		g.writeField(buf, 2, "room_prefix", defaults.RoomPrefix)
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n\n")
}

// writeOptions writes the options section to the buffer.
func (g *Generator) writeOptions(buf *bytes.Buffer, options Options) {
	buf.WriteString(g.indent)
	buf.WriteString("options = {\n")

	if options.EnvFile != "" {
		g.writeField(buf, 2, "env_file", options.EnvFile)
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n")
}

// writeField writes one quoted key = "value" line at the given indent depth.
func (g *Generator) writeField(buf *bytes.Buffer, depth int, key, value string) {
	for i := 0; i < depth; i++ {
		buf.WriteString(g.indent)
	}
	buf.WriteString(key)
	buf.WriteString(" = ")
	buf.WriteString(g.quoteLuaString(value))
	buf.WriteString(",\n")
}

// writeCommentedField writes a commented-out key = "value" line for the
// starter scaffold.
func (g *Generator) writeCommentedField(buf *bytes.Buffer, key, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString("-- ")
	buf.WriteString(key)
	buf.WriteString(" = ")
	buf.WriteString(g.quoteLuaString(value))
	buf.WriteString(",\n")
}

// quoteLuaString quotes a string for Lua, handling special characters.
func (g *Generator) quoteLuaString(s string) string {
	// Use double quotes and escape special characters
	s = strings.ReplaceAll(s, "\\", "\\\\") // Escape backslashes first
	s = strings.ReplaceAll(s, "\"", "\\\"") // Escape double quotes
	s = strings.ReplaceAll(s, "\n", "\\n")  // Escape newlines
	s = strings.ReplaceAll(s, "\r", "\\r")  // Escape carriage returns
	s = strings.ReplaceAll(s, "\t", "\\t")  // Escape tabs
	return "\"" + s + "\""
}
