// Package config provides Lua configuration parsing and environment file
// loading for the outbound caller tool.
//
// # Overview
//
// Two files configure the tool, both optional, both in the working directory:
//
//   - caller.lua: declarative dispatch defaults (agent name, phone numbers,
//     room prefix), parsed in a sandboxed Lua VM
//   - .env.local: LiveKit credentials and the SIP trunk id, loaded into the
//     process environment via godotenv
//
// The split is deliberate: caller.lua is safe to commit, .env.local never is.
// The sensitive-data scan warns when credentials leak into caller.lua.
//
// # Configuration Schema
//
// Lua configuration structure:
//
//	caller = {
//	  meta = {
//	    name = "Outbound Caller",
//	    description = "Dispatch defaults for the outbound-caller agent",
//	  },
//	  defaults = {
//	    agent_name = "outbound-caller",      -- agent the dispatch targets
//	    phone_number = "+918980579954",      -- number to call
//	    transfer_to = "+17345214522",        -- human escalation number
//	    room_prefix = "call-",               -- optional explicit room naming
//	  },
//	  options = {
//	    env_file = ".env.local",             -- dotenv file to load
//	  },
//	}
//
// Every field is optional. A missing caller.lua, or a field left unset,
// falls back to the built-in defaults, so a fresh checkout works without
// any configuration at all.
//
// Platform information from the platform package is injected as a read-only
// table, so defaults may vary by host:
//
//	caller = {
//	  defaults = {
//	    agent_name = platform.is_macos and "outbound-caller-dev" or "outbound-caller",
//	  },
//	}
//
// # Security Model
//
// User Lua code runs in a restricted sandbox that prevents:
//   - System command execution (os.execute, os.exit, etc.)
//   - Filesystem access (io.open, io.popen, etc.)
//   - External code loading (require, dofile, loadfile, etc.)
//
// Safe operations preserved: string, table and math libraries plus the basic
// utilities (type, tostring, tonumber, pairs, ipairs).
//
// All extracted values are validated before use: phone numbers must be
// E.164, agent names and room prefixes are held to an identifier charset,
// and the env file path may not traverse outside the working directory.
// Parse errors are sanitized for display; FormatError trims Lua stack
// tracebacks unless verbose output is requested.
//
// # Environment File
//
// LoadEnvFile feeds .env.local into the process environment without
// overriding variables the shell already set. The agent contract expects:
//
//	LIVEKIT_URL=wss://your-project.livekit.cloud
//	LIVEKIT_API_KEY=...
//	LIVEKIT_API_SECRET=...
//	SIP_OUTBOUND_TRUNK_ID=ST_...
//
// CheckEnv reports per-variable presence for the status command; RequireEnv
// turns missing variables into a single actionable error for dispatch.
//
// # Usage
//
// Load the effective config, falling back to defaults when caller.lua is
// absent:
//
//	parser := config.NewParser(detector)
//	cfg, err := parser.Load(ctx, config.ConfigFileName)
//	if err != nil {
//	    return err
//	}
//	defaults := cfg.EffectiveDefaults()
//
// Scaffold a starter config during install (never overwrites):
//
//	created, err := config.NewGenerator().WriteStarterFile("caller.lua")
//
// # Error Types
//
// The package defines specific error types:
//
//	type ParseError struct {
//	    Message string  // User-friendly message
//	    Detail  string  // Technical details (raw Lua error)
//	}
//
//	type ValidationError struct {
//	    Field   string  // Field that failed validation
//	    Message string  // Error description
//	}
//
// # Why Lua
//
// gopher-lua is a pure Go Lua 5.1 VM: no CGO, easy to embed, easy to
// sandbox. Lua keeps the config programmatic (platform conditionals) while
// staying readable, and the same parser handles generated and hand-written
// files identically.
//
// # Thread Safety
//
// Parser and Generator instances hold no mutable state and are safe for
// concurrent use; each parse runs in its own Lua state.
package config
