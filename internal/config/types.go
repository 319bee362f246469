package config

import (
	"fmt"
	"regexp"
	"strings"
)

// Built-in defaults applied when caller.lua is absent or leaves a field
// unset. Phone numbers and agent name match what the outbound-caller agent
// is deployed with.
const (
	DefaultAgentName   = "outbound-caller"
	DefaultPhoneNumber = "+918980579954"
	DefaultTransferTo  = "+17345214522"
	DefaultEnvFile     = ".env.local"
)

// Config represents a complete caller.lua configuration.
type Config struct {
	Meta     Meta     `json:"meta,omitempty"`
	Defaults Defaults `json:"defaults,omitempty"`
	Options  Options  `json:"options,omitempty"`
}

// Meta contains descriptive information about the configuration.
type Meta struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Defaults holds the dispatch parameters used when the corresponding
// command-line flags are absent. Unset fields fall back to the built-in
// defaults above.
type Defaults struct {
	AgentName   string `json:"agent_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	TransferTo  string `json:"transfer_to,omitempty"`
	RoomPrefix  string `json:"room_prefix,omitempty"`
}

// Options contains tool behavior settings.
type Options struct {
	EnvFile string `json:"env_file,omitempty"`
}

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validation limits and patterns
const (
	maxNameLength        = 128
	maxDescriptionLength = 512
	maxAgentNameLength   = 64
	maxRoomPrefixLength  = 32
)

var (
	// E.164: leading +, country code starting 1-9, at most 15 digits total.
	phoneNumberPattern = regexp.MustCompile(`^\+[1-9][0-9]{1,14}$`)

	// Agent names are registered with the LiveKit server verbatim, so keep
	// them to a safe identifier charset.
	agentNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

	// Room prefixes become part of room names; same charset as agent names.
	roomPrefixPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
)

// DefaultConfig returns a config populated with the built-in defaults.
// This is what a run without caller.lua operates on.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			AgentName:   DefaultAgentName,
			PhoneNumber: DefaultPhoneNumber,
			TransferTo:  DefaultTransferTo,
		},
		Options: Options{
			EnvFile: DefaultEnvFile,
		},
	}
}

// Validate checks the config for validity and security issues.
func (c *Config) Validate() error {
	if len(c.Meta.Name) > maxNameLength {
		return &ValidationError{
			Field:   "meta.name",
			Message: fmt.Sprintf("name too long (max %d characters)", maxNameLength),
		}
	}

	if len(c.Meta.Description) > maxDescriptionLength {
		return &ValidationError{
			Field:   "meta.description",
			Message: fmt.Sprintf("description too long (max %d characters)", maxDescriptionLength),
		}
	}

	if c.Defaults.AgentName != "" {
		if err := ValidateAgentName("defaults.agent_name", c.Defaults.AgentName); err != nil {
			return err
		}
	}

	if c.Defaults.PhoneNumber != "" {
		if err := ValidatePhoneNumber("defaults.phone_number", c.Defaults.PhoneNumber); err != nil {
			return err
		}
	}

	if c.Defaults.TransferTo != "" {
		if err := ValidatePhoneNumber("defaults.transfer_to", c.Defaults.TransferTo); err != nil {
			return err
		}
	}

	if c.Defaults.RoomPrefix != "" {
		if err := validateRoomPrefix(c.Defaults.RoomPrefix); err != nil {
			return err
		}
	}

	if c.Options.EnvFile != "" {
		if err := validateEnvFilePath(c.Options.EnvFile); err != nil {
			return err
		}
	}

	return nil
}

// EffectiveDefaults returns the dispatch defaults with unset fields filled
// from the built-in defaults.
func (c *Config) EffectiveDefaults() Defaults {
	d := c.Defaults
	if d.AgentName == "" {
		d.AgentName = DefaultAgentName
	}
	if d.PhoneNumber == "" {
		d.PhoneNumber = DefaultPhoneNumber
	}
	if d.TransferTo == "" {
		d.TransferTo = DefaultTransferTo
	}
	return d
}

// EnvFile returns the configured env file path, or ".env.local" when unset.
func (c *Config) EnvFile() string {
	if c.Options.EnvFile != "" {
		return c.Options.EnvFile
	}
	return DefaultEnvFile
}

// ValidatePhoneNumber validates an E.164 phone number string. The field name
// is carried into the error so flag values ("--phone") and config fields
// ("defaults.phone_number") both report where the bad value came from.
// The agent dials whatever number it is handed, so malformed numbers are
// rejected before a dispatch is ever created.
func ValidatePhoneNumber(field, number string) error {
	if number == "" {
		return &ValidationError{Field: field, Message: "phone number cannot be empty"}
	}

	if !phoneNumberPattern.MatchString(number) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid phone number %q: must be E.164 format (+14155550100)", number),
		}
	}

	return nil
}

// ValidateAgentName validates an agent name string.
func ValidateAgentName(field, name string) error {
	if name == "" {
		return &ValidationError{Field: field, Message: "agent name cannot be empty"}
	}

	if len(name) > maxAgentNameLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("agent name too long (max %d characters)", maxAgentNameLength),
		}
	}

	if !agentNamePattern.MatchString(name) {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid agent name %q: use letters, digits, '.', '_', '-'", name),
		}
	}

	return nil
}

// validateRoomPrefix validates a room name prefix.
func validateRoomPrefix(prefix string) error {
	if len(prefix) > maxRoomPrefixLength {
		return &ValidationError{
			Field:   "defaults.room_prefix",
			Message: fmt.Sprintf("room prefix too long (max %d characters)", maxRoomPrefixLength),
		}
	}

	if !roomPrefixPattern.MatchString(prefix) {
		return &ValidationError{
			Field:   "defaults.room_prefix",
			Message: fmt.Sprintf("invalid room prefix %q: use letters, digits, '.', '_', '-'", prefix),
		}
	}

	return nil
}

// validateEnvFilePath validates the env file option. The path is opened
// relative to the working directory; traversal outside it is rejected.
func validateEnvFilePath(path string) error {
	if strings.Contains(path, "..") {
		return &ValidationError{
			Field:   "options.env_file",
			Message: "path traversal not allowed in env file path",
		}
	}

	if strings.HasPrefix(path, "/") {
		return &ValidationError{
			Field:   "options.env_file",
			Message: "env file path must be relative to the working directory",
		}
	}

	return nil
}
