package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// RequiredEnvVars are the variables the agent contract expects in .env.local.
// LIVEKIT_* authenticate the CLI against the LiveKit server; the SIP trunk id
// is read by the deployed agent when it places the call.
var RequiredEnvVars = []string{
	"LIVEKIT_URL",
	"LIVEKIT_API_KEY",
	"LIVEKIT_API_SECRET",
	"SIP_OUTBOUND_TRUNK_ID",
}

// DispatchEnvVars is the subset a dispatch cannot run without. The trunk id
// is only consumed server-side, so a missing one is reported but not fatal.
var DispatchEnvVars = []string{
	"LIVEKIT_URL",
	"LIVEKIT_API_KEY",
	"LIVEKIT_API_SECRET",
}

// EnvVarStatus represents the state of one required environment variable.
type EnvVarStatus int

const (
	// EnvVarSet indicates the variable is present with a non-empty value.
	EnvVarSet EnvVarStatus = iota

	// EnvVarEmpty indicates the variable is present but blank, which usually
	// means a half-filled .env.local.
	EnvVarEmpty

	// EnvVarMissing indicates the variable is absent.
	EnvVarMissing
)

// String returns the string representation of an EnvVarStatus.
func (s EnvVarStatus) String() string {
	switch s {
	case EnvVarSet:
		return "set"
	case EnvVarEmpty:
		return "empty"
	case EnvVarMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Symbol returns the visual symbol for an EnvVarStatus.
func (s EnvVarStatus) Symbol() string {
	switch s {
	case EnvVarSet:
		return "✓"
	case EnvVarEmpty:
		return "?"
	case EnvVarMissing:
		return "✗"
	default:
		return "?"
	}
}

// EnvVarCheck pairs a variable name with its detected status.
type EnvVarCheck struct {
	Name   string
	Status EnvVarStatus
}

// LoadEnvFile loads variables from the given dotenv file into the process
// environment. Variables already set in the environment win over the file.
// A missing file is not an error: the variables may come from the shell.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// CheckEnv reports the status of every required variable. Values are never
// included; presence is all the report needs.
func CheckEnv() []EnvVarCheck {
	checks := make([]EnvVarCheck, 0, len(RequiredEnvVars))
	for _, name := range RequiredEnvVars {
		checks = append(checks, EnvVarCheck{Name: name, Status: detectEnvVar(name)})
	}
	return checks
}

// RequireEnv returns an error naming every variable in names that is not set
// to a non-empty value.
func RequireEnv(names ...string) error {
	var missing []string
	for _, name := range names {
		if detectEnvVar(name) != EnvVarSet {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s (set them in %s)",
			strings.Join(missing, ", "), DefaultEnvFile)
	}
	return nil
}

// detectEnvVar determines the status of a single environment variable.
func detectEnvVar(name string) EnvVarStatus {
	value, ok := os.LookupEnv(name)
	if !ok {
		return EnvVarMissing
	}
	if strings.TrimSpace(value) == "" {
		return EnvVarEmpty
	}
	return EnvVarSet
}
