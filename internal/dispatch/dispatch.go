// Package dispatch creates agent dispatch jobs through the locally installed
// LiveKit CLI.
//
// A dispatch tells the LiveKit server to start the outbound-caller agent in a
// room with call metadata attached; the agent then places the actual phone
// call. The CLI runs with a scrubbed environment so only the variables the
// dispatch needs ever reach the subprocess, and error output is redacted
// before it is surfaced.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/livekit-examples/outbound-caller-go/internal/config"
)

// Error types for user-facing errors
var (
	ErrNotInstalled   = errors.New("LiveKit CLI not found in bin/ (run 'caller install' first)")
	ErrDispatchFailed = errors.New("failed to create dispatch")
)

// Request describes one dispatch to create.
type Request struct {
	AgentName   string // agent the dispatch targets
	PhoneNumber string // number the agent will dial
	TransferTo  string // number for human escalation
	RoomName    string // explicit room name; empty means let the server pick one
}

// Metadata is the JSON payload handed to the agent. Field names are fixed by
// the agent contract: it reads exactly these keys from the job metadata.
type Metadata struct {
	PhoneNumber string `json:"phone_number"`
	TransferTo  string `json:"transfer_to"`
}

// Result carries the CLI output of a successful dispatch.
type Result struct {
	AgentName string
	Metadata  string // the marshaled metadata that was sent
	Output    string // combined stdout/stderr of the CLI
}

// Dispatcher is the interface for dispatch operations.
// Following Go best practices: accept interfaces, return structs.
type Dispatcher interface {
	CreateDispatch(ctx context.Context, req Request) (*Result, error)
}

// Client implements the Dispatcher interface by shelling out to bin/lk.
type Client struct {
	bin     string // path to the lk binary (workDir/bin/lk)
	workDir string // directory the CLI runs in
}

// NewClient creates a dispatch client for the given working directory.
func NewClient(workDir string) *Client {
	return &Client{
		bin:     filepath.Join(workDir, "bin", "lk"),
		workDir: workDir,
	}
}

// CreateDispatch validates the request, checks the preconditions and runs
// `lk dispatch create`. The returned Result carries the CLI output for
// display; errors are translated to actionable messages with credential
// material redacted.
func (c *Client) CreateDispatch(ctx context.Context, req Request) (*Result, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	if !c.isInstalled() {
		return nil, ErrNotInstalled
	}

	if err := config.RequireEnv(config.DispatchEnvVars...); err != nil {
		return nil, err
	}

	metadata, err := json.Marshal(Metadata{
		PhoneNumber: req.PhoneNumber,
		TransferTo:  req.TransferTo,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}

	args := []string{"dispatch", "create"}
	if req.RoomName != "" {
		args = append(args, "--room", req.RoomName)
	} else {
		args = append(args, "--new-room")
	}
	args = append(args,
		"--agent-name", req.AgentName,
		"--metadata", string(metadata),
	)

	// Create command with context for cancellation/timeout support
	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.Dir = c.workDir
	cmd.Env = c.subprocessEnv()

	// Capture combined output for error reporting
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, translateDispatchError(err, string(out))
	}

	return &Result{
		AgentName: req.AgentName,
		Metadata:  string(metadata),
		Output:    string(out),
	}, nil
}

// validateRequest rejects malformed dispatch parameters before anything runs.
func (c *Client) validateRequest(req Request) error {
	if err := config.ValidateAgentName("agent name", req.AgentName); err != nil {
		return err
	}
	if err := config.ValidatePhoneNumber("phone number", req.PhoneNumber); err != nil {
		return err
	}
	if req.TransferTo != "" {
		if err := config.ValidatePhoneNumber("transfer number", req.TransferTo); err != nil {
			return err
		}
	}
	return nil
}

// isInstalled reports whether bin/lk exists and is executable.
func (c *Client) isInstalled() bool {
	info, err := os.Stat(c.bin)
	if err != nil {
		return false
	}
	if !info.Mode().IsRegular() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}

// subprocessEnv builds a scrubbed environment for the CLI: the essential
// process variables, the LiveKit credentials, and the absolute bin/ directory
// prepended to PATH so the installed lk wins over any system-wide one.
func (c *Client) subprocessEnv() []string {
	env := []string{
		"HOME=" + os.Getenv("HOME"),
		"USER=" + os.Getenv("USER"),
		"LANG=" + os.Getenv("LANG"),
	}

	binDir := filepath.Join(c.workDir, "bin")
	if abs, err := filepath.Abs(binDir); err == nil {
		binDir = abs
	}
	env = append(env, "PATH="+binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	for _, name := range config.RequiredEnvVars {
		if value, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+value)
		}
	}

	return env
}

// translateDispatchError maps CLI failures to user-friendly errors.
func translateDispatchError(err error, output string) error {
	// Check for context cancellation/timeout first
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("dispatch cancelled: %w", context.Canceled)
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline exceeded") {
		return fmt.Errorf("dispatch timed out: %w", context.DeadlineExceeded)
	}

	// The binary vanished between the precondition check and the exec.
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return ErrNotInstalled
	}

	outputLower := strings.ToLower(output)

	if strings.Contains(outputLower, "401") || strings.Contains(outputLower, "invalid api key") ||
		strings.Contains(outputLower, "unauthorized") {
		return fmt.Errorf("%w: authentication rejected, check LIVEKIT_API_KEY and LIVEKIT_API_SECRET in %s",
			ErrDispatchFailed, config.DefaultEnvFile)
	}

	if strings.Contains(outputLower, "connection refused") || strings.Contains(outputLower, "no such host") {
		return fmt.Errorf("%w: cannot reach the LiveKit server, check LIVEKIT_URL in %s",
			ErrDispatchFailed, config.DefaultEnvFile)
	}

	// Generic fallback - redact credentials but preserve useful context
	sanitized := redactSensitiveInfo(output)
	if sanitized == "" {
		sanitized = err.Error()
	}
	return fmt.Errorf("%w: %s", ErrDispatchFailed, sanitized)
}

// redactSensitiveInfo removes credential material and usernames from CLI
// output before it is surfaced in an error message.
func redactSensitiveInfo(msg string) string {
	msg = strings.TrimSpace(msg)

	// Limit message length
	const maxLen = 200
	if len(msg) > maxLen {
		msg = msg[:maxLen] + "..."
	}

	// The CLI may echo credentials back in connection errors.
	for _, name := range []string{"LIVEKIT_API_SECRET", "LIVEKIT_API_KEY"} {
		if value := os.Getenv(name); value != "" {
			msg = strings.ReplaceAll(msg, value, "[REDACTED]")
		}
	}

	// Redact absolute paths that might contain usernames
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		msg = strings.ReplaceAll(msg, home, "$HOME")
	}

	// Redact /home/username and /Users/username patterns
	re := regexp.MustCompile(`/home/[^/\s]+`)
	msg = re.ReplaceAllString(msg, "/home/<user>")
	re = regexp.MustCompile(`/Users/[^/\s]+`)
	msg = re.ReplaceAllString(msg, "/Users/<user>")

	return msg
}
