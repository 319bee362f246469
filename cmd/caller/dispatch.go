package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/livekit-examples/outbound-caller-go/internal/config"
	"github.com/livekit-examples/outbound-caller-go/internal/dispatch"
	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// DispatchFlags holds command-line flags for dispatch
type DispatchFlags struct {
	phone      string
	transferTo string
	agent      string
	room       string
}

// parseDispatchFlags parses command-line flags for the dispatch command
func parseDispatchFlags(args []string) (*DispatchFlags, error) {
	flags := &DispatchFlags{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--help", "-h":
			printDispatchHelp()
			return nil, fmt.Errorf("help requested")
		case "--phone", "-p":
			value, err := flagValue(args, &i)
			if err != nil {
				return nil, err
			}
			flags.phone = value
		case "--transfer-to", "-t":
			value, err := flagValue(args, &i)
			if err != nil {
				return nil, err
			}
			flags.transferTo = value
		case "--agent", "-a":
			value, err := flagValue(args, &i)
			if err != nil {
				return nil, err
			}
			flags.agent = value
		case "--room", "-r":
			value, err := flagValue(args, &i)
			if err != nil {
				return nil, err
			}
			flags.room = value
		default:
			return nil, fmt.Errorf("unknown option: %s\nRun 'caller dispatch --help' for usage", arg)
		}
	}

	return flags, nil
}

// flagValue consumes the value following args[*i], advancing the index.
func flagValue(args []string, i *int) (string, error) {
	if *i+1 >= len(args) {
		return "", fmt.Errorf("%s requires a value", args[*i])
	}
	*i++
	return args[*i], nil
}

// validateDispatchFlags rejects malformed flag values up front, so the error
// names the flag the user typed rather than a config field.
func validateDispatchFlags(flags *DispatchFlags) error {
	if flags.phone != "" {
		if err := config.ValidatePhoneNumber("--phone", flags.phone); err != nil {
			return err
		}
	}
	if flags.transferTo != "" {
		if err := config.ValidatePhoneNumber("--transfer-to", flags.transferTo); err != nil {
			return err
		}
	}
	if flags.agent != "" {
		if err := config.ValidateAgentName("--agent", flags.agent); err != nil {
			return err
		}
	}
	return nil
}

// resolveRequest merges flag values over caller.lua defaults. The defaults
// are already effective (built-ins filled in), so after the merge every
// field except the room is non-empty. A configured room prefix turns into a
// fresh room name per dispatch; no prefix means the server picks the room.
func resolveRequest(flags *DispatchFlags, defaults config.Defaults, now func() time.Time) dispatch.Request {
	req := dispatch.Request{
		AgentName:   flags.agent,
		PhoneNumber: flags.phone,
		TransferTo:  flags.transferTo,
		RoomName:    flags.room,
	}

	if req.AgentName == "" {
		req.AgentName = defaults.AgentName
	}
	if req.PhoneNumber == "" {
		req.PhoneNumber = defaults.PhoneNumber
	}
	if req.TransferTo == "" {
		req.TransferTo = defaults.TransferTo
	}
	if req.RoomName == "" && defaults.RoomPrefix != "" {
		req.RoomName = fmt.Sprintf("%s%d", defaults.RoomPrefix, now().Unix())
	}

	return req
}

// runDispatch handles the `caller dispatch` subcommand
func runDispatch(args []string) error {
	flags, err := parseDispatchFlags(args)
	if err != nil {
		if err.Error() == "help requested" {
			return nil
		}
		return err
	}

	if err := validateDispatchFlags(flags); err != nil {
		return err
	}

	// Create context with timeout (the CLI call itself is quick; the agent
	// places the actual phone call asynchronously)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := newLogger()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Project defaults from caller.lua; a missing file means built-ins
	parser := config.NewParser(platform.NewDetector()).WithLogger(slogConfigLogger{logger})
	cfg, err := parser.Load(ctx, filepath.Join(workDir, config.ConfigFileName))
	if err != nil {
		return err
	}

	// Credentials from .env.local; already-exported shell values win
	if err := config.LoadEnvFile(filepath.Join(workDir, cfg.EnvFile())); err != nil {
		return err
	}

	req := resolveRequest(flags, cfg.EffectiveDefaults(), time.Now)
	logger.Debug("resolved dispatch request",
		"agent", req.AgentName, "phone", req.PhoneNumber,
		"transfer_to", req.TransferTo, "room", req.RoomName)

	fmt.Println("Creating dispatch...")
	fmt.Printf("  Agent:    %s\n", req.AgentName)
	fmt.Printf("  Phone:    %s\n", req.PhoneNumber)
	fmt.Printf("  Transfer: %s\n", req.TransferTo)
	if req.RoomName != "" {
		fmt.Printf("  Room:     %s\n", req.RoomName)
	}
	fmt.Println()

	client := dispatch.NewClient(workDir)
	result, err := client.CreateDispatch(ctx, req)
	if err != nil {
		return err
	}

	stepOK("Dispatch created for agent %s", result.AgentName)
	if output := strings.TrimSpace(result.Output); output != "" {
		fmt.Println()
		fmt.Println(output)
	}

	return nil
}

// printDispatchHelp prints help for the dispatch command
func printDispatchHelp() {
	fmt.Println("Usage: caller dispatch [options]")
	fmt.Println()
	fmt.Println("Create an agent dispatch that places an outbound phone call.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -p, --phone NUMBER        Number to dial, E.164 format (+15105550123)")
	fmt.Println("  -t, --transfer-to NUMBER  Number a human transfer goes to, E.164 format")
	fmt.Println("  -a, --agent NAME          Agent to dispatch (default: outbound-caller)")
	fmt.Println("  -r, --room NAME           Dispatch into a named room instead of a new one")
	fmt.Println("  -h, --help                Show this help message")
	fmt.Println()
	fmt.Println("Flags override caller.lua defaults, which override the built-ins.")
	fmt.Println()
	fmt.Println("Requires bin/lk (run 'caller install') and LiveKit credentials in")
	fmt.Printf("%s: LIVEKIT_URL, LIVEKIT_API_KEY, LIVEKIT_API_SECRET.\n", config.DefaultEnvFile)
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  caller dispatch                              Call the configured number")
	fmt.Println("  caller dispatch --phone +15105550123         Call a specific number")
	fmt.Println("  caller dispatch -p +15105550123 -r demo-42   Call into room demo-42")
}
