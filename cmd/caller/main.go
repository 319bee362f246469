package main

import (
	"fmt"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

// resolveCommand maps raw arguments to a command name and its arguments.
// Zero arguments select install: fetching bin/lk is the tool's core job,
// and `caller` with no arguments must do it.
func resolveCommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "install", nil
	}
	return args[0], args[1:]
}

func main() {
	cmd, args := resolveCommand(os.Args[1:])

	switch cmd {
	case "version", "--version":
		fmt.Printf("caller %s\n", Version)
		fmt.Println("Installer and dispatcher for the LiveKit outbound-caller agent")
		return
	case "install":
		if err := runInstall(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	case "dispatch":
		if err := runDispatch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	case "status":
		code, err := runStatus(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(code)
	case "uninstall":
		if err := runUninstall(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

// printUsage prints the top-level help
func printUsage() {
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║  caller - LiveKit outbound-caller operations CLI         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Installs the LiveKit CLI into ./bin and dispatches outbound calls")
	fmt.Println("to the outbound-caller agent.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  caller                     Install the LiveKit CLI (same as 'caller install')")
	fmt.Println("  caller install             Download lk into ./bin/lk")
	fmt.Println("  caller dispatch [options]  Create an outbound call dispatch")
	fmt.Println("  caller status              Show install, credential and config readiness")
	fmt.Println("  caller uninstall [options] Remove the installed LiveKit CLI")
	fmt.Println("  caller version             Show version information")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  caller.lua                 Optional dispatch defaults (see 'caller install')")
	fmt.Println("  .env.local                 LiveKit credentials (never committed)")
	fmt.Println()
	fmt.Println("Run 'caller <command> --help' for command-specific options.")
}
