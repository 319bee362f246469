package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/livekit-examples/outbound-caller-go/internal/config"
	"github.com/livekit-examples/outbound-caller-go/internal/git"
	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// StatusReport describes how ready the project is to dispatch calls.
type StatusReport struct {
	BinaryPath   string
	BinaryExists bool
	BinaryExec   bool
	BinarySize   int64

	ConfigPath   string
	ConfigExists bool
	ConfigErr    error
	Config       *config.Config
	Findings     []config.SensitiveDataFinding

	EnvFilePath string
	EnvFileErr  error
	// EnvFileTracked means the env file sits in the git index: the
	// credentials are staged or committed.
	EnvFileTracked bool
	EnvChecks      []config.EnvVarCheck
}

// analyzeStatus inspects the working directory the same way dispatch would:
// binary first, then caller.lua, then the environment file it names.
func analyzeStatus(ctx context.Context, workDir string, logger *slog.Logger) *StatusReport {
	report := &StatusReport{
		BinaryPath: filepath.Join(workDir, "bin", "lk"),
		ConfigPath: filepath.Join(workDir, config.ConfigFileName),
	}

	if info, err := os.Stat(report.BinaryPath); err == nil && info.Mode().IsRegular() {
		report.BinaryExists = true
		report.BinarySize = info.Size()
		report.BinaryExec = info.Mode().Perm()&0111 != 0
	}

	// Config: presence, parse result, hardcoded-secret scan
	cfg := config.DefaultConfig()
	if content, err := os.ReadFile(report.ConfigPath); err == nil {
		report.ConfigExists = true
		report.Findings = config.DetectSensitiveData(string(content))

		parser := config.NewParser(platform.NewDetector()).WithLogger(slogConfigLogger{logger})
		parsed, err := parser.ParseString(ctx, string(content))
		if err != nil {
			report.ConfigErr = err
		} else {
			report.Config = parsed
			cfg = parsed
		}
	}

	// Environment as dispatch would see it
	report.EnvFilePath = filepath.Join(workDir, cfg.EnvFile())
	if err := config.LoadEnvFile(report.EnvFilePath); err != nil {
		report.EnvFileErr = err
	}
	report.EnvChecks = config.CheckEnv()

	if repo := git.OpenRepo(workDir); repo != nil {
		if tracked, err := git.IsTracked(repo, report.EnvFilePath); err == nil && tracked {
			report.EnvFileTracked = true
		}
	}

	return report
}

// Problems returns what blocks a dispatch, empty when ready. A missing
// SIP_OUTBOUND_TRUNK_ID is not listed: the agent consumes it, not the CLI.
func (r *StatusReport) Problems() []string {
	var problems []string

	if !r.BinaryExists {
		problems = append(problems, "run 'caller install'")
	} else if !r.BinaryExec {
		problems = append(problems, "bin/lk is not executable, re-run 'caller install'")
	}

	if r.ConfigErr != nil {
		problems = append(problems, "fix "+config.ConfigFileName)
	}

	var missing []string
	for _, check := range r.EnvChecks {
		if isDispatchVar(check.Name) && check.Status != config.EnvVarSet {
			missing = append(missing, check.Name)
		}
	}
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("set %s in %s",
			strings.Join(missing, ", "), filepath.Base(r.EnvFilePath)))
	}

	return problems
}

// Ready reports whether a dispatch would pass its preconditions.
func (r *StatusReport) Ready() bool {
	return len(r.Problems()) == 0
}

func isDispatchVar(name string) bool {
	for _, v := range config.DispatchEnvVars {
		if v == name {
			return true
		}
	}
	return false
}

// renderStatusReport prints the report. Verbose mode shows raw parse errors
// and the full hardcoded-secret warning.
func renderStatusReport(r *StatusReport, verbose bool) {
	fmt.Println("Outbound Caller Status")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Println("LiveKit CLI")
	switch {
	case !r.BinaryExists:
		stepFail("bin/lk not installed")
	case !r.BinaryExec:
		stepWarn("bin/lk present but not executable")
	default:
		stepOK("bin/lk installed (%s)", formatSize(r.BinarySize))
	}

	fmt.Println()
	fmt.Printf("Environment (%s)\n", filepath.Base(r.EnvFilePath))
	if r.EnvFileErr != nil {
		stepFail("%v", r.EnvFileErr)
	}
	for _, check := range r.EnvChecks {
		note := ""
		if check.Status != config.EnvVarSet && !isDispatchVar(check.Name) {
			note = "  (used by the agent, not the CLI)"
		}
		fmt.Printf("  %s %-22s %s%s\n", check.Status.Symbol(), check.Name, check.Status, note)
	}
	if r.EnvFileTracked {
		stepWarn("%s is tracked by git, untrack it and rotate those credentials",
			filepath.Base(r.EnvFilePath))
	}

	fmt.Println()
	fmt.Printf("Config (%s)\n", config.ConfigFileName)
	switch {
	case !r.ConfigExists:
		fmt.Println("  - not present, built-in defaults apply")
	case r.ConfigErr != nil:
		stepFail("%s", config.FormatError(r.ConfigErr, verbose))
	default:
		defaults := r.Config.EffectiveDefaults()
		stepOK("parsed (agent %s, phone %s)", defaults.AgentName, defaults.PhoneNumber)
	}
	if len(r.Findings) > 0 {
		if verbose {
			fmt.Print(config.FormatSensitiveDataWarning(r.Findings))
		} else {
			stepWarn("%d potential secret(s) in %s, move them to %s",
				len(r.Findings), config.ConfigFileName, filepath.Base(r.EnvFilePath))
		}
	}

	fmt.Println()
	if r.Ready() {
		stepOK("Ready to dispatch")
	} else {
		stepFail("Not ready: %s", strings.Join(r.Problems(), "; "))
	}
}

// runStatus handles the `caller status` subcommand.
// Returns an exit code (0 = ready to dispatch, 1 = not ready) and an error.
func runStatus(args []string) (int, error) {
	verbose := false
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			printStatusHelp()
			return 0, nil
		case "--verbose", "-v":
			verbose = true
		default:
			return 1, fmt.Errorf("unknown option: %s\nRun 'caller status --help' for usage", arg)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workDir, err := os.Getwd()
	if err != nil {
		return 1, fmt.Errorf("get working directory: %w", err)
	}

	report := analyzeStatus(ctx, workDir, newLogger())
	renderStatusReport(report, verbose)

	if report.Ready() {
		return 0, nil
	}
	return 1, nil
}

// printStatusHelp prints help for the status command
func printStatusHelp() {
	fmt.Println("Usage: caller status [options]")
	fmt.Println()
	fmt.Println("Report whether this project can dispatch calls: the installed")
	fmt.Println("LiveKit CLI, the credential environment, and caller.lua.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose  Show raw parse errors and full secret findings")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  Ready to dispatch")
	fmt.Println("  1  Something is missing (details in the report)")
}

// formatSize formats bytes as human-readable size
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
