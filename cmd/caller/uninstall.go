package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/livekit-examples/outbound-caller-go/internal/installer"
	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// UninstallFlags holds command-line flags for uninstall
type UninstallFlags struct {
	force  bool
	dryRun bool
}

// parseUninstallFlags parses command-line flags for the uninstall command
func parseUninstallFlags(args []string) (*UninstallFlags, error) {
	flags := &UninstallFlags{}

	for _, arg := range args {
		switch arg {
		case "--force", "-f":
			flags.force = true
		case "--dry-run":
			flags.dryRun = true
		case "--help", "-h":
			printUninstallHelp()
			return nil, fmt.Errorf("help requested")
		default:
			if strings.HasPrefix(arg, "-") {
				return nil, fmt.Errorf("unknown flag: %s", arg)
			}
		}
	}

	return flags, nil
}

// printUninstallHelp prints help text for the uninstall command
func printUninstallHelp() {
	fmt.Println("Usage: caller uninstall [OPTIONS]")
	fmt.Println()
	fmt.Println("Remove the LiveKit CLI installed under bin/")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --force, -f   Skip the confirmation prompt")
	fmt.Println("  --dry-run     Show what would be removed without removing")
	fmt.Println("  --help, -h    Show this help message")
	fmt.Println()
	fmt.Println("caller.lua and .env.local are never touched; delete them by")
	fmt.Println("hand if you no longer want them.")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  caller uninstall            # Remove bin/lk (with confirmation)")
	fmt.Println("  caller uninstall --dry-run  # Preview what would be removed")
	fmt.Println("  caller uninstall --force    # Remove without confirmation")
}

// RemovalPlan describes what will be removed
type RemovalPlan struct {
	BinaryPath   string
	BinaryExists bool
	BinarySize   int64

	// A download that never made it into bin/, left by an aborted install.
	StagedPath   string
	StagedExists bool
	StagedSize   int64
}

// analyzeInstall inspects the working directory for artifacts to remove
func analyzeInstall(workDir string) *RemovalPlan {
	plan := &RemovalPlan{
		BinaryPath: filepath.Join(workDir, "bin", installer.BinaryLK.String()),
		StagedPath: filepath.Join(workDir, installer.BinaryLK.String()),
	}

	if info, err := os.Stat(plan.BinaryPath); err == nil && info.Mode().IsRegular() {
		plan.BinaryExists = true
		plan.BinarySize = info.Size()
	}
	if info, err := os.Stat(plan.StagedPath); err == nil && info.Mode().IsRegular() {
		plan.StagedExists = true
		plan.StagedSize = info.Size()
	}

	return plan
}

// FreedSize returns the total disk space removal would reclaim
func (p *RemovalPlan) FreedSize() int64 {
	var total int64
	if p.BinaryExists {
		total += p.BinarySize
	}
	if p.StagedExists {
		total += p.StagedSize
	}
	return total
}

// showRemovalPlan displays what will be removed
func showRemovalPlan(plan *RemovalPlan) {
	fmt.Println("The following will be removed:")
	if plan.BinaryExists {
		fmt.Printf("  [×] %s (%s)\n", plan.BinaryPath, formatSize(plan.BinarySize))
	}
	if plan.StagedExists {
		fmt.Printf("  [×] %s (%s, incomplete download)\n", plan.StagedPath, formatSize(plan.StagedSize))
	}
	fmt.Println()
	fmt.Printf("Total disk space to be freed: %s\n", formatSize(plan.FreedSize()))
}

// confirmUninstall prompts the user for confirmation
func confirmUninstall(flags *UninstallFlags) (bool, error) {
	if flags.force {
		return true, nil
	}

	fmt.Println()
	fmt.Print("Remove the LiveKit CLI? (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes" || response == "y", nil
}

// performRemoval removes the planned artifacts
func performRemoval(ctx context.Context, workDir string, plan *RemovalPlan) error {
	platformInfo, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}

	manager, err := installer.NewManager(installer.Config{
		WorkDir:      workDir,
		PlatformInfo: platformInfo,
	})
	if err != nil {
		return fmt.Errorf("create installer manager: %w", err)
	}

	if plan.BinaryExists {
		if err := manager.Uninstall(installer.BinaryLK); err != nil {
			return err
		}
		stepOK("Removed %s", plan.BinaryPath)
	}

	if plan.StagedExists {
		if err := os.Remove(plan.StagedPath); err != nil {
			return fmt.Errorf("remove staged download: %w", err)
		}
		stepOK("Removed %s", plan.StagedPath)
	}

	return nil
}

// runUninstall handles the `caller uninstall` subcommand
func runUninstall(args []string) error {
	flags, err := parseUninstallFlags(args)
	if err != nil {
		if err.Error() == "help requested" {
			return nil
		}
		return err
	}

	ctx := context.Background()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	plan := analyzeInstall(workDir)

	if !plan.BinaryExists && !plan.StagedExists {
		fmt.Println("LiveKit CLI is not installed")
		fmt.Printf("Nothing found at %s\n", plan.BinaryPath)
		return nil
	}

	showRemovalPlan(plan)

	// Dry run mode - exit after showing plan
	if flags.dryRun {
		fmt.Println()
		fmt.Println("[DRY RUN] No changes were made")
		return nil
	}

	confirmed, err := confirmUninstall(flags)
	if err != nil {
		return fmt.Errorf("confirmation: %w", err)
	}
	if !confirmed {
		fmt.Println()
		fmt.Println("Uninstall cancelled")
		return nil
	}

	fmt.Println()

	if err := performRemoval(ctx, workDir, plan); err != nil {
		return err
	}

	fmt.Println()
	stepOK("Freed %s of disk space", formatSize(plan.FreedSize()))
	fmt.Println()
	fmt.Println("To reinstall, run: caller install")

	return nil
}
