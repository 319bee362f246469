package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/livekit-examples/outbound-caller-go/internal/config"
	"github.com/livekit-examples/outbound-caller-go/internal/git"
	"github.com/livekit-examples/outbound-caller-go/internal/installer"
	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// runInstall handles the `caller install` subcommand (and the zero-argument
// invocation). Each step prints its outcome; the first failure aborts the
// whole run with a non-zero exit.
func runInstall(args []string) error {
	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			printInstallHelp()
			return nil
		default:
			return fmt.Errorf("unknown option: %s\nRun 'caller install --help' for usage", arg)
		}
	}

	// Create context with timeout (5 minutes for the download)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	logger := newLogger()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	fmt.Println("Installing LiveKit CLI...")
	fmt.Println()

	// Step 1: Detect platform
	fmt.Println("Detecting platform...")
	detector := platform.NewDetector()
	platformInfo, err := detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	if distro := platformInfo.GetDistro(); distro != nil {
		stepOK("Detected %s (%s family, %s)", distro.ID, distro.Family, platformInfo.Arch)
	} else {
		stepOK("Detected %s, %s", platformInfo.OS, platformInfo.Arch)
	}
	logger.Debug("platform detected", "os", platformInfo.OS, "arch", platformInfo.Arch)

	manager, err := installer.NewManager(installer.Config{
		WorkDir:      workDir,
		PlatformInfo: platformInfo,
	})
	if err != nil {
		return fmt.Errorf("create installer: %w", err)
	}

	// Step 2: Resolve the release asset
	info, err := manager.Resolve(installer.InstallOptions{Binary: installer.BinaryLK})
	if err != nil {
		return fmt.Errorf("resolve release asset: %w", err)
	}

	fmt.Println()
	fmt.Printf("Downloading lk %s...\n", info.Version)
	detail("%s", info.URL)
	if installed, err := manager.IsInstalled(installer.BinaryLK); err == nil && installed {
		detail("(replacing existing bin/lk)")
	}

	// Step 3: Download, chmod, move into bin/
	result, err := manager.Install(ctx, info)
	if err != nil {
		return fmt.Errorf("install lk: %w", err)
	}
	stepOK("Installed %s (%s in %s)", result.Path, formatSize(result.Size),
		result.InstallTime.Round(time.Millisecond))

	// Step 4: Scaffold caller.lua, but only when the user has none
	generator := config.NewGenerator()
	created, err := generator.WriteStarterFile(filepath.Join(workDir, config.ConfigFileName))
	if err != nil {
		// The binary is in place; a failed scaffold is not worth aborting over
		stepWarn("Could not write starter %s: %v", config.ConfigFileName, err)
	} else if created {
		stepOK("Created starter %s", config.ConfigFileName)
	}

	// Step 5: In a git project, keep credentials and the binary out of
	// version control
	if repo := git.OpenRepo(workDir); repo != nil {
		added, err := git.EnsureIgnored(filepath.Join(workDir, ".gitignore"),
			[]string{config.DefaultEnvFile, "bin/", "/lk"})
		if err != nil {
			stepWarn("Could not update .gitignore: %v", err)
		} else if len(added) > 0 {
			stepOK("Added %s to .gitignore", strings.Join(added, ", "))
		}
	}

	printInstallSuccessMessage()
	return nil
}

// printInstallSuccessMessage prints the success message after installation
func printInstallSuccessMessage() {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════╗")
	fmt.Println("║  LiveKit CLI installed                                   ║")
	fmt.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Printf("  1. Put your LiveKit credentials in %s\n", config.DefaultEnvFile)
	fmt.Println("  2. Check readiness: caller status")
	fmt.Println("  3. Place a call:    caller dispatch --phone +15105550123")
}

// printInstallHelp prints help for the install command
func printInstallHelp() {
	fmt.Println("Usage: caller install")
	fmt.Println()
	fmt.Printf("Download the LiveKit CLI (lk %s) for this machine into ./bin/lk.\n", installer.DefaultVersion)
	fmt.Println()
	fmt.Println("Running 'caller' with no arguments does the same thing.")
	fmt.Println()
	fmt.Println("Details:")
	fmt.Println("  - bin/ is created next to the current directory if absent")
	fmt.Println("  - An existing bin/lk is replaced; re-running is safe")
	fmt.Println("  - A commented starter caller.lua is written if you have none")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help  Show this help message")
}
