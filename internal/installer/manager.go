package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// Manager orchestrates binary download and installation
type Manager struct {
	workDir      string
	binDir       string
	platformInfo *platform.Info
	downloader   *Downloader
}

// Config holds configuration for the installer manager
type Config struct {
	// WorkDir is where the downloaded file is staged before it is moved
	// into place (default: current directory)
	WorkDir string
	// BinDir is the directory binaries are installed into (default: WorkDir/bin)
	BinDir string
	// PlatformInfo contains OS and architecture information
	PlatformInfo *platform.Info
}

// NewManager creates a new installer manager
func NewManager(config Config) (*Manager, error) {
	if config.PlatformInfo == nil {
		return nil, fmt.Errorf("PlatformInfo is required")
	}

	workDir := config.WorkDir
	if workDir == "" {
		workDir = "."
	}

	binDir := config.BinDir
	if binDir == "" {
		binDir = filepath.Join(workDir, "bin")
	}

	manager := &Manager{
		workDir:      workDir,
		binDir:       binDir,
		platformInfo: config.PlatformInfo,
		downloader:   NewDownloader(),
	}

	return manager, nil
}

// IsInstalled checks if a binary is already installed and executable
func (m *Manager) IsInstalled(binary Binary) (bool, error) {
	binaryPath := filepath.Join(m.binDir, binary.String())

	// Check if file exists
	info, err := os.Stat(binaryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat binary: %w", err)
	}

	// Check if it's a regular file
	if !info.Mode().IsRegular() {
		return false, nil
	}

	// Check if it's executable
	if info.Mode().Perm()&0111 == 0 {
		return false, nil
	}

	return true, nil
}

// Resolve constructs the download target for a binary on the host platform.
// An empty version selects the pinned DefaultVersion.
func (m *Manager) Resolve(opts InstallOptions) (*DownloadInfo, error) {
	if opts.Version == "" {
		switch opts.Binary {
		case BinaryLK:
			opts.Version = DefaultVersion
		default:
			return nil, fmt.Errorf("unknown binary: %s", opts.Binary)
		}
	}

	info, err := constructDownloadInfo(opts.Binary, opts.Version, m.platformInfo)
	if err != nil {
		return nil, fmt.Errorf("construct download info: %w", err)
	}

	return info, nil
}

// Install downloads a resolved binary and moves it into the bin directory.
//
// The artifact is staged in the working directory under the binary's own
// name, marked executable, and then renamed into binDir. An existing
// install is overwritten, so re-running is idempotent. A failed download
// leaves no file in binDir; later step failures abort immediately without
// undoing the steps that already ran. Installs into the same working
// directory are serialized through a lock file because they share the
// staging path.
func (m *Manager) Install(ctx context.Context, info *DownloadInfo) (*InstallResult, error) {
	startTime := time.Now()

	if info == nil {
		return nil, fmt.Errorf("download info is nil")
	}

	lock, err := acquireInstallLock(m.workDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.release() }()

	stagePath := filepath.Join(m.workDir, info.Binary.String())
	if err := m.downloader.DownloadToFile(ctx, info.URL, stagePath); err != nil {
		return nil, fmt.Errorf("download %s: %w", info.Binary, err)
	}

	if err := SetExecutable(stagePath); err != nil {
		return nil, fmt.Errorf("set executable: %w", err)
	}

	if err := os.MkdirAll(m.binDir, 0755); err != nil {
		return nil, fmt.Errorf("create bin dir: %w", err)
	}

	destPath := filepath.Join(m.binDir, info.Binary.String())
	if err := os.Rename(stagePath, destPath); err != nil {
		return nil, fmt.Errorf("move binary into place: %w", err)
	}

	fi, err := os.Stat(destPath)
	if err != nil {
		return nil, fmt.Errorf("stat installed binary: %w", err)
	}

	result := &InstallResult{
		Binary:      info.Binary,
		Version:     info.Version,
		Path:        destPath,
		Size:        fi.Size(),
		InstallTime: time.Since(startTime),
	}

	return result, nil
}

// Uninstall removes an installed binary. The bin directory itself is
// removed afterwards only if it is empty.
func (m *Manager) Uninstall(binary Binary) error {
	binaryPath := filepath.Join(m.binDir, binary.String())

	if err := os.Remove(binaryPath); err != nil {
		return fmt.Errorf("remove binary: %w", err)
	}

	// Prune the bin directory when nothing else lives there.
	// os.Remove refuses non-empty directories, which is exactly what we want.
	_ = os.Remove(m.binDir)

	return nil
}

// GetBinaryPath returns the filesystem path to an installed binary
func (m *Manager) GetBinaryPath(binary Binary) string {
	return filepath.Join(m.binDir, binary.String())
}

// SetExecutable marks a file as executable by owner, group, and others
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	return nil
}
