package installer

import (
	"time"
)

// Binary represents a release binary managed by the caller toolchain
type Binary string

const (
	// BinaryLK represents the livekit-cli binary
	BinaryLK Binary = "lk"
)

// String returns the string representation of the binary
func (b Binary) String() string {
	return string(b)
}

// DefaultVersion is the pinned livekit-cli release.
// The outbound-caller agent is exercised against this version, so it is
// hard-coded rather than resolved dynamically.
const DefaultVersion = "1.4.0"

// InstallOptions configures a binary install
type InstallOptions struct {
	Binary  Binary
	Version string
}

// DownloadInfo contains metadata needed to download a binary
type DownloadInfo struct {
	Binary  Binary
	Version string
	OS      string // "linux", "darwin"
	Arch    string // "amd64", "arm64"
	URL     string // Constructed download URL
}

// InstallResult contains information about a completed install
type InstallResult struct {
	Binary      Binary
	Version     string
	Path        string
	Size        int64
	InstallTime time.Duration
}
