package installer

import (
	"fmt"

	"github.com/livekit-examples/outbound-caller-go/internal/platform"
)

// constructDownloadInfo builds the release asset URL for a binary on the host platform
func constructDownloadInfo(binary Binary, version string, platformInfo *platform.Info) (*DownloadInfo, error) {
	if platformInfo == nil {
		return nil, fmt.Errorf("platform info is required")
	}

	info := &DownloadInfo{
		Binary:  binary,
		Version: version,
		OS:      platformInfo.OS,
		Arch:    platformInfo.Arch,
	}

	switch binary {
	case BinaryLK:
		return constructLKDownloadInfo(info, version)
	default:
		return nil, fmt.Errorf("unknown binary: %s", binary)
	}
}

// constructLKDownloadInfo constructs the livekit-cli asset URL
// Pattern: https://github.com/livekit/livekit-cli/releases/download/v{version}/lk_{Os}_{arch}
func constructLKDownloadInfo(info *DownloadInfo, version string) (*DownloadInfo, error) {
	archName, err := mapLKArch(info.Arch)
	if err != nil {
		return nil, err
	}

	osName, err := mapLKOS(info.OS)
	if err != nil {
		return nil, err
	}

	baseURL := fmt.Sprintf("https://github.com/livekit/livekit-cli/releases/download/v%s", version)
	assetName := fmt.Sprintf("lk_%s_%s", osName, archName)

	info.URL = fmt.Sprintf("%s/%s", baseURL, assetName)

	return info, nil
}

// mapLKArch maps Go GOARCH values to livekit-cli asset architecture names
func mapLKArch(goarch string) (string, error) {
	switch goarch {
	case "amd64":
		return "amd64", nil
	case "arm64":
		return "arm64", nil
	default:
		return "", fmt.Errorf("unsupported architecture for lk: %s", goarch)
	}
}

// mapLKOS maps Go GOOS values to livekit-cli asset OS names
// Note: the release capitalizes the OS segment (lk_Linux_amd64, lk_Darwin_arm64)
func mapLKOS(goos string) (string, error) {
	switch goos {
	case "linux":
		return "Linux", nil
	case "darwin":
		return "Darwin", nil
	default:
		return "", fmt.Errorf("unsupported OS for lk: %s", goos)
	}
}
