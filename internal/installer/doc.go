// Package installer downloads the livekit-cli (lk) binary from its official
// GitHub release and places it into the project-local bin directory.
//
// The install sequence is deliberately linear and fail-fast:
//
//  1. Resolve the release asset URL for the host OS and architecture.
//  2. Fetch it over HTTPS (single attempt, redirects followed).
//  3. Mark the staged file executable.
//  4. Create bin/ if absent and move the file to bin/lk.
//
// Any failing step aborts the whole sequence. There is no retry, no download
// cache, and no verification of the fetched artifact; the release version is
// pinned (DefaultVersion) and re-running simply overwrites bin/lk.
//
// # Usage
//
//	mgr, err := installer.NewManager(installer.Config{PlatformInfo: info})
//	if err != nil {
//	    return err
//	}
//
//	dl, err := mgr.Resolve(installer.InstallOptions{Binary: installer.BinaryLK})
//	if err != nil {
//	    return err
//	}
//
//	result, err := mgr.Install(ctx, dl)
//
// The package is organized into:
//   - Manager: orchestration of resolve, download, place
//   - Downloader: single-attempt HTTP download with atomic staging
//   - release.go: platform-specific URL construction
package installer
