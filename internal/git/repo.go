package git

import (
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// OpenRepo finds the git repository containing dir. Returns nil when dir is
// not inside one; a project without git simply skips the checks built on
// top of this.
func OpenRepo(dir string) *gogit.Repository {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}
	return repo
}

// IsTracked reports whether the file at absPath is in the repository index,
// meaning it is staged or committed. A credentials file showing up here has
// already leaked into history and needs rotating, not just ignoring.
func IsTracked(repo *gogit.Repository, absPath string) (bool, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("get worktree: %w", err)
	}

	rel, err := filepath.Rel(worktree.Filesystem.Root(), absPath)
	if err != nil {
		return false, fmt.Errorf("resolve path against repository root: %w", err)
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return false, fmt.Errorf("read index: %w", err)
	}

	if _, err := idx.Entry(filepath.ToSlash(rel)); err != nil {
		return false, nil
	}
	return true, nil
}
