// Package git locates the enclosing repository so project state lives at
// the repository root rather than wherever the command happened to run.
package git

import (
	"errors"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
)

// DiscoverRoot walks up from dir to the enclosing git worktree root.
// Outside any repository it returns dir unchanged; docmark does not
// require git.
func DiscoverRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return abs, nil
		}
		return "", err
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository: no worktree to anchor state in
		return abs, nil
	}
	return wt.Filesystem.Root(), nil
}
