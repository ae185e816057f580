// Copyright the Huntsman Telescope Collaboration, 2026. All rights reserved.

package refcat

import (
	"fmt"
	"os"
	"path/filepath"
)

// dataDir is the repository subdirectory the host stack scans for
// reference catalogues.
const dataDir = "DATA"

// LinkPath returns where the symlink for a catalogue lives under repoRoot.
func LinkPath(repoRoot, name string) string {
	return filepath.Join(repoRoot, dataDir, refCatsDir, name)
}

// TargetPath returns the conventional test-data location of a catalogue:
// <testdataRoot>/ref_cats/<source>/ref_cats/<name>.
func TargetPath(testdataRoot, source, name string) string {
	return filepath.Join(testdataRoot, refCatsDir, source, refCatsDir, name)
}

// Link creates <repoRoot>/DATA/ref_cats/<name> as a relative symlink to the
// catalogue directory at target. The target must exist. An existing link
// pointing at the same target is left alone; anything else at the link path
// is an error, never clobbered.
func Link(repoRoot, target, name string) (string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("refcat: link target: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("refcat: link target %s is not a directory", target)
	}

	link := LinkPath(repoRoot, name)
	linkDir := filepath.Dir(link)
	if err := os.MkdirAll(linkDir, 0o755); err != nil {
		return "", fmt.Errorf("refcat: creating %s: %w", linkDir, err)
	}

	rel, err := filepath.Rel(linkDir, target)
	if err != nil {
		// Different volumes: fall back to the absolute target.
		rel, err = filepath.Abs(target)
		if err != nil {
			return "", fmt.Errorf("refcat: resolving target: %w", err)
		}
	}

	if fi, err := os.Lstat(link); err == nil {
		if fi.Mode()&os.ModeSymlink == 0 {
			return "", fmt.Errorf("refcat: %s exists and is not a symlink", link)
		}
		existing, err := os.Readlink(link)
		if err != nil {
			return "", fmt.Errorf("refcat: reading existing link: %w", err)
		}
		if existing == rel {
			return link, nil
		}
		// Stale link from a previous layout: replace it.
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("refcat: replacing stale link: %w", err)
		}
	}

	if err := os.Symlink(rel, link); err != nil {
		return "", fmt.Errorf("refcat: creating symlink: %w", err)
	}
	return link, nil
}

// VerifyLink checks that the symlink at link resolves to an existing
// directory containing a readable catalogue.
func VerifyLink(link string) error {
	fi, err := os.Lstat(link)
	if err != nil {
		return fmt.Errorf("refcat: %w", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("refcat: %s is not a symlink", link)
	}

	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return fmt.Errorf("refcat: %s does not resolve: %w", link, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return fmt.Errorf("refcat: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("refcat: %s resolves to a non-directory", link)
	}
	return nil
}
