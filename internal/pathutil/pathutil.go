// Package pathutil canonicalizes filesystem paths. Allowed roots and
// candidate paths must go through the exact same canonicalization so the
// containment check in the tool manager can be a plain prefix comparison.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ExpandHome resolves a leading "~" to the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~"+string(os.PathSeparator)) && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrapf(err, "failed to expand %s", path)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// Canonicalize resolves path to an absolute form with relative segments
// removed and symlinks resolved. Paths that do not exist yet are still
// canonicalized: symlinks are resolved on the longest existing ancestor and
// the remaining segments are re-joined, so a symlinked parent cannot be used
// to escape containment.
func Canonicalize(path string) (string, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}

	cur := abs
	var suffix []string
	for {
		resolved, err := filepath.EvalSymlinks(cur)
		if err == nil {
			if len(suffix) == 0 {
				return resolved, nil
			}
			return filepath.Join(append([]string{resolved}, suffix...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "failed to canonicalize %s", path)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Nothing on the path exists; the cleaned absolute form is final.
			return abs, nil
		}
		suffix = append([]string{filepath.Base(cur)}, suffix...)
		cur = parent
	}
}
