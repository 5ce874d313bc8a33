//go:build !linux

package trash

import (
	"os"
	"path/filepath"
)

// location returns the user's home trash directory. macOS keeps it at
// ~/.Trash; on other platforms the same layout serves as a recoverable
// fallback.
func location() (filesDir, infoDir string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}
	return filepath.Join(home, ".Trash"), "", nil
}
