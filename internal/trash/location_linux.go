//go:build linux

package trash

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// location returns the freedesktop home trash under $XDG_DATA_HOME.
func location() (filesDir, infoDir string, err error) {
	root := filepath.Join(xdg.DataHome, "Trash")
	return filepath.Join(root, "files"), filepath.Join(root, "info"), nil
}
