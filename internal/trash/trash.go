// Package trash implements recoverable deletion: payloads are moved into a
// platform trash directory instead of being removed permanently.
package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	cp "github.com/otiai10/copy"
	"github.com/pkg/errors"
)

// Bin is a trash destination. On Linux it follows the freedesktop layout
// (files/ payloads plus info/*.trashinfo records); elsewhere it is a plain
// directory with collision-suffixed names.
type Bin struct {
	filesDir string
	infoDir  string // empty when the platform keeps no trashinfo records
}

// New returns the Bin for the current platform's trash location.
func New() (*Bin, error) {
	filesDir, infoDir, err := location()
	if err != nil {
		return nil, errors.Wrap(err, "failed to locate trash directory")
	}
	return &Bin{filesDir: filesDir, infoDir: infoDir}, nil
}

// NewAt returns a Bin rooted at an explicit directory, without trashinfo
// records. Used by tests and as an escape hatch for unusual setups.
func NewAt(dir string) *Bin {
	return &Bin{filesDir: dir}
}

// Trash moves path into the bin and returns the payload's new location.
// The payload stays readable at the returned path until the user empties
// the trash.
func (b *Bin) Trash(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(err, "cannot trash %s", path)
	}

	if err := os.MkdirAll(b.filesDir, 0o700); err != nil {
		return "", errors.Wrap(err, "failed to create trash directory")
	}
	if b.infoDir != "" {
		if err := os.MkdirAll(b.infoDir, 0o700); err != nil {
			return "", errors.Wrap(err, "failed to create trash info directory")
		}
	}

	name := b.uniqueName(filepath.Base(path))
	target := filepath.Join(b.filesDir, name)

	if b.infoDir != "" {
		if err := b.writeTrashInfo(name, path); err != nil {
			return "", err
		}
	}

	if err := os.Rename(path, target); err != nil {
		// Rename fails across filesystems; fall back to copy and remove.
		if copyErr := cp.Copy(path, target); copyErr != nil {
			return "", errors.Wrapf(copyErr, "failed to move %s to trash", path)
		}
		if rmErr := os.RemoveAll(path); rmErr != nil {
			return "", errors.Wrapf(rmErr, "failed to remove %s after copying to trash", path)
		}
	}

	return target, nil
}

// uniqueName picks a payload name that does not collide with anything
// already in the bin.
func (b *Bin) uniqueName(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(b.filesDir, name)); os.IsNotExist(err) {
			if b.infoDir == "" {
				return name
			}
			if _, err := os.Stat(filepath.Join(b.infoDir, name+".trashinfo")); os.IsNotExist(err) {
				return name
			}
		}
		name = fmt.Sprintf("%s.%d", base, i)
	}
}

// writeTrashInfo records the original location per the freedesktop trash
// specification so desktop environments can restore the payload.
func (b *Bin) writeTrashInfo(name, originalPath string) error {
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		originalPath, time.Now().Format("2006-01-02T15:04:05"))

	infoPath := filepath.Join(b.infoDir, name+".trashinfo")
	if err := os.WriteFile(infoPath, []byte(info), 0o600); err != nil {
		return errors.Wrapf(err, "failed to write trash info for %s", originalPath)
	}
	return nil
}
