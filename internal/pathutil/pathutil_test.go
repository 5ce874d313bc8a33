package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}

	t.Run("BareTilde", func(t *testing.T) {
		got, err := ExpandHome("~")
		if err != nil {
			t.Fatalf("ExpandHome failed: %v", err)
		}
		if got != home {
			t.Errorf("Expected %s, got %s", home, got)
		}
	})

	t.Run("TildeWithPath", func(t *testing.T) {
		got, err := ExpandHome("~/documents")
		if err != nil {
			t.Fatalf("ExpandHome failed: %v", err)
		}
		if got != filepath.Join(home, "documents") {
			t.Errorf("Expected %s, got %s", filepath.Join(home, "documents"), got)
		}
	})

	t.Run("NoTilde", func(t *testing.T) {
		got, err := ExpandHome("/var/data")
		if err != nil {
			t.Fatalf("ExpandHome failed: %v", err)
		}
		if got != "/var/data" {
			t.Errorf("Expected /var/data, got %s", got)
		}
	})

	t.Run("TildeInMiddleUntouched", func(t *testing.T) {
		got, err := ExpandHome("/var/~data")
		if err != nil {
			t.Fatalf("ExpandHome failed: %v", err)
		}
		if got != "/var/~data" {
			t.Errorf("Expected /var/~data, got %s", got)
		}
	})
}

func TestCanonicalize(t *testing.T) {
	tempDir := t.TempDir()

	t.Run("RelativeSegmentsRemoved", func(t *testing.T) {
		canonTemp, err := Canonicalize(tempDir)
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}

		got, err := Canonicalize(filepath.Join(tempDir, "a", "..", "b"))
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		if got != filepath.Join(canonTemp, "b") {
			t.Errorf("Expected %s, got %s", filepath.Join(canonTemp, "b"), got)
		}
	})

	t.Run("TrailingSlashRemoved", func(t *testing.T) {
		got, err := Canonicalize(tempDir + string(os.PathSeparator))
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		want, err := Canonicalize(tempDir)
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("SymlinkedParentResolved", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlink creation requires privileges on windows")
		}

		real := filepath.Join(tempDir, "real")
		if err := os.MkdirAll(real, 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		link := filepath.Join(tempDir, "link")
		if err := os.Symlink(real, link); err != nil {
			t.Fatalf("Failed to create symlink: %v", err)
		}

		canonReal, err := Canonicalize(real)
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}

		// The leaf does not exist yet; the symlinked parent must still resolve.
		got, err := Canonicalize(filepath.Join(link, "new.txt"))
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		if got != filepath.Join(canonReal, "new.txt") {
			t.Errorf("Expected %s, got %s", filepath.Join(canonReal, "new.txt"), got)
		}
	})

	t.Run("NothingExists", func(t *testing.T) {
		got, err := Canonicalize(filepath.Join(tempDir, "missing", "deep", "file.txt"))
		if err != nil {
			t.Fatalf("Canonicalize failed: %v", err)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("Expected absolute path, got %s", got)
		}
	})
}
