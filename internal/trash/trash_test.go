package trash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBin_TrashFile(t *testing.T) {
	binDir := t.TempDir()
	workDir := t.TempDir()
	bin := NewAt(binDir)

	victim := filepath.Join(workDir, "victim.txt")
	if err := os.WriteFile(victim, []byte("recover me"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	target, err := bin.Trash(victim)
	if err != nil {
		t.Fatalf("Trash failed: %v", err)
	}

	if _, err := os.Stat(victim); !os.IsNotExist(err) {
		t.Error("Original file should be gone")
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Payload must be readable at the returned location: %v", err)
	}
	if string(data) != "recover me" {
		t.Errorf("Payload corrupted: %q", string(data))
	}
}

func TestBin_TrashDirectory(t *testing.T) {
	binDir := t.TempDir()
	workDir := t.TempDir()
	bin := NewAt(binDir)

	dir := filepath.Join(workDir, "doomed")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("Failed to create test directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "keep.txt"), []byte("kept"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	target, err := bin.Trash(dir)
	if err != nil {
		t.Fatalf("Trash failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(target, "sub", "keep.txt"))
	if err != nil || string(data) != "kept" {
		t.Errorf("Directory tree must survive in trash, got %q, err %v", string(data), err)
	}
}

func TestBin_CollidingNames(t *testing.T) {
	binDir := t.TempDir()
	workDir := t.TempDir()
	bin := NewAt(binDir)

	var targets []string
	for i, content := range []string{"first", "second", "third"} {
		path := filepath.Join(workDir, "same.txt")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to create test file %d: %v", i, err)
		}
		target, err := bin.Trash(path)
		if err != nil {
			t.Fatalf("Trash %d failed: %v", i, err)
		}
		targets = append(targets, target)
	}

	seen := make(map[string]struct{})
	for _, target := range targets {
		if _, dup := seen[target]; dup {
			t.Fatalf("Colliding trash targets: %v", targets)
		}
		seen[target] = struct{}{}
	}

	// Every payload survives under its own name.
	for i, content := range []string{"first", "second", "third"} {
		data, err := os.ReadFile(targets[i])
		if err != nil || string(data) != content {
			t.Errorf("Payload %d lost: got %q, err %v", i, string(data), err)
		}
	}
}

func TestBin_TrashMissingPath(t *testing.T) {
	bin := NewAt(t.TempDir())
	if _, err := bin.Trash(filepath.Join(t.TempDir(), "ghost.txt")); err == nil {
		t.Error("Expected error trashing a missing path")
	}
}
