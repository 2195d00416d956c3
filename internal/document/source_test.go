package document

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("First line.\nSecond   line.\r\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	text, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "First line. Second line." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing document")
	}
}
