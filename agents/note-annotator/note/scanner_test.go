package note

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanVault(t *testing.T) {
	vault := t.TempDir()

	mustWrite := func(rel, content string) {
		path := filepath.Join(vault, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	mustWrite("inbox/clip.md", "# Clip")
	mustWrite("daily/2024-03-04.MD", "# Daily")
	mustWrite("attachments/diagram.png", "not markdown")
	mustWrite(".obsidian/workspace.json", "{}")
	mustWrite(".trash/deleted.md", "# Gone")

	paths, err := ScanVault(vault)
	if err != nil {
		t.Fatalf("ScanVault failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("found %d notes, want 2: %v", len(paths), paths)
	}
	for _, p := range paths {
		rel, _ := filepath.Rel(vault, p)
		if rel != filepath.Join("inbox", "clip.md") && rel != filepath.Join("daily", "2024-03-04.MD") {
			t.Errorf("unexpected note %s", rel)
		}
	}
}

func TestScanVaultMissingDir(t *testing.T) {
	if _, err := ScanVault(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("ScanVault succeeded on a missing directory, want error")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.md")
	content := "---\nsource: https://youtu.be/dQw4w9WgXcQ\n---\nBody.\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	n, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n.VideoSource() != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("VideoSource() = %q", n.VideoSource())
	}

	n.Body = "Rewritten body.\n"
	if err := Write(n); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "---\nsource: https://youtu.be/dQw4w9WgXcQ\n---\nRewritten body.\n"
	if string(data) != want {
		t.Errorf("written note = %q, want %q", string(data), want)
	}
}
