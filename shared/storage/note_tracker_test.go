package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNoteTrackerMarkAndCheck(t *testing.T) {
	tracker, err := NewNoteTracker(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewNoteTracker failed: %v", err)
	}

	if tracker.IsAnnotated("dQw4w9WgXcQ") {
		t.Error("fresh tracker reports a video as annotated")
	}
	if err := tracker.MarkAnnotated("dQw4w9WgXcQ"); err != nil {
		t.Fatalf("MarkAnnotated failed: %v", err)
	}
	if !tracker.IsAnnotated("dQw4w9WgXcQ") {
		t.Error("marked video not reported as annotated")
	}
	if tracker.Count() != 1 {
		t.Errorf("Count = %d, want 1", tracker.Count())
	}
}

func TestNoteTrackerPersistence(t *testing.T) {
	dir := t.TempDir()

	tracker, err := NewNoteTracker(dir, 0)
	if err != nil {
		t.Fatalf("NewNoteTracker failed: %v", err)
	}
	if err := tracker.MarkAnnotated("aaaaaaaaaaa"); err != nil {
		t.Fatalf("MarkAnnotated failed: %v", err)
	}
	if err := tracker.MarkAnnotated("bbbbbbbbbbb"); err != nil {
		t.Fatalf("MarkAnnotated failed: %v", err)
	}

	reloaded, err := NewNoteTracker(dir, 0)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.IsAnnotated("aaaaaaaaaaa") || !reloaded.IsAnnotated("bbbbbbbbbbb") {
		t.Error("annotations lost across a reload")
	}
	if reloaded.Count() != 2 {
		t.Errorf("Count after reload = %d, want 2", reloaded.Count())
	}
}

func TestNoteTrackerExpiry(t *testing.T) {
	dir := t.TempDir()

	// Seed the file with one stale entry and one fresh one.
	stale := TrackedNote{VideoID: "stalestale1", AnnotatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := TrackedNote{VideoID: "freshfresh1", AnnotatedAt: time.Now().Add(-time.Hour)}
	data, err := json.Marshal([]TrackedNote{stale, fresh})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "annotated_notes.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	tracker, err := NewNoteTracker(dir, 24*time.Hour)
	if err != nil {
		t.Fatalf("NewNoteTracker failed: %v", err)
	}

	if tracker.IsAnnotated("stalestale1") {
		t.Error("entry past maxAge still reported as annotated")
	}
	if !tracker.IsAnnotated("freshfresh1") {
		t.Error("fresh entry dropped by cleanup")
	}
	if tracker.Count() != 1 {
		t.Errorf("Count = %d, want 1 after cleanup", tracker.Count())
	}
}

func TestNoteTrackerCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "annotated_notes.json"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewNoteTracker(dir, 0); err == nil {
		t.Fatal("NewNoteTracker succeeded on a corrupt file, want error")
	}
}
