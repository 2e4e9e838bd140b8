package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// NoteTracker manages a persistent store of annotated notes so a note is
// never processed twice, and so two triggers for the same video cannot race
// the same network fetch.
type NoteTracker struct {
	filePath  string
	annotated map[string]time.Time
	mu        sync.RWMutex
	maxAge    time.Duration
}

// TrackedNote records one annotated note, keyed by its video ID.
type TrackedNote struct {
	VideoID     string    `json:"video_id"`
	AnnotatedAt time.Time `json:"annotated_at"`
}

// NewNoteTracker creates a tracker backed by a JSON file in dataDir. Entries
// older than maxAge are dropped on load; a maxAge of zero keeps entries
// forever.
func NewNoteTracker(dataDir string, maxAge time.Duration) (*NoteTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &NoteTracker{
		filePath:  filepath.Join(dataDir, "annotated_notes.json"),
		annotated: make(map[string]time.Time),
		maxAge:    maxAge,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load note tracker data: %w", err)
	}
	tracker.cleanup()

	return tracker, nil
}

// IsAnnotated checks whether a video's note was annotated recently.
func (nt *NoteTracker) IsAnnotated(videoID string) bool {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	annotatedAt, exists := nt.annotated[videoID]
	if !exists {
		return false
	}
	if nt.maxAge == 0 {
		return true
	}
	return time.Since(annotatedAt) < nt.maxAge
}

// MarkAnnotated records a video's note as annotated.
func (nt *NoteTracker) MarkAnnotated(videoID string) error {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	nt.annotated[videoID] = time.Now()
	return nt.save()
}

// Count returns the number of tracked notes.
func (nt *NoteTracker) Count() int {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return len(nt.annotated)
}

func (nt *NoteTracker) cleanup() {
	if nt.maxAge == 0 {
		return
	}
	cutoff := time.Now().Add(-nt.maxAge)
	for videoID, annotatedAt := range nt.annotated {
		if annotatedAt.Before(cutoff) {
			delete(nt.annotated, videoID)
		}
	}
}

func (nt *NoteTracker) load() error {
	file, err := os.Open(nt.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var tracked []TrackedNote
	if err := json.NewDecoder(file).Decode(&tracked); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}
	for _, tn := range tracked {
		nt.annotated[tn.VideoID] = tn.AnnotatedAt
	}
	return nil
}

func (nt *NoteTracker) save() error {
	var tracked []TrackedNote
	for videoID, annotatedAt := range nt.annotated {
		tracked = append(tracked, TrackedNote{
			VideoID:     videoID,
			AnnotatedAt: annotatedAt,
		})
	}

	file, err := os.Create(nt.filePath)
	if err != nil {
		return fmt.Errorf("failed to create tracker file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tracked)
}
