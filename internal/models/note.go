package models

import "time"

// StudySections holds the generated analytical sections for one video note.
// Field names match the JSON object the generation model is asked to return.
type StudySections struct {
	Summary     string `json:"summary"`
	Chapters    string `json:"chapters"`
	Glossary    string `json:"glossary"`
	Notes       string `json:"notes"`
	ActionItems string `json:"action_items"`
	Simplified  string `json:"simplified"`
}

// AnnotatedNote records one note that was rewritten during a run.
type AnnotatedNote struct {
	Path     string `json:"path"`
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Language string `json:"language"`
	Segments int    `json:"segments"`
	Chars    int    `json:"chars"`
}

// AnnotationReport summarizes a run for the optional email digest.
type AnnotationReport struct {
	Date      time.Time        `json:"date"`
	Notes     []*AnnotatedNote `json:"notes"`
	Scanned   int              `json:"scanned"`
	Annotated int              `json:"annotated"`
	Failed    int              `json:"failed"`
}
