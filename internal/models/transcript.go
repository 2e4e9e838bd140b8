package models

// TranscriptSegment is one unit of spoken text from a caption track.
// Start and Duration are in seconds.
type TranscriptSegment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// MetadataUnknown marks a metadata field that could not be extracted.
// Metadata extraction is best-effort and never fails a transcript fetch.
const MetadataUnknown = "Unknown"

// VideoMetadata holds best-effort video metadata scraped from the watch page
// or, when an API key is configured, fetched from the official API.
type VideoMetadata struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	DurationSeconds int    `json:"duration_seconds"`
	PublishDate     string `json:"publish_date"`
}

// NewVideoMetadata returns metadata with every field set to the unknown
// sentinel.
func NewVideoMetadata() VideoMetadata {
	return VideoMetadata{
		Title:       MetadataUnknown,
		Author:      MetadataUnknown,
		PublishDate: MetadataUnknown,
	}
}

// TranscriptResult is the aggregate output of a transcript fetch: the full
// concatenated text, the ordered segments it was built from, and metadata.
// It is constructed once per successful fetch and never mutated.
type TranscriptResult struct {
	VideoID  string              `json:"video_id"`
	Language string              `json:"language"`
	Text     string              `json:"text"`
	Segments []TranscriptSegment `json:"segments"`
	Metadata VideoMetadata       `json:"metadata"`
}
