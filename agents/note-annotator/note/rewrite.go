package note

import (
	"fmt"
	"strings"

	"study-agent/internal/models"
)

// Generated content lives between these markers so reruns replace the
// generated block and never touch hand-written content around it.
const (
	BeginMarker = "<!-- note-annotator:begin -->"
	EndMarker   = "<!-- note-annotator:end -->"
)

// HasGeneratedBlock reports whether the body already carries a generated
// section block.
func HasGeneratedBlock(body string) bool {
	return strings.Contains(body, BeginMarker)
}

// ApplySections rewrites the note body with the generated study sections.
// When the marker pair is present the content between the markers is
// replaced; otherwise a marker block is appended. Everything outside the
// markers is preserved byte for byte.
func ApplySections(body string, sections *models.StudySections, meta models.VideoMetadata) string {
	block := renderSections(sections, meta)

	begin := strings.Index(body, BeginMarker)
	end := strings.Index(body, EndMarker)
	if begin >= 0 && end > begin {
		return body[:begin+len(BeginMarker)] + "\n" + block + "\n" + body[end:]
	}

	trimmed := strings.TrimRight(body, "\n")
	if trimmed == "" {
		return BeginMarker + "\n" + block + "\n" + EndMarker + "\n"
	}
	return trimmed + "\n\n" + BeginMarker + "\n" + block + "\n" + EndMarker + "\n"
}

func renderSections(sections *models.StudySections, meta models.VideoMetadata) string {
	var b strings.Builder

	if meta.Title != models.MetadataUnknown {
		fmt.Fprintf(&b, "> %s — %s", meta.Title, meta.Author)
		if meta.DurationSeconds > 0 {
			fmt.Fprintf(&b, " (%dm)", meta.DurationSeconds/60)
		}
		b.WriteString("\n\n")
	}

	writeSection(&b, "Summary", sections.Summary)
	writeSection(&b, "Chapters", sections.Chapters)
	writeSection(&b, "Glossary", sections.Glossary)
	writeSection(&b, "Detailed Notes", sections.Notes)
	writeSection(&b, "Action Items", sections.ActionItems)
	writeSection(&b, "Explain It Simply", sections.Simplified)

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, content)
}
