package note

import (
	"strings"
	"testing"

	"study-agent/internal/models"
)

func sampleSections() *models.StudySections {
	return &models.StudySections{
		Summary:     "A short summary.",
		Chapters:    "- 00:00 Intro",
		Glossary:    "**term**: meaning",
		Notes:       "Detailed point one.",
		ActionItems: "- [ ] Try it",
		Simplified:  "Like you are five.",
	}
}

func TestApplySectionsAppends(t *testing.T) {
	body := "My own thoughts.\n"
	meta := models.NewVideoMetadata()

	out := ApplySections(body, sampleSections(), meta)

	if !strings.HasPrefix(out, "My own thoughts.\n\n"+BeginMarker) {
		t.Errorf("generated block not appended after existing content:\n%s", out)
	}
	if !strings.HasSuffix(out, EndMarker+"\n") {
		t.Errorf("output does not end with the end marker:\n%s", out)
	}
	for _, heading := range []string{
		"## Summary", "## Chapters", "## Glossary",
		"## Detailed Notes", "## Action Items", "## Explain It Simply",
	} {
		if !strings.Contains(out, heading) {
			t.Errorf("output missing %q", heading)
		}
	}
}

func TestApplySectionsReplacesExistingBlock(t *testing.T) {
	body := "Before.\n\n" + BeginMarker + "\nOLD GENERATED CONTENT\n" + EndMarker + "\n\nAfter.\n"
	meta := models.NewVideoMetadata()

	out := ApplySections(body, sampleSections(), meta)

	if strings.Contains(out, "OLD GENERATED CONTENT") {
		t.Error("previous generated content survived the rewrite")
	}
	if !strings.HasPrefix(out, "Before.\n") {
		t.Error("content before the block was not preserved")
	}
	if !strings.HasSuffix(out, "\nAfter.\n") {
		t.Error("content after the block was not preserved")
	}
	if !strings.Contains(out, "A short summary.") {
		t.Error("new sections missing from the rewritten block")
	}
	if strings.Count(out, BeginMarker) != 1 || strings.Count(out, EndMarker) != 1 {
		t.Error("rewrite duplicated the marker pair")
	}
}

func TestApplySectionsEmptyBody(t *testing.T) {
	out := ApplySections("", sampleSections(), models.NewVideoMetadata())

	if !strings.HasPrefix(out, BeginMarker+"\n") {
		t.Errorf("empty body should start with the begin marker:\n%s", out)
	}
	if !strings.HasSuffix(out, EndMarker+"\n") {
		t.Errorf("output does not end with the end marker:\n%s", out)
	}
}

func TestApplySectionsSkipsEmptySections(t *testing.T) {
	sections := &models.StudySections{Summary: "Only a summary."}

	out := ApplySections("", sections, models.NewVideoMetadata())

	if !strings.Contains(out, "## Summary") {
		t.Error("summary section missing")
	}
	for _, heading := range []string{"## Chapters", "## Glossary", "## Detailed Notes", "## Action Items", "## Explain It Simply"} {
		if strings.Contains(out, heading) {
			t.Errorf("empty section %q should be omitted", heading)
		}
	}
}

func TestApplySectionsMetadataLine(t *testing.T) {
	meta := models.VideoMetadata{
		Title:           "Go Concurrency Patterns",
		Author:          "Rob",
		DurationSeconds: 1830,
		PublishDate:     "2012-06-26",
	}

	out := ApplySections("", sampleSections(), meta)

	if !strings.Contains(out, "Go Concurrency Patterns") {
		t.Error("metadata title missing from the generated block")
	}
	if !strings.Contains(out, "(30m)") {
		t.Errorf("duration not rendered in minutes:\n%s", out)
	}

	// Unknown metadata renders no header line at all.
	out = ApplySections("", sampleSections(), models.NewVideoMetadata())
	if strings.Contains(out, models.MetadataUnknown) {
		t.Error("unknown metadata placeholder leaked into the note")
	}
}

func TestHasGeneratedBlock(t *testing.T) {
	if HasGeneratedBlock("plain body") {
		t.Error("plain body reported as annotated")
	}
	if !HasGeneratedBlock("x\n" + BeginMarker + "\ny\n" + EndMarker) {
		t.Error("marked body not detected")
	}
}
