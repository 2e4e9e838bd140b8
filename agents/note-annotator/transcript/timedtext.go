package transcript

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"study-agent/internal/models"
)

// Caption payload parsing. YouTube serves captions in several dialects; the
// pipeline requests json3 but older tracks and some mirrors still answer
// with the timedtext XML form, so both are handled. An empty slice is not an
// error at this layer; the downloader decides what that means.

var (
	xmlTextElement = regexp.MustCompile(`(?s)<text([^>]*)>(.*?)</text>`)
	xmlStartAttr   = regexp.MustCompile(`start="([^"]*)"`)
	xmlDurAttr     = regexp.MustCompile(`dur="([^"]*)"`)
)

// ParseTimedText parses a caption payload into ordered transcript segments.
// Malformed individual elements are skipped rather than aborting the parse.
func ParseTimedText(payload string) []models.TranscriptSegment {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		if segments := parseJSON3(trimmed); segments != nil {
			return segments
		}
	}
	return parseXML(trimmed)
}

// json3Payload mirrors the parts of the fmt=json3 response the pipeline
// needs: one event per caption line, text split across segs.
type json3Payload struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseJSON3(payload string) []models.TranscriptSegment {
	var parsed json3Payload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil
	}

	var segments []models.TranscriptSegment
	for _, event := range parsed.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		line := strings.TrimSpace(strings.ReplaceAll(text.String(), "\n", " "))
		if line == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{
			Text:     DecodeEntities(line),
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}
	return segments
}

// parseXML extracts <text start="..." dur="...">...</text> elements in
// source order, tolerating attribute-order variation and surrounding markup
// noise. Elements with unparseable numeric fields are skipped; a missing
// dur attribute defaults to zero.
func parseXML(payload string) []models.TranscriptSegment {
	var segments []models.TranscriptSegment

	for _, match := range xmlTextElement.FindAllStringSubmatch(payload, -1) {
		attrs, body := match[1], match[2]

		startMatch := xmlStartAttr.FindStringSubmatch(attrs)
		if startMatch == nil {
			continue
		}
		start, err := strconv.ParseFloat(startMatch[1], 64)
		if err != nil {
			continue
		}

		var duration float64
		if durMatch := xmlDurAttr.FindStringSubmatch(attrs); durMatch != nil {
			duration, err = strconv.ParseFloat(durMatch[1], 64)
			if err != nil {
				continue
			}
		}

		text := strings.TrimSpace(DecodeEntities(body))
		if text == "" {
			continue
		}
		segments = append(segments, models.TranscriptSegment{
			Text:     text,
			Start:    start,
			Duration: duration,
		})
	}
	return segments
}
