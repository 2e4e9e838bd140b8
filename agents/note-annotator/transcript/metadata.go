package transcript

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"study-agent/internal/models"
)

// extractMetadata builds best-effort video metadata from the player response
// and the page markup. Each field is scanned independently; a field that
// cannot be found keeps the unknown sentinel and never fails the pipeline.
func extractMetadata(html string, player *playerResponse) models.VideoMetadata {
	meta := models.NewVideoMetadata()

	if player != nil {
		if title := strings.TrimSpace(player.VideoDetails.Title); title != "" {
			meta.Title = title
		}
		if author := strings.TrimSpace(player.VideoDetails.Author); author != "" {
			meta.Author = author
		}
		if seconds, err := strconv.Atoi(player.VideoDetails.LengthSeconds); err == nil && seconds > 0 {
			meta.DurationSeconds = seconds
		}
		if date := strings.TrimSpace(player.Microformat.PlayerMicroformatRenderer.PublishDate); date != "" {
			meta.PublishDate = date
		}
	}

	if html == "" {
		return meta
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return meta
	}

	if meta.Title == models.MetadataUnknown {
		if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(title) != "" {
			meta.Title = strings.TrimSpace(title)
		}
	}
	if meta.Author == models.MetadataUnknown {
		if author, ok := doc.Find(`link[itemprop="name"]`).Attr("content"); ok && strings.TrimSpace(author) != "" {
			meta.Author = strings.TrimSpace(author)
		}
	}
	if meta.PublishDate == models.MetadataUnknown {
		if date, ok := doc.Find(`meta[itemprop="datePublished"]`).Attr("content"); ok && strings.TrimSpace(date) != "" {
			meta.PublishDate = strings.TrimSpace(date)
		}
	}
	if meta.DurationSeconds == 0 {
		if iso, ok := doc.Find(`meta[itemprop="duration"]`).Attr("content"); ok {
			if seconds := parseISODuration(iso); seconds > 0 {
				meta.DurationSeconds = seconds
			}
		}
	}

	return meta
}

// parseISODuration converts an ISO 8601 duration like PT1H2M30S to seconds.
func parseISODuration(duration string) int {
	duration = strings.TrimSpace(duration)
	if !strings.HasPrefix(duration, "PT") {
		return 0
	}

	total := 0
	value := 0
	for _, r := range duration[2:] {
		switch {
		case r >= '0' && r <= '9':
			value = value*10 + int(r-'0')
		case r == 'H':
			total += value * 3600
			value = 0
		case r == 'M':
			total += value * 60
			value = 0
		case r == 'S':
			total += value
			value = 0
		default:
			return 0
		}
	}
	return total
}
