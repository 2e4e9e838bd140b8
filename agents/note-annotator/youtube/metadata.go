package youtube

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"study-agent/internal/models"
)

// MetadataClient enriches scraped video metadata via the official Data API.
// It is optional: the agent only constructs one when an API key is
// configured, and a lookup failure never fails a run.
type MetadataClient struct {
	service *youtube.Service
}

func NewMetadataClient(ctx context.Context, apiKey string) (*MetadataClient, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &MetadataClient{service: service}, nil
}

// VideoMetadata looks up snippet and contentDetails for one video.
func (c *MetadataClient) VideoMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	call := c.service.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("video %s not found via API", videoID)
	}

	item := response.Items[0]
	meta := models.NewVideoMetadata()
	if item.Snippet != nil {
		if item.Snippet.Title != "" {
			meta.Title = item.Snippet.Title
		}
		if item.Snippet.ChannelTitle != "" {
			meta.Author = item.Snippet.ChannelTitle
		}
		if item.Snippet.PublishedAt != "" {
			meta.PublishDate = item.Snippet.PublishedAt
		}
	}
	if item.ContentDetails != nil {
		meta.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
	}
	return &meta, nil
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseDurationSeconds converts an ISO 8601 duration (e.g. "PT1M30S",
// "PT2H15M30S") to seconds.
func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	matches := isoDurationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int
	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}
	return totalSeconds
}
