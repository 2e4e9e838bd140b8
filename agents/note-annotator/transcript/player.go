package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// The watch page embeds the player state as a JSON blob assigned to
// ytInitialPlayerResponse. All knowledge of that unversioned shape lives in
// this file so upstream changes only need revision here.

const (
	playerResponseMarker = "ytInitialPlayerResponse"
	captchaMarker        = `class="g-recaptcha"`
	innertubeKeyMarker   = `"INNERTUBE_API_KEY":"`
	innertubePlayerURL   = "https://www.youtube.com/youtubei/v1/player?key=%s"
)

// playerResponse is the subset of the embedded player state the pipeline
// reads: playability, caption tracks, and the metadata fields.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		Title         string `json:"title"`
		Author        string `json:"author"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Microformat struct {
		PlayerMicroformatRenderer struct {
			PublishDate string `json:"publishDate"`
		} `json:"playerMicroformatRenderer"`
	} `json:"microformat"`
}

func (p *playerResponse) captionTracks() []CaptionTrack {
	return p.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
}

// playable reports whether the response resolved to a real, watchable video.
// LIVE_STREAM_OFFLINE still carries captions for the VOD portion, so it
// counts as playable.
func (p *playerResponse) playable() bool {
	switch p.PlayabilityStatus.Status {
	case "OK", "LIVE_STREAM_OFFLINE", "":
		return true
	}
	return false
}

// locateEmbeddedBlock finds the raw JSON text assigned to the given marker
// in an HTML body. It scans braces rather than using a regexp because the
// blob nests objects and contains brace characters inside strings. Returns
// ok=false when the marker is absent or the blob never closes.
func locateEmbeddedBlock(html, marker string) (string, bool) {
	idx := strings.Index(html, marker)
	if idx < 0 {
		return "", false
	}
	open := strings.IndexByte(html[idx:], '{')
	if open < 0 {
		return "", false
	}
	start := idx + open

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(html); i++ {
		c := html[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return html[start : i+1], true
			}
		}
	}
	return "", false
}

// parsePlayerResponse extracts and decodes the embedded player response from
// a watch page body. The bool is false when the page does not embed one.
func parsePlayerResponse(html string) (*playerResponse, bool) {
	raw, ok := locateEmbeddedBlock(html, playerResponseMarker)
	if !ok {
		return nil, false
	}
	var parsed playerResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, false
	}
	return &parsed, true
}

// isBotChallenge reports whether the body is YouTube's captcha interstitial
// rather than a watch page.
func isBotChallenge(html string) bool {
	return strings.Contains(html, captchaMarker)
}

var innertubeKeyPattern = regexp.MustCompile(regexp.QuoteMeta(innertubeKeyMarker) + `([^"]+)"`)

// extractInnertubeKey pulls the internal API key the page ships for its own
// player RPC calls.
func extractInnertubeKey(html string) string {
	if m := innertubeKeyPattern.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

// fetchPlayerViaRPC asks the internal player endpoint for the same player
// response the page normally embeds. Used as a fallback when the watch page
// stops embedding the blob, which upstream has done across versions.
func fetchPlayerViaRPC(ctx context.Context, client *http.Client, baseURL, apiKey, videoID, userAgent string) (*playerResponse, error) {
	body := map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    "WEB",
				"clientVersion": "2.20240101.00.00",
			},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode player request: %w", err)
	}

	url := baseURL
	if url == "" {
		url = fmt.Sprintf(innertubePlayerURL, apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read player response: %w", err)
	}

	var parsed playerResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}
	return &parsed, nil
}
