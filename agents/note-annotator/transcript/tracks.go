package transcript

import "strings"

// CaptionTrack describes one caption option listed in the player response.
// Kind is "asr" for machine-generated tracks and empty for authored ones.
type CaptionTrack struct {
	BaseURL      string    `json:"baseUrl"`
	LanguageCode string    `json:"languageCode"`
	Kind         string    `json:"kind"`
	Name         trackName `json:"name"`
}

type trackName struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

// DisplayName returns the human-readable track name, whichever of the two
// shapes the player response used for it.
func (t CaptionTrack) DisplayName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	if len(t.Name.Runs) > 0 {
		return t.Name.Runs[0].Text
	}
	return t.LanguageCode
}

// IsGenerated reports whether the track is machine-generated rather than
// authored.
func (t CaptionTrack) IsGenerated() bool {
	return t.Kind == "asr"
}

// SelectTrack picks the best caption track for an ordered language
// preference list. The tie-break policy, first match wins:
//
//  1. exact language-code match, preferences in order
//  2. prefix match (en matches en-US), preferences in order
//  3. any authored track over machine-generated
//  4. the first track in the original list
//
// Preferences are the outer loop for steps 1 and 2 so an earlier-preferred
// language always wins regardless of track list order. Returns nil only for
// an empty track list.
func SelectTrack(tracks []CaptionTrack, preferences []string) *CaptionTrack {
	if len(tracks) == 0 {
		return nil
	}

	for _, lang := range preferences {
		for i := range tracks {
			if strings.EqualFold(tracks[i].LanguageCode, lang) {
				return &tracks[i]
			}
		}
	}

	for _, lang := range preferences {
		for i := range tracks {
			if strings.HasPrefix(strings.ToLower(tracks[i].LanguageCode), strings.ToLower(lang)) {
				return &tracks[i]
			}
		}
	}

	for i := range tracks {
		if !tracks[i].IsGenerated() {
			return &tracks[i]
		}
	}

	return &tracks[0]
}

// TrackLanguages lists the language codes of the given tracks, preserving
// order. Used to tell the user which captions were available when none
// matched.
func TrackLanguages(tracks []CaptionTrack) []string {
	languages := make([]string, 0, len(tracks))
	for _, track := range tracks {
		languages = append(languages, track.LanguageCode)
	}
	return languages
}
