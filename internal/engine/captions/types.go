package captions

import "strings"

// CaptionSegment is one timed unit of caption text, offsets in seconds.
// Parsers never emit a segment with empty text, and End >= Start always holds.
type CaptionSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// KindASR marks an auto-generated (speech-recognition) caption track.
const KindASR = "asr"

// CaptionTrack describes one available caption stream for a video.
// Transient: it exists only during discovery/selection within a single
// acquisition attempt and is never persisted.
type CaptionTrack struct {
	LanguageCode string `json:"language_code"`
	Kind         string `json:"kind,omitempty"` // "asr" = auto-generated, "" = standard/unknown
	Name         string `json:"name,omitempty"`
	BaseURL      string `json:"-"` // download locator; empty for list-endpoint discovery
}

// TranscriptResult is the outcome of one acquisition. Immutable once
// returned: callers derive new values instead of mutating Captions.
type TranscriptResult struct {
	VideoID  string           `json:"video_id"`
	Captions []CaptionSegment `json:"captions"`
	Language string           `json:"transcript_language"`
	Source   string           `json:"source"`
}

// FullText returns the space-joined caption text as a new string.
func (r *TranscriptResult) FullText() string {
	parts := make([]string, 0, len(r.Captions))
	for _, c := range r.Captions {
		parts = append(parts, c.Text)
	}
	return strings.Join(parts, " ")
}
