package captions

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// Timedtext list discovery: the legacy video.google.com track-list
// endpoint returns a small XML document naming every caption track for a
// video. It needs no page scraping, which makes it a cheap second opinion
// when the watch page yields nothing.

const trackListURLFormat = "https://video.google.com/timedtext?type=list&v=%s"

var (
	trackTagRe = regexp.MustCompile(`<track[^>]*/?>`)
	attrRe     = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

// DiscoverTrackList fetches and parses the timedtext track list for a
// video. Tracks carry no BaseURL; downloads go through the timedtext URL
// builder instead.
func DiscoverTrackList(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	engine.IncrTrackListRequests()

	listURL := fmt.Sprintf(trackListURLFormat, url.QueryEscape(videoID))
	body, err := engine.FetchPage(ctx, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch track list: %w", err)
	}
	return parseTrackList(string(body)), nil
}

// parseTrackList reads <track .../> elements attribute-by-attribute. The
// document is flat and machine-generated, so attribute regexes are enough.
func parseTrackList(doc string) []CaptionTrack {
	var tracks []CaptionTrack
	for _, tag := range trackTagRe.FindAllString(doc, -1) {
		var t CaptionTrack
		for _, m := range attrRe.FindAllStringSubmatch(tag, -1) {
			switch m[1] {
			case "lang_code":
				t.LanguageCode = m[2]
			case "kind":
				t.Kind = m[2]
			case "name":
				t.Name = engine.DecodeEntities(m[2])
			}
		}
		if t.LanguageCode == "" {
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks
}
