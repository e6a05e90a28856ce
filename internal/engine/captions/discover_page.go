package captions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// Watch-page discovery: fetch the public video page and read the caption
// track list out of the ytInitialPlayerResponse JSON embedded in a script
// tag. Single attempts are unreliable, so two client/header variants are
// tried in sequence before giving up. This is the adapter expected to
// degrade first when the page markup changes upstream.

const (
	watchURLFormat       = "https://www.youtube.com/watch?v=%s"
	playerResponseMarker = "ytInitialPlayerResponse = "
	maxWatchPageBytes    = 6 * 1024 * 1024
)

// playerResponse mirrors the slice of ytInitialPlayerResponse we need.
type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []pageCaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type pageCaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
		Runs       []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"name"`
}

func (t pageCaptionTrack) trackName() string {
	if t.Name.SimpleText != "" {
		return t.Name.SimpleText
	}
	if len(t.Name.Runs) > 0 {
		return t.Name.Runs[0].Text
	}
	return ""
}

// DiscoverWatchPage returns the caption tracks embedded in the video's
// watch page. An empty list signals discovery failure, not an error;
// the error is the last fetch/extract failure for logging.
func DiscoverWatchPage(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	engine.IncrWatchPageRequests()

	var lastErr error
	for _, fetch := range watchPageVariants() {
		body, err := fetch(ctx, videoID)
		if err != nil {
			lastErr = err
			slog.Debug("captions: watch page variant failed", slog.String("id", videoID), slog.Any("error", err))
			continue
		}
		tracks, err := tracksFromWatchPage(body)
		if err != nil {
			lastErr = err
			slog.Debug("captions: player response unusable", slog.String("id", videoID), slog.Any("error", err))
			continue
		}
		if len(tracks) > 0 {
			return tracks, nil
		}
	}
	return nil, lastErr
}

type pageFetch func(ctx context.Context, videoID string) ([]byte, error)

// watchPageVariants lists page-fetch strategies in preference order:
// plain client with consent cookies first, Chrome-fingerprint TLS client
// with an age-gate-bypass URL variant second.
func watchPageVariants() []pageFetch {
	variants := []pageFetch{fetchWatchPageStd}
	if engine.Cfg.BrowserClient != nil {
		variants = append(variants, fetchWatchPageBrowser)
	}
	return variants
}

// fetchWatchPageStd uses the standard HTTP client with browser-like
// headers. The consent cookie pair keeps region-gated consent walls from
// replacing the page body.
func fetchWatchPageStd(ctx context.Context, videoID string) ([]byte, error) {
	return engine.FetchPage(ctx, fmt.Sprintf(watchURLFormat, videoID), map[string]string{
		"Cookie": engine.Cfg.ConsentCookie,
	})
}

// fetchWatchPageBrowser uses the Chrome-TLS-fingerprint client and the
// bpctr/has_verified URL variant that skips some interstitials.
func fetchWatchPageBrowser(ctx context.Context, videoID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pageURL := fmt.Sprintf(watchURLFormat, videoID) + "&bpctr=9999999999&has_verified=1"
	headers := engine.ChromeHeaders()
	headers["cookie"] = engine.Cfg.ConsentCookie

	body, status, err := engine.Cfg.BrowserClient.Do(http.MethodGet, pageURL, headers, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("watch page status %d", status)
	}
	return body, nil
}

// tracksFromWatchPage locates the ytInitialPlayerResponse blob and reads
// the caption track list from its known key path.
func tracksFromWatchPage(body []byte) ([]CaptionTrack, error) {
	if len(body) > maxWatchPageBytes {
		body = body[:maxWatchPageBytes]
	}
	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found in watch page")
	}
	raw := extractJSON(body[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var pr playerResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if pr.Captions == nil {
		if pr.PlayabilityStatus != nil && pr.PlayabilityStatus.Reason != "" {
			return nil, fmt.Errorf("captions unavailable: %s", pr.PlayabilityStatus.Reason)
		}
		return nil, errors.New("no captions in player response")
	}

	var tracks []CaptionTrack
	for _, t := range pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks {
		if t.BaseURL == "" {
			continue
		}
		tracks = append(tracks, CaptionTrack{
			LanguageCode: t.LanguageCode,
			Kind:         t.Kind,
			Name:         t.trackName(),
			BaseURL:      t.BaseURL,
		})
	}
	return tracks, nil
}

// extractJSON extracts a complete JSON object starting at b[0] == '{' by tracking brace depth.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	var prev byte
	for i, c := range b {
		if inStr {
			if c == '"' && prev != '\\' {
				inStr = false
			}
		} else {
			switch c {
			case '"':
				inStr = true
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return b[:i+1]
				}
			}
		}
		prev = c
	}
	return nil
}
