package captions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

const (
	timedtextURL      = "https://www.youtube.com/api/timedtext"
	maxCaptionPayload = 4 * 1024 * 1024
)

// captionFormats is the try order for timedtext downloads. An empty fmt
// asks the endpoint for its default (timed-text XML).
var captionFormats = []string{"vtt", "srv3", "json3", ""}

// TimedtextURL builds a download URL for one track and format. Kind and
// name are included only when set; ASR tracks are not addressable
// without kind=asr.
func TimedtextURL(videoID string, track CaptionTrack, format string) string {
	q := url.Values{}
	q.Set("v", videoID)
	q.Set("lang", track.LanguageCode)
	if track.Kind != "" {
		q.Set("kind", track.Kind)
	}
	if track.Name != "" {
		q.Set("name", track.Name)
	}
	if format != "" {
		q.Set("fmt", format)
	}
	return timedtextURL + "?" + q.Encode()
}

// DownloadTrack fetches one track, trying each caption format in order
// and returning the first payload that parses into at least one segment.
func DownloadTrack(ctx context.Context, videoID string, track CaptionTrack) ([]CaptionSegment, error) {
	var lastErr error
	for _, format := range captionFormats {
		dlURL := track.BaseURL
		if dlURL != "" {
			if format != "" {
				dlURL += "&fmt=" + format
			}
		} else {
			dlURL = TimedtextURL(videoID, track, format)
		}

		payload, err := fetchCaptionPayload(ctx, dlURL)
		if err != nil {
			lastErr = err
			slog.Debug("captions: format fetch failed",
				slog.String("id", videoID), slog.String("fmt", format), slog.Any("error", err))
			continue
		}
		if segs := ParseCaptionPayload(payload); len(segs) > 0 {
			return segs, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("no caption format produced segments")
}

// fetchCaptionPayload downloads one caption document with retry.
// Payloads are capped; a caption file past the cap is corrupt.
func fetchCaptionPayload(ctx context.Context, dlURL string) (string, error) {
	engine.IncrTimedtextRequests()

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, dlURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.PageUserAgent())
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("download captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download captions: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionPayload))
	if err != nil {
		return "", fmt.Errorf("read captions body: %w", err)
	}
	return string(data), nil
}
