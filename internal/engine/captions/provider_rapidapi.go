package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// RapidAPIProvider buys the transcript from the hosted transcriptor API.
// Requests are metered, so there is exactly one attempt per acquisition
// and a local rate limiter smooths bursts under the plan quota.
type RapidAPIProvider struct {
	limiter *rate.Limiter
	baseURL string // test override; empty = https://<host>
}

// NewRapidAPIProvider allows ~1 request/sec with small bursts, which
// stays inside the free-tier quota on every transcriptor plan.
func NewRapidAPIProvider() *RapidAPIProvider {
	return &RapidAPIProvider{limiter: rate.NewLimiter(rate.Limit(1), 3)}
}

func (*RapidAPIProvider) Name() string { return "rapidapi" }

// Fetch buys the transcript for videoID. The endpoint takes no language
// parameter; it returns whatever language the video has.
func (p *RapidAPIProvider) Fetch(ctx context.Context, videoID, _ string) ([]CaptionSegment, error) {
	apiKey := engine.Cfg.RapidAPIKey
	if apiKey == "" {
		return nil, NewError(CodeMissingKey, fmt.Errorf("rapidapi key not configured"))
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	engine.IncrRapidAPIRequests()

	host := engine.Cfg.RapidAPIHost
	base := p.baseURL
	if base == "" {
		base = "https://" + host
	}
	reqURL := base + "/transcript?video_id=" + url.QueryEscape(videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-host", host)
	req.Header.Set("x-rapidapi-key", apiKey)

	resp, err := engine.Cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, NewError(CodeFailed, fmt.Errorf("rapidapi request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCaptionPayload))
	if err != nil {
		return nil, NewError(CodeFailed, fmt.Errorf("rapidapi body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewError(CodeQuota, fmt.Errorf("rapidapi quota exhausted"))
	case resp.StatusCode != http.StatusOK:
		detail := strings.TrimSpace(engine.Truncate(string(body), 300))
		return nil, NewError(CodeFailed, fmt.Errorf("rapidapi status %d: %s", resp.StatusCode, detail))
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, NewError(CodeFailed, fmt.Errorf("rapidapi payload: %w", err))
	}
	segs := normalizeRapidAPIPayload(payload)
	if len(segs) == 0 {
		return nil, NewError(CodeFailed, fmt.Errorf("rapidapi returned no segments"))
	}
	return segs, nil
}

// normalizeRapidAPIPayload maps the API's loosely-shaped JSON onto
// caption segments. The transcriptor family of endpoints disagrees on
// field names and sometimes stringifies numbers, so every alias is
// accepted and coerced.
func normalizeRapidAPIPayload(payload any) []CaptionSegment {
	var captions []CaptionSegment
	for _, raw := range extractRapidAPISegments(payload) {
		seg, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		text := strings.TrimSpace(firstString(seg, "text", "subtitle"))
		if text == "" {
			continue
		}

		start := firstNumber(seg, "start", "offset", "startTime")
		end, hasEnd := lookupNumber(seg, "end", "endTime")
		if !hasEnd {
			end = start + firstNumber(seg, "duration", "dur")
		}
		if start < 0 {
			start = 0
		}
		if end < start {
			end = start
		}
		captions = append(captions, CaptionSegment{Start: start, End: end, Text: text})
	}
	return captions
}

// extractRapidAPISegments finds the segment array wherever the endpoint
// put it: top-level array (possibly wrapping a transcription object) or
// under one of the known object keys.
func extractRapidAPISegments(payload any) []any {
	if arr, ok := payload.([]any); ok {
		if len(arr) > 0 {
			if first, ok := arr[0].(map[string]any); ok {
				if inner, ok := first["transcription"].([]any); ok {
					return inner
				}
			}
		}
		return arr
	}
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{"transcript", "transcription", "segments", "captions", "data", "result"} {
		if arr, ok := obj[key].([]any); ok {
			return arr
		}
	}
	return nil
}

func firstString(seg map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := seg[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstNumber(seg map[string]any, keys ...string) float64 {
	n, _ := lookupNumber(seg, keys...)
	return n
}

func lookupNumber(seg map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		v, present := seg[key]
		if !present {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if strings.TrimSpace(n) == "" {
				continue
			}
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return 0, true
			}
			return parsed, true
		}
	}
	return 0, false
}
