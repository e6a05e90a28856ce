package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// Acquisition runs providers in a fixed order and stops at the first
// that returns segments. Provider misses are logged, never surfaced;
// only total exhaustion or a configuration error reaches the caller.

// ProviderOrder is the fallback chain used when no single provider is
// pinned: free scraping paths first, the paid API last.
var ProviderOrder = []string{"watch_page", "timedtext_list", "library", "rapidapi"}

// Providers resolves the configured provider chain. An unknown name in
// TranscriptProvider falls back to the full chain.
func Providers() []Provider {
	name := engine.Cfg.TranscriptProvider
	if name != "" && name != "auto" {
		if p := providerByName(name); p != nil {
			return []Provider{p}
		}
		slog.Warn("captions: unknown provider configured, using full chain", slog.String("provider", name))
	}
	chain := make([]Provider, 0, len(ProviderOrder))
	for _, n := range ProviderOrder {
		chain = append(chain, providerByName(n))
	}
	return chain
}

func providerByName(name string) Provider {
	switch name {
	case "watch_page":
		return PageProvider{}
	case "timedtext_list":
		return ListProvider{}
	case "library":
		return LibraryProvider{}
	case "rapidapi":
		return rapidAPI
	}
	return nil
}

// rapidAPI is shared so its rate limiter spans all acquisitions.
var rapidAPI = NewRapidAPIProvider()

// FetchTranscript resolves the input to a video ID and acquires its
// transcript through the provider chain. lang may be empty; it is
// normalized to "auto".
func FetchTranscript(ctx context.Context, input, lang string) (*TranscriptResult, error) {
	videoID := ExtractVideoID(input)
	if videoID == "" {
		return nil, NewError(CodeInvalidURL, fmt.Errorf("no video id in %q", engine.Truncate(input, 120)))
	}
	return FetchTranscriptByID(ctx, videoID, engine.NormLang(lang))
}

// FetchTranscriptByID runs the provider chain for a known-good video ID.
func FetchTranscriptByID(ctx context.Context, videoID, lang string) (*TranscriptResult, error) {
	return fetchWithProviders(ctx, Providers(), videoID, lang)
}

func fetchWithProviders(ctx context.Context, providers []Provider, videoID, lang string) (*TranscriptResult, error) {
	single := len(providers) == 1

	var lastErr error
	for _, p := range providers {
		start := time.Now()
		var segs []CaptionSegment
		err := engine.TrackOperation(ctx, "captions:"+p.Name(), func(ctx context.Context) error {
			var ferr error
			segs, ferr = p.Fetch(ctx, videoID, lang)
			return ferr
		})

		if err == nil && len(segs) > 0 {
			engine.IncrAcquisitions()
			slog.Info("captions: acquired",
				slog.String("id", videoID),
				slog.String("source", p.Name()),
				slog.Int("segments", len(segs)),
				slog.Duration("took", time.Since(start)))
			return &TranscriptResult{
				VideoID:  videoID,
				Captions: segs,
				Language: lang,
				Source:   p.Name(),
			}, nil
		}
		if err == nil {
			err = errors.New("provider returned no segments")
		}
		lastErr = err

		if ctx.Err() != nil {
			engine.IncrAcquisitionFailures()
			return nil, ctx.Err()
		}
		slog.Debug("captions: provider missed",
			slog.String("id", videoID), slog.String("source", p.Name()), slog.Any("error", err))
	}

	engine.IncrAcquisitionFailures()
	if single {
		// A pinned provider reports its own failure: configuration
		// errors (missing key, quota) stay actionable instead of
		// collapsing into a generic miss.
		var domainErr *Error
		if errors.As(lastErr, &domainErr) {
			return nil, lastErr
		}
		return nil, NewError(CodeFetchFailed, lastErr)
	}
	return nil, NewError(CodeNotFound, fmt.Errorf("all providers exhausted for %s", videoID))
}
