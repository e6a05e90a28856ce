package captions

import (
	"context"
	"errors"
	"log/slog"
)

// ListProvider discovers tracks through the timedtext list endpoint and
// downloads via built timedtext URLs. When the list endpoint itself
// returns nothing it falls back to probing a small grid of direct
// timedtext URLs, which sometimes serve captions for videos whose list
// document is empty.
type ListProvider struct{}

func (ListProvider) Name() string { return "timedtext_list" }

func (ListProvider) Fetch(ctx context.Context, videoID, lang string) ([]CaptionSegment, error) {
	tracks, err := DiscoverTrackList(ctx, videoID)
	if err != nil {
		slog.Debug("captions: track list failed", slog.String("id", videoID), slog.Any("error", err))
	}
	if track, ok := SelectTrack(tracks, lang); ok {
		if segs, err := DownloadTrack(ctx, videoID, track); err == nil {
			return segs, nil
		} else {
			slog.Debug("captions: listed track download failed",
				slog.String("id", videoID), slog.String("lang", track.LanguageCode), slog.Any("error", err))
		}
	}
	return probeDirectURLs(ctx, videoID, lang)
}

// probeDirectURLs tries unlisted track guesses: the requested language
// (or English) in each caption format, standard track before ASR.
func probeDirectURLs(ctx context.Context, videoID, lang string) ([]CaptionSegment, error) {
	probeLang := lang
	if probeLang == "" || probeLang == "auto" {
		probeLang = "en"
	}
	for _, kind := range []string{"", KindASR} {
		track := CaptionTrack{LanguageCode: probeLang, Kind: kind}
		segs, err := DownloadTrack(ctx, videoID, track)
		if err != nil {
			slog.Debug("captions: direct probe failed",
				slog.String("id", videoID), slog.String("kind", kind), slog.Any("error", err))
			continue
		}
		if len(segs) > 0 {
			return segs, nil
		}
	}
	return nil, errors.New("timedtext produced no captions")
}
