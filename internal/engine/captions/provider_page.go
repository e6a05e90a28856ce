package captions

import (
	"context"
	"errors"
	"log/slog"
)

// PageProvider discovers tracks on the watch page, selects one by
// language preference, and downloads it through its embedded baseUrl.
type PageProvider struct{}

func (PageProvider) Name() string { return "watch_page" }

func (PageProvider) Fetch(ctx context.Context, videoID, lang string) ([]CaptionSegment, error) {
	tracks, err := DiscoverWatchPage(ctx, videoID)
	if err != nil {
		return nil, err
	}
	track, ok := SelectTrack(tracks, lang)
	if !ok {
		return nil, errors.New("no caption tracks on watch page")
	}
	slog.Debug("captions: watch page track selected",
		slog.String("id", videoID), slog.String("lang", track.LanguageCode), slog.String("kind", track.Kind))

	return DownloadTrack(ctx, videoID, track)
}
