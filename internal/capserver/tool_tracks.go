package capserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_captions/internal/engine"
	"github.com/anatolykoptev/go_captions/internal/engine/captions"
	"github.com/anatolykoptev/go_captions/internal/toolutil"
)

// CaptionTracksInput is the input for caption_tracks.
type CaptionTracksInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or bare 11-character video ID"`
}

// CaptionTracksOutput is the output for caption_tracks.
type CaptionTracksOutput struct {
	VideoID string                  `json:"video_id"`
	Tracks  []captions.CaptionTrack `json:"tracks"`
	Total   int                     `json:"total"`
}

func registerCaptionTracks(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "caption_tracks",
		Description: "List the caption tracks available for a YouTube video (language code, kind, display name). Merges watch-page discovery with the timedtext track list. Use before transcript_fetch to see which languages exist.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CaptionTracksInput) (*mcp.CallToolResult, CaptionTracksOutput, error) {
		if input.URL == "" {
			return nil, CaptionTracksOutput{}, errors.New("url is required")
		}
		videoID := captions.ExtractVideoID(input.URL)
		if videoID == "" {
			return nil, CaptionTracksOutput{}, errors.New("invalid YouTube URL")
		}

		cacheKey := engine.CacheKey("caption_tracks", videoID)
		if out, ok := toolutil.CacheLoadJSON[CaptionTracksOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		pageTracks, err := captions.DiscoverWatchPage(ctx, videoID)
		if err != nil {
			slog.Warn("caption_tracks: watch page discovery failed", slog.Any("error", err))
		}
		listTracks, err := captions.DiscoverTrackList(ctx, videoID)
		if err != nil {
			slog.Warn("caption_tracks: track list discovery failed", slog.Any("error", err))
		}

		merged := mergeTracks(pageTracks, listTracks)
		if len(merged) == 0 {
			return nil, CaptionTracksOutput{}, captions.NewError(captions.CodeNotFound, errors.New("no caption tracks found"))
		}

		out := CaptionTracksOutput{VideoID: videoID, Tracks: merged, Total: len(merged)}
		toolutil.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}

// mergeTracks dedupes by (language, kind), watch-page entries first so
// their baseUrl-bearing version wins.
func mergeTracks(primary, secondary []captions.CaptionTrack) []captions.CaptionTrack {
	seen := make(map[string]bool)
	var merged []captions.CaptionTrack
	for _, t := range append(primary, secondary...) {
		key := t.LanguageCode + "/" + t.Kind
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, t)
	}
	return merged
}
