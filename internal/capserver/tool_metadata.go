package capserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_captions/internal/engine"
	"github.com/anatolykoptev/go_captions/internal/engine/captions"
	"github.com/anatolykoptev/go_captions/internal/toolutil"
)

// VideoMetadataInput is the input for video_metadata.
type VideoMetadataInput struct {
	URL string `json:"url" jsonschema:"YouTube video URL or bare 11-character video ID"`
}

func registerVideoMetadata(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "video_metadata",
		Description: "Fetch public metadata for a YouTube video: title, channel name, and description. Scraped from the watch page, no API key needed.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoMetadataInput) (*mcp.CallToolResult, *captions.VideoMetadata, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		videoID := captions.ExtractVideoID(input.URL)
		if videoID == "" {
			return nil, nil, errors.New("invalid YouTube URL")
		}

		cacheKey := engine.CacheKey("video_metadata", videoID)
		if out, ok := toolutil.CacheLoadJSON[*captions.VideoMetadata](ctx, cacheKey); ok && out != nil {
			return nil, out, nil
		}

		meta, err := captions.FetchVideoMetadata(ctx, videoID)
		if err != nil {
			return nil, nil, err
		}
		toolutil.CacheStoreJSON(ctx, cacheKey, meta)
		return nil, meta, nil
	})
}
