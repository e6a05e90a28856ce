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

// TranscriptFetchInput is the input for transcript_fetch.
type TranscriptFetchInput struct {
	URL      string `json:"url" jsonschema:"YouTube video URL (watch, youtu.be, embed) or a bare 11-character video ID"`
	Language string `json:"language,omitempty" jsonschema:"Preferred caption language code (e.g. en, en-US, de). Empty = best available"`
}

// TranscriptFetchOutput is the output for transcript_fetch.
type TranscriptFetchOutput struct {
	VideoID   string                    `json:"video_id"`
	Language  string                    `json:"transcript_language"`
	Source    string                    `json:"source"`
	Captions  []captions.CaptionSegment `json:"captions"`
	FullText  string                    `json:"full_text"`
	Truncated bool                      `json:"truncated,omitempty"`
	ErrorCode string                    `json:"error_code,omitempty"`
}

func registerTranscriptFetch(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcript_fetch",
		Description: "Fetch the transcript of a YouTube video as timestamped caption segments plus joined full text. Tries the watch page, the timedtext track list, a scraping library, and the RapidAPI transcriptor in order, stopping at the first that works. Accepts any YouTube URL shape or a bare video ID.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscriptFetchInput) (*mcp.CallToolResult, TranscriptFetchOutput, error) {
		if input.URL == "" {
			return nil, TranscriptFetchOutput{}, errors.New("url is required")
		}

		videoID := captions.ExtractVideoID(input.URL)
		if videoID == "" {
			return nil, TranscriptFetchOutput{ErrorCode: string(captions.CodeInvalidURL)}, errors.New("invalid YouTube URL")
		}
		lang := input.Language
		if lang == "" {
			lang = engine.Cfg.PreferredLanguage
		}
		lang = engine.NormLang(lang)

		cacheKey := engine.CacheKey("transcript_fetch", videoID, lang, engine.Cfg.TranscriptProvider)
		if out, ok := toolutil.CacheLoadJSON[TranscriptFetchOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		result, err := captions.FetchTranscriptByID(ctx, videoID, lang)
		if err != nil {
			if captions.IsConfigError(err) {
				slog.Error("transcript_fetch: provider misconfigured", slog.Any("error", err))
			}
			return nil, TranscriptFetchOutput{
				VideoID:   videoID,
				ErrorCode: string(captions.CodeOf(err)),
			}, err
		}

		fullText := result.FullText()
		truncated := false
		if max := engine.Cfg.MaxTranscriptChars; max > 0 && len(fullText) > max {
			fullText = engine.TruncateRunes(fullText, max, "")
			truncated = true
		}

		out := TranscriptFetchOutput{
			VideoID:   result.VideoID,
			Language:  result.Language,
			Source:    result.Source,
			Captions:  result.Captions,
			FullText:  fullText,
			Truncated: truncated,
		}
		toolutil.CacheStoreJSON(ctx, cacheKey, out)
		return nil, out, nil
	})
}
