// go_captions — YouTube transcript acquisition MCP server.
//
// Exposes caption tools over MCP: transcript_fetch, caption_tracks,
// video_metadata, and repurpose_job_start/get/list. Acquisition runs a
// fixed fallback chain: watch-page scrape, timedtext track list, a
// scraping library, and the RapidAPI transcriptor.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_captions/internal/capserver"
	"github.com/anatolykoptev/go_captions/internal/engine"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8894")
)

func main() {
	initEngine()

	slog.Info("starting go_captions",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_captions",
		Version: version,
	}, nil)

	capserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 6))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_captions",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		TranscriptProvider:   env.Str("TRANSCRIPT_PROVIDER", "auto"),
		PreferredLanguage:    env.Str("PREFERRED_LANGUAGE", ""),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 10*time.Second),
		MaxTranscriptChars:   env.Int("MAX_TRANSCRIPT_CHARS", 200000),
		RapidAPIKey:          env.Str("RAPIDAPI_KEY", ""),
		RapidAPIHost:         env.Str("RAPIDAPI_YOUTUBE_TRANSCRIPTOR_HOST", "youtube-transcriptor.p.rapidapi.com"),
		UserAgent:            env.Str("YT_USER_AGENT", ""),
		ConsentCookie:        env.Str("YT_COOKIE", "CONSENT=YES+cb; SOCS=CAI"),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		JobsDBPath:           env.Str("JOBS_DB_PATH", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	bc, err := engine.NewBrowserClient()
	if err != nil {
		slog.Warn("browser client init failed, watch-page fallback variant disabled", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("browser client initialized")
	}

	engine.Init(c)

	engine.CacheTTL = env.Duration("CACHE_TTL", 6*time.Hour)
	engine.InitCache(env.Str("REDIS_URL", ""), engine.CacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
