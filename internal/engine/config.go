package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	TranscriptProvider string // "auto" (default) or a single provider name
	PreferredLanguage  string // caption language used when a request has none

	FetchTimeout       time.Duration // upper bound for one network call
	MaxTranscriptChars int           // truncation limit for tool output text

	RapidAPIKey  string // paid transcript API; empty disables the provider
	RapidAPIHost string

	UserAgent     string // watch-page User-Agent override; empty = rotate
	ConsentCookie string // cookie header sent with watch-page requests

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	JobsDBPath string // SQLite job store location; empty = ~/.go_captions

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = Chrome-fingerprint page variant disabled
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (captions, jobs).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
