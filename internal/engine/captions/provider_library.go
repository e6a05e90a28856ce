package captions

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"strings"

	youtubetranscript "github.com/dougbarrett/youtube-transcript"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// LibraryProvider acquires captions through the youtube-transcript
// library, which runs its own watch-page scrape with consent-cookie
// handling. A separate implementation of the same scrape is useful
// cover when ours breaks first.
type LibraryProvider struct{}

func (LibraryProvider) Name() string { return "library" }

func (LibraryProvider) Fetch(ctx context.Context, videoID, lang string) ([]CaptionSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	engine.IncrLibraryRequests()

	// The fetcher replays the consent cookie it extracts from the first
	// response, so the client must carry a jar.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: engine.Cfg.FetchTimeout}

	list, err := youtubetranscript.NewTranscriptListFetcher(client).Fetch(videoID)
	if err != nil {
		return nil, fmt.Errorf("library list fetch: %w", err)
	}

	transcript, err := list.FindTranscript(libraryLangCandidates(list, lang))
	if err != nil {
		return nil, fmt.Errorf("library track lookup: %w", err)
	}

	entries, err := transcript.Fetch(false)
	if err != nil {
		return nil, fmt.Errorf("library transcript fetch: %w", err)
	}

	segs := make([]CaptionSegment, 0, len(entries))
	for _, e := range entries {
		text := engine.CollapseSpaces(engine.DecodeEntities(e.Text))
		if text == "" {
			continue
		}
		dur := e.Duration
		if dur < 0 {
			dur = 0
		}
		segs = append(segs, CaptionSegment{Start: e.Start, End: e.Start + dur, Text: text})
	}
	if len(segs) == 0 {
		return nil, fmt.Errorf("library returned no usable segments")
	}
	slog.Debug("captions: library fetch ok", slog.String("id", videoID), slog.Int("segments", len(segs)))
	return segs, nil
}

// libraryLangCandidates orders the language codes to ask the library
// for: the requested language and its base code first, then every code
// the video actually has so an off-language video still resolves.
func libraryLangCandidates(list *youtubetranscript.TranscriptList, lang string) []string {
	var codes []string
	seen := map[string]bool{}
	add := func(code string) {
		if code != "" && !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}

	if lang != "" && lang != "auto" {
		add(lang)
		if base, _, found := strings.Cut(lang, "-"); found {
			add(base)
		}
	}

	var available []string
	for code := range list.ManuallyCreatedTranscripts {
		available = append(available, code)
	}
	for code := range list.GeneratedTranscripts {
		available = append(available, code)
	}
	sort.Strings(available)
	for _, code := range available {
		add(code)
	}
	return codes
}
