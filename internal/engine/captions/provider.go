package captions

import "context"

// Provider acquires the caption segments for one video in one language.
// Implementations return domain errors (captions.Error) so the
// orchestrator can tell configuration failures from ordinary misses.
type Provider interface {
	// Name identifies the provider in logs and in TranscriptResult.Source.
	Name() string
	// Fetch returns the segments for videoID in lang ("auto" = any).
	// An empty result must be reported as an error, never as ([], nil).
	Fetch(ctx context.Context, videoID, lang string) ([]CaptionSegment, error)
}
