package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	Acquisitions        atomic.Int64
	AcquisitionFailures atomic.Int64
	WatchPageRequests   atomic.Int64
	TrackListRequests   atomic.Int64
	TimedtextRequests   atomic.Int64
	LibraryRequests     atomic.Int64
	RapidAPIRequests    atomic.Int64
	MetadataRequests    atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"acquisitions":         metrics.Acquisitions.Load(),
		"acquisition_failures": metrics.AcquisitionFailures.Load(),
		"watch_page_requests":  metrics.WatchPageRequests.Load(),
		"track_list_requests":  metrics.TrackListRequests.Load(),
		"timedtext_requests":   metrics.TimedtextRequests.Load(),
		"library_requests":     metrics.LibraryRequests.Load(),
		"rapidapi_requests":    metrics.RapidAPIRequests.Load(),
		"metadata_requests":    metrics.MetadataRequests.Load(),
		"cache_hits":           hits,
		"cache_misses":         misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"acquisitions", "acquisition_failures",
		"watch_page_requests", "track_list_requests", "timedtext_requests",
		"library_requests", "rapidapi_requests", "metadata_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the captions sub-package.
func IncrAcquisitions()        { metrics.Acquisitions.Add(1) }
func IncrAcquisitionFailures() { metrics.AcquisitionFailures.Add(1) }
func IncrWatchPageRequests()   { metrics.WatchPageRequests.Add(1) }
func IncrTrackListRequests()   { metrics.TrackListRequests.Add(1) }
func IncrTimedtextRequests()   { metrics.TimedtextRequests.Add(1) }
func IncrLibraryRequests()     { metrics.LibraryRequests.Add(1) }
func IncrRapidAPIRequests()    { metrics.RapidAPIRequests.Add(1) }
func IncrMetadataRequests()    { metrics.MetadataRequests.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
