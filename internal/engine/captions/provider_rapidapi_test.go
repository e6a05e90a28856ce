package captions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

func rapidAPITestProvider(t *testing.T, handler http.HandlerFunc, apiKey string) *RapidAPIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	engine.Init(engine.Config{
		RapidAPIKey:  apiKey,
		RapidAPIHost: "transcriptor.test",
		HTTPClient:   srv.Client(),
	})

	p := NewRapidAPIProvider()
	p.baseURL = srv.URL
	return p
}

func TestRapidAPIFetchMissingKey(t *testing.T) {
	p := rapidAPITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without an api key")
	}, "")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.Error(t, err)
	assert.Equal(t, CodeMissingKey, CodeOf(err))
}

func TestRapidAPIFetchQuota(t *testing.T) {
	p := rapidAPITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, "key")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.Error(t, err)
	assert.Equal(t, CodeQuota, CodeOf(err))
}

func TestRapidAPIFetchHeaders(t *testing.T) {
	p := rapidAPITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "transcriptor.test", r.Header.Get("x-rapidapi-host"))
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("video_id"))
		w.Write([]byte(`{"transcript":[{"text":"hi","start":0,"end":1}]}`)) //nolint:errcheck
	}, "secret")

	segs, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", "en")
	require.NoError(t, err)
	require.Len(t, segs, 1)
}

func TestRapidAPIPayloadShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []CaptionSegment
	}{
		{
			name: "transcript key with start and end",
			body: `{"transcript":[{"text":"one","start":1,"end":2}]}`,
			want: []CaptionSegment{{Start: 1, End: 2, Text: "one"}},
		},
		{
			name: "segments key with offset and duration",
			body: `{"segments":[{"subtitle":"two","offset":3,"duration":1.5}]}`,
			want: []CaptionSegment{{Start: 3, End: 4.5, Text: "two"}},
		},
		{
			name: "top-level array wrapping transcription",
			body: `[{"transcription":[{"text":"three","startTime":"2.5","endTime":"4"}]}]`,
			want: []CaptionSegment{{Start: 2.5, End: 4, Text: "three"}},
		},
		{
			name: "bare top-level array with dur",
			body: `[{"text":"four","start":"0","dur":"2"}]`,
			want: []CaptionSegment{{Start: 0, End: 2, Text: "four"}},
		},
		{
			name: "negative start clamped and end floored to start",
			body: `{"captions":[{"text":"five","start":-2,"end":-5}]}`,
			want: []CaptionSegment{{Start: 0, End: 0, Text: "five"}},
		},
		{
			name: "segments without text dropped",
			body: `{"data":[{"start":1,"end":2},{"text":"  ","start":2,"end":3},{"text":"six","start":3,"end":4}]}`,
			want: []CaptionSegment{{Start: 3, End: 4, Text: "six"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := rapidAPITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body)) //nolint:errcheck
			}, "key")

			segs, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", "auto")
			require.NoError(t, err)
			assert.Equal(t, tt.want, segs)
		})
	}
}

func TestRapidAPIEmptyPayload(t *testing.T) {
	p := rapidAPITestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":[]}`)) //nolint:errcheck
	}, "key")

	_, err := p.Fetch(context.Background(), "dQw4w9WgXcQ", "auto")
	require.Error(t, err)
	assert.Equal(t, CodeFailed, CodeOf(err))
}
