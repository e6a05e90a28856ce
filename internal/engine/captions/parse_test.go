package captions

import (
	"math"
	"testing"
)

func segEqual(a, b CaptionSegment) bool {
	const eps = 1e-9
	return math.Abs(a.Start-b.Start) < eps && math.Abs(a.End-b.End) < eps && a.Text == b.Text
}

func TestParseCaptionPayloadVTT(t *testing.T) {
	vtt := `WEBVTT

00:00:01.000 --> 00:00:03.000
Hello world

00:00:03.500 --> 00:00:05.000
Second cue
`
	segs := ParseCaptionPayload(vtt)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if !segEqual(segs[0], CaptionSegment{Start: 1, End: 3, Text: "Hello world"}) {
		t.Errorf("first segment = %+v", segs[0])
	}
	if !segEqual(segs[1], CaptionSegment{Start: 3.5, End: 5, Text: "Second cue"}) {
		t.Errorf("second segment = %+v", segs[1])
	}
}

func TestParseVTTEdgeCases(t *testing.T) {
	t.Run("comma decimal separator", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\n00:00:01,500 --> 00:00:02,500\nComma style\n")
		if len(segs) != 1 || !segEqual(segs[0], CaptionSegment{Start: 1.5, End: 2.5, Text: "Comma style"}) {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("short timecode without hours", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\n01:02.000 --> 01:04.000\nNo hours\n")
		if len(segs) != 1 || !segEqual(segs[0], CaptionSegment{Start: 62, End: 64, Text: "No hours"}) {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("cue identifier line before timing", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\ncue-1\n00:00:01.000 --> 00:00:02.000\nWith id\n")
		if len(segs) != 1 || segs[0].Text != "With id" {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("NOTE blocks skipped", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\nNOTE internal comment\n\n00:00:01.000 --> 00:00:02.000\nReal cue\n")
		if len(segs) != 1 || segs[0].Text != "Real cue" {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("end before start clamped", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\n00:00:05.000 --> 00:00:03.000\nBackwards\n")
		if len(segs) != 1 {
			t.Fatalf("got %+v", segs)
		}
		if segs[0].End < segs[0].Start {
			t.Errorf("end %v < start %v", segs[0].End, segs[0].Start)
		}
	})

	t.Run("markup stripped and entities decoded", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n<b>Bold</b> &amp; plain\n")
		if len(segs) != 1 || segs[0].Text != "Bold & plain" {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("empty text cue dropped", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n<i></i>\n")
		if len(segs) != 0 {
			t.Fatalf("expected no segments, got %+v", segs)
		}
	})

	t.Run("multiline cue joined with spaces", func(t *testing.T) {
		segs := ParseCaptionPayload("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nline one\nline two\n")
		if len(segs) != 1 || segs[0].Text != "line one line two" {
			t.Fatalf("got %+v", segs)
		}
	})
}

func TestParseCaptionPayloadXML(t *testing.T) {
	xml := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
<text start="1" dur="2">Hello &amp; welcome</text>
<text start="3.5" dur="1.5">Second &#39;line&#39;</text>
</transcript>`
	segs := ParseCaptionPayload(xml)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segs), segs)
	}
	if !segEqual(segs[0], CaptionSegment{Start: 1, End: 3, Text: "Hello & welcome"}) {
		t.Errorf("first segment = %+v", segs[0])
	}
	if !segEqual(segs[1], CaptionSegment{Start: 3.5, End: 5, Text: "Second 'line'"}) {
		t.Errorf("second segment = %+v", segs[1])
	}
}

func TestParseXMLEdgeCases(t *testing.T) {
	t.Run("unparsable start skipped", func(t *testing.T) {
		segs := ParseCaptionPayload(`<transcript><text start="x" dur="2">bad</text><text start="1" dur="2">good</text></transcript>`)
		if len(segs) != 1 || segs[0].Text != "good" {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("negative duration clamped to zero", func(t *testing.T) {
		segs := ParseCaptionPayload(`<transcript><text start="2" dur="-1">neg</text></transcript>`)
		if len(segs) != 1 || segs[0].End != 2 {
			t.Fatalf("got %+v", segs)
		}
	})

	t.Run("embedded newlines become spaces", func(t *testing.T) {
		segs := ParseCaptionPayload("<transcript><text start=\"1\" dur=\"2\">two\nlines</text></transcript>")
		if len(segs) != 1 || segs[0].Text != "two lines" {
			t.Fatalf("got %+v", segs)
		}
	})
}

func TestParseCaptionPayloadJSON3(t *testing.T) {
	payload := `{"events":[
		{"tStartMs":1000,"dDurationMs":1500,"segs":[{"utf8":"Hello "},{"utf8":"world"}]},
		{"tStartMs":3000,"dDurationMs":1000},
		{"tStartMs":5000,"dDurationMs":1000,"segs":[{"utf8":"\n"}]}
	]}`
	segs := ParseCaptionPayload(payload)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d: %+v", len(segs), segs)
	}
	if !segEqual(segs[0], CaptionSegment{Start: 1, End: 2.5, Text: "Hello world"}) {
		t.Errorf("segment = %+v", segs[0])
	}
}

func TestParseCaptionPayloadDispatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"unknown format", "1\n00:00:01,000 --> 00:00:02,000\nSRT has no header", 0},
		{"vtt with leading whitespace", "\n\nWEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n", 1},
		{"json with leading whitespace", ` {"events":[{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"x"}]}]}`, 1},
		{"xml", `<transcript><text start="0" dur="1">x</text></transcript>`, 1},
		{"invalid json", "{not json", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCaptionPayload(tt.payload); len(got) != tt.want {
				t.Errorf("got %d segments, want %d: %+v", len(got), tt.want, got)
			}
		})
	}
}
