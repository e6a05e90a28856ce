package captions

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// Caption payload parsing. Every parser is best-effort: malformed cues are
// skipped, a completely unparsable payload yields an empty slice, never an
// error. That lets the orchestrator move on to the next format or provider.

// ParseCaptionPayload converts a raw caption payload of unknown format into
// segments. The format is sniffed from leading content; upstream endpoints
// are observed to mislabel or omit Content-Type, so it is never consulted.
func ParseCaptionPayload(payload string) []CaptionSegment {
	trimmed := strings.TrimSpace(payload)
	switch {
	case trimmed == "":
		return nil
	case strings.HasPrefix(trimmed, "WEBVTT"):
		return parseVTT(trimmed)
	case strings.HasPrefix(trimmed, "{"):
		return parseJSON3(trimmed)
	case strings.HasPrefix(trimmed, "<"):
		return parseTimedtextXML(trimmed)
	}
	return nil
}

var (
	cueSplitRe = regexp.MustCompile(`\n{2,}`)
	timeLineRe = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2}[.,]\d{3}|\d{1,2}:\d{2}[.,]\d{3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[.,]\d{3}|\d{1,2}:\d{2}[.,]\d{3})`)
	timecodeRe = regexp.MustCompile(`(?:(\d{1,2}):)?(\d{2}):(\d{2})[.,](\d{3})`)
	xmlTextRe  = regexp.MustCompile(`(?s)<text[^>]*start="([^"]+)"[^>]*dur="([^"]+)"[^>]*>(.*?)</text>`)
)

// parseVTT splits a WebVTT payload into cue blocks on blank lines. The
// header block and NOTE blocks are skipped; the timing line is found by
// its "-->" marker, everything after it is cue text.
func parseVTT(vtt string) []CaptionSegment {
	blocks := cueSplitRe.Split(strings.ReplaceAll(vtt, "\r", ""), -1)
	var captions []CaptionSegment

	for _, block := range blocks {
		var lines []string
		for _, line := range strings.Split(block, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) == 0 {
			continue
		}
		if strings.HasPrefix(lines[0], "WEBVTT") || strings.HasPrefix(lines[0], "NOTE") {
			continue
		}

		timeIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timeIdx = i
				break
			}
		}
		if timeIdx == -1 {
			continue
		}

		m := timeLineRe.FindStringSubmatch(lines[timeIdx])
		if m == nil {
			continue
		}
		start := parseTimecode(m[1])
		end := parseTimecode(m[2])
		if end < start {
			end = start
		}

		text := strings.Join(lines[timeIdx+1:], " ")
		text = engine.CollapseSpaces(engine.DecodeEntities(engine.CleanHTML(text)))
		if text == "" {
			continue
		}
		captions = append(captions, CaptionSegment{Start: start, End: end, Text: text})
	}
	return captions
}

// parseTimedtextXML extracts <text start dur> elements by regex. The body
// capture is non-greedy to tolerate embedded markup.
func parseTimedtextXML(xml string) []CaptionSegment {
	var captions []CaptionSegment
	for _, m := range xmlTextRe.FindAllStringSubmatch(xml, -1) {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		dur, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if dur < 0 {
			dur = 0
		}
		text := strings.TrimSpace(strings.ReplaceAll(engine.DecodeEntities(m[3]), "\n", " "))
		if text == "" {
			continue
		}
		captions = append(captions, CaptionSegment{Start: start, End: start + dur, Text: text})
	}
	return captions
}

// json3 payload shapes.
type json3Payload struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    float64    `json:"tStartMs"`
	DDurationMs float64    `json:"dDurationMs"`
	Segs        []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// parseJSON3 reads events[].segs[].utf8 from a json3 payload. Any JSON
// parse failure yields an empty slice.
func parseJSON3(payload string) []CaptionSegment {
	var data json3Payload
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil
	}

	var captions []CaptionSegment
	for _, ev := range data.Events {
		if len(ev.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(engine.DecodeEntities(sb.String()))
		if text == "" {
			continue
		}
		start := ev.TStartMs / 1000
		dur := ev.DDurationMs / 1000
		if dur < 0 {
			dur = 0
		}
		captions = append(captions, CaptionSegment{Start: start, End: start + dur, Text: text})
	}
	return captions
}

// parseTimecode converts [H:]MM:SS.mmm (comma or dot separator) to seconds.
func parseTimecode(tc string) float64 {
	m := timecodeRe.FindStringSubmatch(tc)
	if m == nil {
		return 0
	}
	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])
	return float64(hours)*3600 + float64(minutes)*60 + float64(seconds) + float64(millis)/1000
}
