package captions

import "regexp"

// Ordered: URL shapes first, bare 11-char id last. First match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/v/)([^&\n?#]+)`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

// ExtractVideoID parses an arbitrary user-supplied URL or bare token into
// a video id. Returns "" when nothing matches. Pure, no I/O.
func ExtractVideoID(input string) string {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1]
		}
	}
	return ""
}
