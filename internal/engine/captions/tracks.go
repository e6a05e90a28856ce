package captions

import "strings"

// SelectTrack picks the best caption track for a requested language.
// The preference order is fixed and applied identically by every discovery
// strategy so provider behavior stays predictable:
//
//	lang empty/"auto":  first non-ASR track, else the first track
//	lang set:           exact match (case-insensitive) with kind != asr
//	                    → exact match ignoring kind
//	                    → two-letter prefix match (en matches en-US)
//	                    → first available track
func SelectTrack(tracks []CaptionTrack, lang string) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}

	if lang == "" || strings.EqualFold(lang, "auto") {
		for _, t := range tracks {
			if t.Kind != KindASR {
				return t, true
			}
		}
		return tracks[0], true
	}

	want := strings.ToLower(lang)
	for _, t := range tracks {
		if strings.ToLower(t.LanguageCode) == want && t.Kind != KindASR {
			return t, true
		}
	}
	for _, t := range tracks {
		if strings.ToLower(t.LanguageCode) == want {
			return t, true
		}
	}
	if len(want) >= 2 {
		prefix := want[:2]
		for _, t := range tracks {
			if strings.HasPrefix(strings.ToLower(t.LanguageCode), prefix) {
				return t, true
			}
		}
	}
	return tracks[0], true
}
