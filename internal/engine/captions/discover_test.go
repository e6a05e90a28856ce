package captions

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"flat object", `{"a":1};rest`, `{"a":1}`},
		{"nested braces", `{"a":{"b":{"c":2}}}tail`, `{"a":{"b":{"c":2}}}`},
		{"brace inside string", `{"a":"}"}tail`, `{"a":"}"}`},
		{"escaped quote inside string", `{"a":"x\"}y"}tail`, `{"a":"x\"}y"}`},
		{"not an object", `[1,2,3]`, ""},
		{"empty", "", ""},
		{"unterminated", `{"a":1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(extractJSON([]byte(tt.input)))
			if got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTracksFromWatchPage(t *testing.T) {
	page := `<html><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[` +
		`{"baseUrl":"https://www.youtube.com/api/timedtext?v=abc&lang=en","languageCode":"en","name":{"simpleText":"English"}},` +
		`{"baseUrl":"https://www.youtube.com/api/timedtext?v=abc&lang=de&kind=asr","languageCode":"de","kind":"asr","name":{"runs":[{"text":"German (auto-generated)"}]}},` +
		`{"languageCode":"fr"}` +
		`]}}};var other = {};</script></html>`

	tracks, err := tracksFromWatchPage([]byte(page))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks (baseUrl-less one dropped), got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].LanguageCode != "en" || tracks[0].Name != "English" || tracks[0].Kind != "" {
		t.Errorf("first track = %+v", tracks[0])
	}
	if tracks[1].LanguageCode != "de" || tracks[1].Kind != "asr" || tracks[1].Name != "German (auto-generated)" {
		t.Errorf("second track = %+v", tracks[1])
	}
	if tracks[0].BaseURL == "" {
		t.Error("expected baseUrl to be carried over")
	}
}

func TestTracksFromWatchPageErrors(t *testing.T) {
	t.Run("marker missing", func(t *testing.T) {
		if _, err := tracksFromWatchPage([]byte("<html>no player response</html>")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("no captions renders playability reason", func(t *testing.T) {
		page := `ytInitialPlayerResponse = {"playabilityStatus":{"status":"LOGIN_REQUIRED","reason":"Sign in to confirm your age"}}`
		_, err := tracksFromWatchPage([]byte(page))
		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseTrackList(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<transcript_list docid="123">
<track id="0" name="" lang_code="en" lang_original="English" lang_translated="English" lang_default="true"/>
<track id="1" name="CC 1" lang_code="de" kind="asr" lang_original="Deutsch"/>
<track id="2" name="R&amp;B" lang_code="fr"/>
</transcript_list>`

	tracks := parseTrackList(doc)
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d: %+v", len(tracks), tracks)
	}
	if tracks[0].LanguageCode != "en" || tracks[0].Kind != "" {
		t.Errorf("first track = %+v", tracks[0])
	}
	if tracks[1].LanguageCode != "de" || tracks[1].Kind != "asr" || tracks[1].Name != "CC 1" {
		t.Errorf("second track = %+v", tracks[1])
	}
	if tracks[2].Name != "R&B" {
		t.Errorf("entity in name not decoded: %+v", tracks[2])
	}

	if got := parseTrackList("<transcript_list></transcript_list>"); len(got) != 0 {
		t.Errorf("empty list should yield no tracks, got %+v", got)
	}
}

func TestTimedtextURL(t *testing.T) {
	track := CaptionTrack{LanguageCode: "en", Kind: "asr", Name: "CC 1"}
	got := TimedtextURL("abc123def45", track, "vtt")
	want := "https://www.youtube.com/api/timedtext?fmt=vtt&kind=asr&lang=en&name=CC+1&v=abc123def45"
	if got != want {
		t.Errorf("TimedtextURL = %q, want %q", got, want)
	}

	plain := TimedtextURL("abc123def45", CaptionTrack{LanguageCode: "en"}, "")
	wantPlain := "https://www.youtube.com/api/timedtext?lang=en&v=abc123def45"
	if plain != wantPlain {
		t.Errorf("TimedtextURL = %q, want %q", plain, wantPlain)
	}
}
