package captions

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_captions/internal/engine"
)

// VideoMetadata is the public page metadata for a video: enough to label
// a transcript without touching any authenticated API.
type VideoMetadata struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
}

// FetchVideoMetadata scrapes title, channel and description from the
// watch page. Parses with goquery first, falls back to a bare tokenizer
// pass when the document is too broken for a DOM.
func FetchVideoMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	engine.IncrMetadataRequests()

	body, err := fetchWatchPageStd(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	meta := metadataFromDocument(body)
	if meta == nil {
		meta = metadataFromTokens(body)
	}
	if meta == nil || meta.Title == "" {
		return nil, fmt.Errorf("no metadata in watch page for %s", videoID)
	}
	meta.VideoID = videoID
	meta.Title = cleanVideoTitle(meta.Title)
	return meta, nil
}

func metadataFromDocument(body []byte) *VideoMetadata {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	var meta VideoMetadata
	meta.Title, _ = doc.Find(`meta[property="og:title"]`).Attr("content")
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	meta.Author, _ = doc.Find(`link[itemprop="name"]`).Attr("content")
	if meta.Author == "" {
		meta.Author, _ = doc.Find(`meta[itemprop="author"]`).Attr("content")
	}
	meta.Description, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
	if meta.Title == "" {
		return nil
	}
	return &meta
}

// metadataFromTokens reads just the meta and title tags without building
// a DOM.
func metadataFromTokens(body []byte) *VideoMetadata {
	var meta VideoMetadata
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if meta.Title == "" {
				return nil
			}
			return &meta
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "meta" {
				continue
			}
			var prop, content string
			for _, a := range tok.Attr {
				switch a.Key {
				case "property", "name", "itemprop":
					prop = a.Val
				case "content":
					content = a.Val
				}
			}
			switch prop {
			case "og:title", "title":
				if meta.Title == "" {
					meta.Title = content
				}
			case "og:description", "description":
				if meta.Description == "" {
					meta.Description = content
				}
			case "author":
				if meta.Author == "" {
					meta.Author = content
				}
			}
		}
	}
}

func cleanVideoTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.TrimSuffix(title, " - YouTube")
	return strings.TrimSpace(title)
}
