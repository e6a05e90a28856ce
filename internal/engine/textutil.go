package engine

import (
	"math/rand"
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// NormLang normalises a requested caption language: empty string → "auto".
func NormLang(lang string) string {
	if lang == "" {
		return "auto"
	}
	return lang
}

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoCaptions/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// desktop user agents rotated for watch-page requests.
var desktopUserAgents = []string{
	UserAgentChrome,
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:133.0) Gecko/20100101 Firefox/133.0",
}

// PageUserAgent returns the configured User-Agent override, or a random
// desktop one when no override is set.
func PageUserAgent() string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return desktopUserAgents[rand.Intn(len(desktopUserAgents))] //nolint:gosec // non-cryptographic use
}

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// entityReplacer decodes the entity set YouTube caption payloads actually use.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&apos;", "'",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&#39;", "'",
)

// DecodeEntities decodes HTML entities found in caption text.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// CollapseSpaces folds runs of whitespace into single spaces and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
