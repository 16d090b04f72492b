package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// EmbedSrc extracts the map URL from what an editor pasted into the map
// embed field: either a bare URL or the provider's <iframe> snippet.
func EmbedSrc(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "<") {
		if strings.HasPrefix(s, "https://") {
			return s
		}
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("iframe").First().Attr("src")
	if !strings.HasPrefix(src, "https://") {
		return ""
	}
	return src
}

// PlainText strips markup from s and collapses whitespace.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns PlainText(s) cut to at most n runes on a word boundary.
func Excerpt(s string, n int) string {
	text := PlainText(s)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
