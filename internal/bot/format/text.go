package format

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
)

// control characters cannot be escaped inside an entity, so they are dropped
var entityStripper = strings.NewReplacer(`_`, ``, `*`, ``, "`", ``)

// EscapeMarkdown escapes text placed outside of any markup entity.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Inner makes text safe to place inside *bold* or _italic_.
func Inner(s string) string {
	return entityStripper.Replace(s)
}

// StripHTML returns the text content of an HTML fragment with entities decoded.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// Group splits a flat list of labels into keyboard rows of the given width.
func Group(labels []string, size int) [][]string {
	if size <= 0 {
		size = 1
	}
	rows := make([][]string, 0, (len(labels)+size-1)/size)
	for i := 0; i < len(labels); i += size {
		end := i + size
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, labels[i:end])
	}
	return rows
}
