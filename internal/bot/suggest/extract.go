// Package suggest turns the storefront search-suggest HTML fragment into
// suggestion entries in a single pass over the markup tokens.
package suggest

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

const (
	attrAppID  = "data-ds-appid"
	className  = "match_name"
	classPrice = "match_price"
)

type field int

const (
	fieldNone field = iota
	fieldName
	fieldPrice
)

// Extract reads entries in source order. Malformed markup ends extraction
// early; whatever was collected so far is returned.
func Extract(r io.Reader) []domain.SuggestionEntry {
	var (
		entries []domain.SuggestionEntry
		expect  = fieldNone
	)

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return entries

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch {
			case tok.Data == "a":
				appID, href := attr(tok, attrAppID), attr(tok, "href")
				if appID != "" && href != "" {
					entries = append(entries, domain.SuggestionEntry{AppID: appID, Href: href})
					expect = fieldNone
				}
			case len(entries) == 0:
				// nothing to fill before the first anchor
			case tok.Data == "div" && hasClass(tok, className):
				expect = fieldName
			case tok.Data == "div" && hasClass(tok, classPrice):
				expect = fieldPrice
			case tok.Data == "img":
				if src := attr(tok, "src"); src != "" {
					entries[len(entries)-1].Image = src
				}
			}

		case html.TextToken:
			if expect == fieldNone || len(entries) == 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}
			last := &entries[len(entries)-1]
			if expect == fieldName {
				last.Name = text
			} else {
				last.Price = text
			}
			expect = fieldNone
		}
	}
}

// ExtractString is Extract over an in-memory fragment.
func ExtractString(fragment string) []domain.SuggestionEntry {
	return Extract(strings.NewReader(fragment))
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(tok html.Token, class string) bool {
	for _, c := range strings.Fields(attr(tok, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
