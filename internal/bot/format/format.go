// Package format renders replies in the Markdown dialect of the messaging
// platform.
package format

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

const (
	aboutLength    = 500
	contentsLength = 300
	newsDateLayout = "January 02, 2006"
)

const gameCardTemplate = `
*{{inner .Name}} ({{inner .ReleaseDate}})* [steam]({{.StoreURL}}/app/{{.AppID}}/)
{{.Metacritic}}
*platforms:* _{{inner .Platforms}}_
*genres:* _{{inner .Genres}}_
*publisher:* _{{inner .Publishers}}_
*recommendations:* _{{.Recommendations}}_
*price:* _{{inner .Price}}_
_get {{.Screenshots}} screenshots:_ /scr\_{{.AppID}}
_get last news:_ /news\_{{.AppID}}


{{md .About}}
`

const newsCardTemplate = `
*{{inner .Title}}* [read on site]({{.URL}})
_{{.Date}}_
_{{inner .FeedLabel}}_

{{md .Contents}}

_{{inner .Author}}_
`

var funcs = template.FuncMap{
	"md":    EscapeMarkdown,
	"inner": Inner,
}

var (
	gameCard = template.Must(template.New("game").Funcs(funcs).Parse(gameCardTemplate))
	newsCard = template.Must(template.New("news").Funcs(funcs).Parse(newsCardTemplate))
)

type Formatter struct {
	storeURL string
}

func NewFormatter(storeURL string) *Formatter {
	return &Formatter{storeURL: strings.TrimRight(storeURL, "/")}
}

// GamesList renders one line per entry, or NothingFound.
func (f *Formatter) GamesList(entries []domain.SuggestionEntry) string {
	if len(entries) == 0 {
		return NothingFound
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("/app\\_%s %s [steam](%s)", e.AppID, EscapeMarkdown(e.Name), e.Href)
		if e.Price != "" {
			line += " _" + Inner(e.Price) + "_"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

type gameCardView struct {
	StoreURL        string
	AppID           int64
	Name            string
	ReleaseDate     string
	Metacritic      string
	Platforms       string
	Genres          string
	Publishers      string
	Recommendations string
	Price           string
	Screenshots     int
	About           string
}

func (f *Formatter) GameCard(d *domain.AppDetails) (string, error) {
	view := gameCardView{
		StoreURL:    f.storeURL,
		AppID:       d.AppID,
		Name:        d.Name,
		ReleaseDate: d.ReleaseDate.Date,
		Platforms:   strings.Join(d.Platforms.Names(), ", "),
		Publishers:  strings.Join(d.Publishers, ", "),
		Screenshots: len(d.Screenshots),
		About:       Truncate(StripHTML(d.AboutTheGame), aboutLength),
	}
	if d.Metacritic != nil {
		view.Metacritic = fmt.Sprintf("⭐️%d [metacritics](%s)", d.Metacritic.Score, d.Metacritic.URL)
	}
	genres := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		genres[i] = g.Description
	}
	view.Genres = strings.Join(genres, ", ")
	if d.Recommended != nil {
		view.Recommendations = humanize.Comma(d.Recommended.Total)
	}
	switch {
	case d.Price != nil:
		view.Price = fmt.Sprintf("%.2f %s", float64(d.Price.Final)/100, d.Price.Currency)
	case d.IsFree:
		view.Price = "Free"
	}

	var buf bytes.Buffer
	if err := gameCard.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render game card %d: %w", d.AppID, err)
	}
	return buf.String(), nil
}

type newsCardView struct {
	Title     string
	URL       string
	Date      string
	FeedLabel string
	Contents  string
	Author    string
}

func (f *Formatter) NewsCard(item domain.NewsItem) (string, error) {
	contents := StripHTML(item.Contents)
	contents = strings.ReplaceAll(contents, "\n", "")
	contents = strings.ReplaceAll(contents, "  ", "")

	view := newsCardView{
		Title:     item.Title,
		URL:       item.URL,
		Date:      time.Unix(item.Date, 0).UTC().Format(newsDateLayout),
		FeedLabel: item.FeedLabel,
		Contents:  Truncate(contents, contentsLength),
		Author:    item.Author,
	}

	var buf bytes.Buffer
	if err := newsCard.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render news %s: %w", item.GID, err)
	}
	return buf.String(), nil
}

// InlineMessage is the text posted when an inline result is picked.
func InlineMessage(e domain.SuggestionEntry) string {
	parts := []string{e.Name}
	if e.Price != "" {
		parts = append(parts, e.Price)
	}
	parts = append(parts, e.Href)
	return strings.Join(parts, " ")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
