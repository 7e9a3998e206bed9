package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		expected []domain.SuggestionEntry
	}{
		{
			name:     "empty input",
			fragment: "",
			expected: nil,
		},
		{
			name: "full entry",
			fragment: `<a data-ds-appid="10" href="/app/10"><div class="match_name">Half-Life</div>` +
				`<img src="a.jpg"/><div class="match_price">$9.99</div></a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "10", Href: "/app/10", Name: "Half-Life", Image: "a.jpg", Price: "$9.99"},
			},
		},
		{
			name: "missing price",
			fragment: `<a data-ds-appid="10" href="/app/10"><div class="match_name">Half-Life</div>` +
				`<img src="a.jpg"/></a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "10", Href: "/app/10", Name: "Half-Life", Image: "a.jpg"},
			},
		},
		{
			name:     "missing image",
			fragment: `<a data-ds-appid="570" href="/app/570"><div class="match_name">Dota 2</div><div class="match_price">Free</div></a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "570", Href: "/app/570", Name: "Dota 2", Price: "Free"},
			},
		},
		{
			name:     "text before the first anchor is discarded",
			fragment: `<div class="match_name">stray</div>junk<div class="match_price">$1</div><a data-ds-appid="20" href="/app/20"><div class="match_name">Team Fortress Classic</div></a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "20", Href: "/app/20", Name: "Team Fortress Classic"},
			},
		},
		{
			name:     "anchor without app id does not start an entry",
			fragment: `<a href="/search/?term=half">See all</a><a data-ds-appid="10" href="/app/10"><div class="match_name">Half-Life</div></a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "10", Href: "/app/10", Name: "Half-Life"},
			},
		},
		{
			name: "source order and entities",
			fragment: `<a class="match ds_collapse_flag" data-ds-appid="220" href="https://store/app/220">
  <div class="match_name">Half-Life 2</div>
  <div class="match_img"><img src="https://cdn/220.jpg"></div>
  <div class="match_price">$9.99</div>
</a>
<a class="match" data-ds-appid="400" href="https://store/app/400">
  <div class="match_name">Portal &amp; Friends</div>
  <div class="match_img"><img src="https://cdn/400.jpg"></div>
  <div class="match_price">$4.99</div>
</a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "220", Href: "https://store/app/220", Name: "Half-Life 2", Image: "https://cdn/220.jpg", Price: "$9.99"},
				{AppID: "400", Href: "https://store/app/400", Name: "Portal & Friends", Image: "https://cdn/400.jpg", Price: "$4.99"},
			},
		},
		{
			name:     "empty price div does not steal the next entry's name",
			fragment: `<a data-ds-appid="1" href="/app/1"><div class="match_name">One</div><div class="match_price"></div></a><a data-ds-appid="2" href="/app/2"><div class="match_name">Two</div></a>`,
			expected: []domain.SuggestionEntry{
				{AppID: "1", Href: "/app/1", Name: "One"},
				{AppID: "2", Href: "/app/2", Name: "Two"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractString(tt.fragment))
		})
	}
}

func TestExtractTruncatedMarkup(t *testing.T) {
	entries := ExtractString(`<a data-ds-appid="10" href="/app/10"><div class="match_name">Half-Life</div><img src="a.jp`)
	require.Len(t, entries, 1)
	assert.Equal(t, "Half-Life", entries[0].Name)
	assert.Empty(t, entries[0].Image)
}
