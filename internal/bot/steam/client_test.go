package steam

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/remote"
)

type call struct {
	url    string
	format remote.Format
}

type stubFetcher struct {
	calls     []call
	responses map[string]string
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string, format remote.Format) (remote.Content, error) {
	s.calls = append(s.calls, call{url: rawURL, format: format})
	u, _ := url.Parse(rawURL)
	body, ok := s.responses[u.Path]
	if !ok {
		return remote.Content{}, domain.ErrEmptyResult
	}
	return remote.Content{Format: format, Body: []byte(body)}, nil
}

var ruSettings = domain.Settings{Language: domain.LanguageRussian, Region: domain.RegionRU}

func TestURLs(t *testing.T) {
	c := NewClient(nil, "https://store.example/", "https://api.example")

	search, err := url.Parse(c.SearchURL("half life & co", ruSettings))
	require.NoError(t, err)
	assert.Equal(t, "/search/suggest", search.Path)
	assert.Equal(t, "half life & co", search.Query().Get("term"))
	assert.Equal(t, "games", search.Query().Get("f"))
	assert.Equal(t, "russian", search.Query().Get("l"))
	assert.Equal(t, "RU", search.Query().Get("cc"))

	details, err := url.Parse(c.AppDetailsURL("10", ruSettings))
	require.NoError(t, err)
	assert.Equal(t, "store.example", details.Host)
	assert.Equal(t, "/api/appdetails/", details.Path)
	assert.Equal(t, "10", details.Query().Get("appids"))

	news, err := url.Parse(c.NewsURL("10", 3))
	require.NoError(t, err)
	assert.Equal(t, "api.example", news.Host)
	assert.Equal(t, "/ISteamNews/GetNewsForApp/v0002/", news.Path)
	assert.Equal(t, "3", news.Query().Get("count"))
	assert.Equal(t, "300", news.Query().Get("max_length"))
	assert.Equal(t, "json", news.Query().Get("format"))
}

func TestSearch(t *testing.T) {
	f := &stubFetcher{responses: map[string]string{
		"/search/suggest": `<a data-ds-appid="10" href="/app/10"><div class="match_name">Half-Life</div></a>`,
	}}
	c := NewClient(f, "", "")

	entries, err := c.Search(context.Background(), "half", domain.DefaultSettings())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Half-Life", entries[0].Name)
	assert.Equal(t, remote.FormatText, f.calls[0].format)
}

func TestAppDetails(t *testing.T) {
	f := &stubFetcher{responses: map[string]string{
		"/api/appdetails/": `{"10":{"success":true,"data":{"steam_appid":10,"name":"Counter-Strike",
			"platforms":{"windows":true,"mac":true,"linux":false},
			"price_overview":{"currency":"USD","final":999},
			"screenshots":[{"id":0,"path_full":"https://cdn/0.jpg"}]}}}`,
	}}
	c := NewClient(f, "", "")

	details, err := c.AppDetails(context.Background(), "10", domain.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, int64(10), details.AppID)
	assert.Equal(t, "Counter-Strike", details.Name)
	assert.Equal(t, []string{"windows", "mac"}, details.Platforms.Names())
	require.NotNil(t, details.Price)
	assert.Equal(t, int64(999), details.Price.Final)
	assert.Nil(t, details.Metacritic)
	assert.Len(t, details.Screenshots, 1)
	assert.Equal(t, remote.FormatJSON, f.calls[0].format)

	_, err = c.AppDetails(context.Background(), "20", domain.DefaultSettings())
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestAppDetailsUnsuccessful(t *testing.T) {
	f := &stubFetcher{responses: map[string]string{
		"/api/appdetails/": `{"99":{"success":false}}`,
	}}
	c := NewClient(f, "", "")

	_, err := c.AppDetails(context.Background(), "99", domain.DefaultSettings())
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestNews(t *testing.T) {
	f := &stubFetcher{responses: map[string]string{
		"/ISteamNews/GetNewsForApp/v0002/": `{"appnews":{"appid":10,"newsitems":[
			{"gid":"1","title":"Patch","url":"https://n/1","author":"Valve","contents":"<b>fixes</b>","feedlabel":"Community Announcements","date":1700000000}]}}`,
	}}
	c := NewClient(f, "", "")

	items, err := c.News(context.Background(), "10", 3)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Patch", items[0].Title)
	assert.Equal(t, int64(1700000000), items[0].Date)
}

func TestDownloadBypassesCache(t *testing.T) {
	f := &stubFetcher{responses: map[string]string{"/0.jpg": "\xff\xd8"}}
	c := NewClient(f, "", "")

	data, err := c.Download(context.Background(), "https://cdn/0.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("\xff\xd8"), data)
	assert.Equal(t, remote.FormatNone, f.calls[0].format)

	_, err = c.Download(context.Background(), "https://cdn/missing.jpg")
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}
