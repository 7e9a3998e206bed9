// Package steam wraps the three storefront endpoints the bot talks to.
package steam

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
	"github.com/umanagarjuna/steam-bot/internal/bot/remote"
	"github.com/umanagarjuna/steam-bot/internal/bot/suggest"
)

const (
	DefaultStoreURL = "https://store.steampowered.com"
	DefaultAPIURL   = "https://api.steampowered.com"

	newsMaxLength = 300
)

type Fetcher interface {
	Fetch(ctx context.Context, url string, format remote.Format) (remote.Content, error)
}

type Client struct {
	fetcher  Fetcher
	storeURL string
	apiURL   string
}

func NewClient(fetcher Fetcher, storeURL, apiURL string) *Client {
	if storeURL == "" {
		storeURL = DefaultStoreURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{
		fetcher:  fetcher,
		storeURL: strings.TrimRight(storeURL, "/"),
		apiURL:   strings.TrimRight(apiURL, "/"),
	}
}

func (c *Client) SearchURL(term string, s domain.Settings) string {
	q := url.Values{}
	q.Set("term", term)
	q.Set("f", "games")
	q.Set("l", string(s.Language))
	q.Set("cc", string(s.Region))
	return c.storeURL + "/search/suggest?" + q.Encode()
}

func (c *Client) AppDetailsURL(appID string, s domain.Settings) string {
	q := url.Values{}
	q.Set("appids", appID)
	q.Set("l", string(s.Language))
	q.Set("cc", string(s.Region))
	return c.storeURL + "/api/appdetails/?" + q.Encode()
}

func (c *Client) NewsURL(appID string, count int) string {
	q := url.Values{}
	q.Set("appid", appID)
	q.Set("count", strconv.Itoa(count))
	q.Set("max_length", strconv.Itoa(newsMaxLength))
	q.Set("format", "json")
	return c.apiURL + "/ISteamNews/GetNewsForApp/v0002/?" + q.Encode()
}

// Search returns the suggestion entries for term. An upstream failure is
// returned as is; an empty fragment yields an empty slice and no error.
func (c *Client) Search(ctx context.Context, term string, s domain.Settings) ([]domain.SuggestionEntry, error) {
	content, err := c.fetcher.Fetch(ctx, c.SearchURL(term, s), remote.FormatText)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", term, err)
	}
	return suggest.Extract(bytes.NewReader(content.Body)), nil
}

type appDetailsEnvelope map[string]struct {
	Success bool               `json:"success"`
	Data    *domain.AppDetails `json:"data"`
}

func (c *Client) AppDetails(ctx context.Context, appID string, s domain.Settings) (*domain.AppDetails, error) {
	content, err := c.fetcher.Fetch(ctx, c.AppDetailsURL(appID, s), remote.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("app details %s: %w", appID, err)
	}

	var envelope appDetailsEnvelope
	if err := content.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("app details %s: %w", appID, err)
	}
	entry, ok := envelope[appID]
	if !ok || !entry.Success || entry.Data == nil {
		return nil, fmt.Errorf("app details %s: %w", appID, domain.ErrEmptyResult)
	}
	return entry.Data, nil
}

type newsEnvelope struct {
	AppNews struct {
		AppID     int64             `json:"appid"`
		NewsItems []domain.NewsItem `json:"newsitems"`
	} `json:"appnews"`
}

func (c *Client) News(ctx context.Context, appID string, count int) ([]domain.NewsItem, error) {
	content, err := c.fetcher.Fetch(ctx, c.NewsURL(appID, count), remote.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", appID, err)
	}

	var envelope newsEnvelope
	if err := content.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("news %s: %w", appID, err)
	}
	return envelope.AppNews.NewsItems, nil
}

// Download fetches a binary asset such as a screenshot. It is never cached.
func (c *Client) Download(ctx context.Context, assetURL string) ([]byte, error) {
	content, err := c.fetcher.Fetch(ctx, assetURL, remote.FormatNone)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", assetURL, err)
	}
	return content.Body, nil
}
