package domain

// SuggestionEntry is one row of the storefront search-suggest fragment.
type SuggestionEntry struct {
	AppID string `json:"appid"`
	Name  string `json:"name"`
	Href  string `json:"href"`
	Image string `json:"image,omitempty"`
	Price string `json:"price,omitempty"`
}

// AppDetails is the `data` object of the appdetails endpoint.
type AppDetails struct {
	AppID        int64          `json:"steam_appid"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	IsFree       bool           `json:"is_free"`
	AboutTheGame string         `json:"about_the_game"`
	HeaderImage  string         `json:"header_image"`
	Publishers   []string       `json:"publishers"`
	Platforms    Platforms      `json:"platforms"`
	Genres       []Genre        `json:"genres"`
	ReleaseDate  ReleaseDate    `json:"release_date"`
	Screenshots  []Screenshot   `json:"screenshots"`
	Metacritic   *Metacritic    `json:"metacritic,omitempty"`
	Price        *PriceOverview `json:"price_overview,omitempty"`
	Recommended  *Recommended   `json:"recommendations,omitempty"`
}

type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// Names lists the supported platforms in a stable order.
func (p Platforms) Names() []string {
	var names []string
	if p.Windows {
		names = append(names, "windows")
	}
	if p.Mac {
		names = append(names, "mac")
	}
	if p.Linux {
		names = append(names, "linux")
	}
	return names
}

type Genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type ReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

type Screenshot struct {
	ID            int64  `json:"id"`
	PathThumbnail string `json:"path_thumbnail"`
	PathFull      string `json:"path_full"`
}

type Metacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}

// PriceOverview amounts are in cents.
type PriceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"`
	Final           int64  `json:"final"`
	DiscountPercent int    `json:"discount_percent"`
	FinalFormatted  string `json:"final_formatted"`
}

type Recommended struct {
	Total int64 `json:"total"`
}

// NewsItem is one entry of the GetNewsForApp response.
type NewsItem struct {
	GID       string `json:"gid"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Contents  string `json:"contents"`
	FeedLabel string `json:"feedlabel"`
	FeedName  string `json:"feedname"`
	Date      int64  `json:"date"`
}
