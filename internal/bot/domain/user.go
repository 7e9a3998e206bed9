package domain

import "strings"

// Language is the storefront language passed as the `l` query parameter.
type Language string

// Region is the storefront country code passed as the `cc` query parameter.
type Region string

const (
	LanguageEnglish Language = "english"
	LanguageRussian Language = "russian"
	LanguageItalian Language = "italian"

	RegionUS Region = "US"
	RegionGB Region = "GB"
	RegionDE Region = "DE"
	RegionRU Region = "RU"
	RegionIT Region = "IT"
)

// Choice pairs a keyboard label with the value it selects.
type Choice[T ~string] struct {
	Label string
	Value T
}

// Languages is the ordered table shown on the /lang keyboard.
var Languages = []Choice[Language]{
	{Label: "\U0001f1fa\U0001f1f8 English", Value: LanguageEnglish},
	{Label: "\U0001f1f7\U0001f1fa Русский", Value: LanguageRussian},
	{Label: "\U0001f1ee\U0001f1f9 Italiano", Value: LanguageItalian},
}

// Regions is the ordered table shown on the /cc keyboard.
var Regions = []Choice[Region]{
	{Label: "\U0001f1fa\U0001f1f8", Value: RegionUS},
	{Label: "\U0001f1ec\U0001f1e7", Value: RegionGB},
	{Label: "\U0001f1e9\U0001f1ea", Value: RegionDE},
	{Label: "\U0001f1f7\U0001f1fa", Value: RegionRU},
	{Label: "\U0001f1ee\U0001f1f9", Value: RegionIT},
}

// Lookup resolves either a keyboard label or a raw value (case-insensitive)
// against a choice table.
func Lookup[T ~string](choices []Choice[T], input string) (T, bool) {
	for _, c := range choices {
		if c.Label == input || strings.EqualFold(string(c.Value), input) {
			return c.Value, true
		}
	}
	var zero T
	return zero, false
}

// Labels returns the keyboard labels of a choice table in order.
func Labels[T ~string](choices []Choice[T]) []string {
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}
	return labels
}

// Settings are the per-user storefront preferences.
type Settings struct {
	Language Language `json:"lang"`
	Region   Region   `json:"cc"`
}

// DefaultSettings is what a user gets on first contact.
func DefaultSettings() Settings {
	return Settings{Language: LanguageEnglish, Region: RegionUS}
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	Language *Language
	Region   *Region
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Region != nil {
		s.Region = *p.Region
	}
	return s
}

// ChatInfo is the last seen chat metadata for a user.
type ChatInfo struct {
	ID        int64  `json:"id"`
	Type      string `json:"type,omitempty"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// UserPreferences is the persisted record for one user.
type UserPreferences struct {
	UserID   int64    `json:"user_id" db:"user_id"`
	ChatInfo ChatInfo `json:"info"`
	Settings Settings `json:"settings"`
}
