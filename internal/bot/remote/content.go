package remote

import (
	"encoding/json"
	"fmt"

	"github.com/umanagarjuna/steam-bot/internal/bot/domain"
)

// Format selects how a response body is decoded. FormatNone fetches raw bytes
// and is never cached.
type Format int

const (
	FormatNone Format = iota
	FormatRaw
	FormatText
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "none"
	}
}

// Content is a fetched body together with the format it was fetched in.
type Content struct {
	Format Format
	Body   []byte
}

func (c Content) Empty() bool {
	return len(c.Body) == 0
}

func (c Content) Text() string {
	return string(c.Body)
}

// Decode unmarshals a JSON body into v.
func (c Content) Decode(v any) error {
	if err := json.Unmarshal(c.Body, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return nil
}

// Validate checks that the body is usable for its format.
func (c Content) Validate() error {
	if c.Empty() {
		return domain.ErrEmptyResult
	}
	if c.Format == FormatJSON && !json.Valid(c.Body) {
		return fmt.Errorf("%w: malformed json body", domain.ErrDecode)
	}
	return nil
}
