package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAppID(t *testing.T) {
	assert.NoError(t, ValidateAppID("70"))
	assert.NoError(t, ValidateAppID("1234567"))

	for _, id := range []string{"", "abc", "70a", "-1", " 70", "７０"} {
		assert.Error(t, ValidateAppID(id), id)
	}
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://store.steampowered.com", false},
		{"http with port and path", "http://localhost:8080/steam", false},
		{"empty", "", true},
		{"no scheme", "store.steampowered.com", true},
		{"ftp", "ftp://store.steampowered.com", true},
		{"no host", "https://", true},
		{"query", "https://store.steampowered.com/?l=english", true},
		{"unparsable", "http://[::1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
