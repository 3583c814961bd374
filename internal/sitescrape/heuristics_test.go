package sitescrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "hello@luigis.example", ExtractEmail("Reservations: hello@luigis.example or call us"))
	assert.Empty(t, ExtractEmail("no contact info here"))
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Call (312) 555-0142 today", "(312) 555-0142"},
		{"Call 312-555-0142 today", "312-555-0142"},
		{"Call 312.555.0142 today", "312.555.0142"},
		{"Call +1 312 555 0142 today", "+1 312 555 0142"},
		{"open 7 days a week", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractPhone(tt.text), tt.text)
	}
}

func TestExtractAddress(t *testing.T) {
	assert.Equal(t, "12 Oak Street, Chicago, IL 60601",
		ExtractAddress("Visit us at 12 Oak Street, Chicago, IL 60601 for dinner"))
	assert.Equal(t, "4501 N Milwaukee Ave",
		ExtractAddress("4501 N Milwaukee Ave is our home"))
	assert.Empty(t, ExtractAddress("somewhere downtown"))
}

func TestCleanBusinessName(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Luigi's Trattoria | Home", "Luigi's Trattoria"},
		{"Luigi's Trattoria - Official Site", "Luigi's Trattoria"},
		{"Luigi's Trattoria | Menu | Home", "Luigi's Trattoria"},
		{"Luigi's Trattoria", "Luigi's Trattoria"},
		{"  Luigi's  ", "Luigi's"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanBusinessName(tt.title), tt.title)
	}
}

func TestSocialPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.facebook.com/luigis", "facebook"},
		{"https://instagram.com/luigis", "instagram"},
		{"https://x.com/luigis", "twitter"},
		{"https://m.facebook.com/luigis", "facebook"},
		{"https://luigis.example/about", ""},
		{"/relative/path", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SocialPlatform(tt.url), tt.url)
	}
}
