package instagram

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfilePageURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/janedoe/", ProfilePageURL(DefaultBaseURL, "janedoe"))
	assert.Equal(t, "http://localhost:8080/jane.doe/", ProfilePageURL("http://localhost:8080/", "jane.doe"))
}

func TestEndpointURLs(t *testing.T) {
	urls := EndpointURLs(DefaultBaseURL, "test_user")

	expected := []string{
		"https://www.instagram.com/test_user/?__a=1&__d=dis",
		"https://www.instagram.com/api/v1/users/web_profile_info/?username=test_user",
		"https://www.instagram.com/test_user/?__a=1",
	}
	assert.Equal(t, expected, urls)

	for _, u := range urls {
		_, err := url.Parse(u)
		assert.NoError(t, err)
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		expected bool
	}{
		{"valid simple", "testuser", true},
		{"valid with underscore", "test_user", true},
		{"valid with dot", "test.user", true},
		{"valid with numbers", "user123", true},
		{"valid max length", "a123456789012345678901234567890"[:30], true},
		{"empty", "", false},
		{"too long", "a1234567890123456789012345678901", false},
		{"with space", "test user", false},
		{"with hyphen", "test-user", false},
		{"with at", "@testuser", false},
		{"unicode", "tëst", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidUsername(tt.username))
		})
	}
}

func TestSanitizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"testuser", "testuser"},
		{"@testuser", "testuser"},
		{"testuser/", "testuser"},
		{"  @testuser/ ", "testuser"},
		{"https://www.instagram.com/jane.doe/", "jane.doe"},
		{"instagram.com/jane_doe?hl=en", "jane_doe"},
		{"https://www.instagram.com/p/Cabc123/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeUsername(tt.input))
		})
	}
}
