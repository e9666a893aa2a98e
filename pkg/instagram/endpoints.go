package instagram

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultBaseURL is the base URL for Instagram
	DefaultBaseURL = "https://www.instagram.com"

	// ProfileInfoPath serves the web profile info endpoint
	ProfileInfoPath = "/api/v1/users/web_profile_info/"

	// maxUsernameLength is the longest handle Instagram accepts
	maxUsernameLength = 30
)

// ProfilePageURL returns the public profile page URL for a user
func ProfilePageURL(baseURL, username string) string {
	return fmt.Sprintf("%s/%s/", strings.TrimRight(baseURL, "/"), url.PathEscape(username))
}

// EndpointURLs returns the JSON endpoints that may serve a user's profile, in
// the order they should be tried
func EndpointURLs(baseURL, username string) []string {
	base := strings.TrimRight(baseURL, "/")
	user := url.PathEscape(username)

	params := url.Values{}
	params.Set("username", username)

	return []string{
		fmt.Sprintf("%s/%s/?__a=1&__d=dis", base, user),
		fmt.Sprintf("%s%s?%s", base, ProfileInfoPath, params.Encode()),
		fmt.Sprintf("%s/%s/?__a=1", base, user),
	}
}

// IsValidUsername checks if a username is valid according to Instagram rules
func IsValidUsername(username string) bool {
	if username == "" || len(username) > maxUsernameLength {
		return false
	}

	// Instagram usernames can only contain letters, numbers, periods, and underscores
	for _, char := range username {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '.' || char == '_') {
			return false
		}
	}

	return true
}

var profileURLPattern = regexp.MustCompile(`(?i)instagram\.com/([a-z0-9_.]+)`)

// Paths on the site that look like handles but are not profiles
var reservedPaths = map[string]bool{
	"p": true, "reel": true, "reels": true, "stories": true,
	"explore": true, "direct": true, "accounts": true, "api": true,
}

// SanitizeUsername turns user input such as "@jane", "jane/" or a profile URL
// into a bare handle. The result is not validated.
func SanitizeUsername(input string) string {
	username := strings.TrimSpace(input)

	if m := profileURLPattern.FindStringSubmatch(username); m != nil {
		if reservedPaths[strings.ToLower(m[1])] {
			return ""
		}
		username = m[1]
	}

	username = strings.TrimPrefix(username, "@")
	return strings.TrimRight(username, "/ ")
}
