package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	followersPattern = regexp.MustCompile(`(?i)(\d[\d,.]*[KMB]?)\s+Followers\b`)
	followingPattern = regexp.MustCompile(`(?i)(\d[\d,.]*[KMB]?)\s+Following\b`)
	postsPattern     = regexp.MustCompile(`(?i)(\d[\d,.]*[KMB]?)\s+Posts\b`)
)

// ExtractMetaTags reads a profile from the OpenGraph tags of a profile page.
// og:title must be present and non-empty, otherwise the page is not treated
// as carrying profile metadata and nil is returned.
func ExtractMetaTags(doc *goquery.Document) (record *ProfileRecord) {
	defer func() {
		if recover() != nil {
			record = nil
		}
	}()

	if doc == nil {
		return nil
	}

	title, ok := metaContent(doc, "og:title")
	if !ok || title == "" {
		return nil
	}

	record = &ProfileRecord{Username: stringPtr(displayName(title))}

	if desc, ok := metaContent(doc, "og:description"); ok {
		record.Biography = stringPtr(desc)
		record.Followers = matchCount(followersPattern, desc)
		record.Following = matchCount(followingPattern, desc)
		record.Posts = matchCount(postsPattern, desc)
	}

	if image, ok := metaContent(doc, "og:image"); ok && image != "" {
		record.ProfilePictureURL = stringPtr(image)
	}

	return record
}

func metaContent(doc *goquery.Document, property string) (string, bool) {
	return doc.Find(`meta[property="` + property + `"]`).First().Attr("content")
}

// displayName strips the " (@handle)" decoration from a profile title
func displayName(title string) string {
	if i := strings.Index(title, " (@"); i >= 0 {
		title = title[:i]
	}
	title = strings.TrimSuffix(title, ")")
	return strings.TrimSpace(title)
}

func matchCount(pattern *regexp.Regexp, text string) int64 {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return ParseCount(m[1])
}
