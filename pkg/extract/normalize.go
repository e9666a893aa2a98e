package extract

import (
	"encoding/json"
	"math"
	"strconv"
)

// Normalize maps a raw user object, as found in endpoint responses and
// embedded page data, onto a ProfileRecord. Every field is read on its own:
// a missing or mistyped field falls back to that field's default and never
// affects the others.
func Normalize(raw map[string]any) ProfileRecord {
	return ProfileRecord{
		ID:                idField(raw, "id"),
		Username:          stringField(raw, "username"),
		FullName:          stringField(raw, "full_name"),
		Biography:         stringField(raw, "biography"),
		Followers:         edgeCount(raw, "edge_followed_by"),
		Following:         edgeCount(raw, "edge_follow"),
		Posts:             edgeCount(raw, "edge_owner_to_timeline_media"),
		ProfilePictureURL: pictureURL(raw),
		IsVerified:        boolField(raw, "is_verified"),
		IsBusiness:        boolField(raw, "is_business_account"),
		ExternalURL:       stringField(raw, "external_url"),
		IsPrivate:         boolField(raw, "is_private"),
	}
}

func stringField(raw map[string]any, key string) *string {
	if s, ok := raw[key].(string); ok {
		return &s
	}
	return nil
}

// idField accepts ids encoded as strings or numbers
func idField(raw map[string]any, key string) *string {
	switch v := raw[key].(type) {
	case string:
		return &v
	case json.Number:
		return stringPtr(v.String())
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return stringPtr(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return nil
}

func boolField(raw map[string]any, key string) bool {
	b, _ := raw[key].(bool)
	return b
}

// pictureURL prefers the HD picture and skips empty values so the standard
// picture can still be used
func pictureURL(raw map[string]any) *string {
	for _, key := range []string{"profile_pic_url_hd", "profile_pic_url"} {
		if s, ok := raw[key].(string); ok && s != "" {
			return &s
		}
	}
	return nil
}

// edgeCount reads raw[container].count
func edgeCount(raw map[string]any, container string) int64 {
	edge, ok := raw[container].(map[string]any)
	if !ok {
		return 0
	}
	return countValue(edge["count"])
}

// countValue converts a decoded JSON count to a non-negative integer
func countValue(v any) int64 {
	var n int64
	switch c := v.(type) {
	case json.Number:
		if i, err := c.Int64(); err == nil {
			n = i
		} else {
			n = ParseCount(c.String())
		}
	case float64:
		if math.IsNaN(c) || math.IsInf(c, 0) || c >= math.MaxInt64 {
			return 0
		}
		n = int64(c)
	case int:
		n = int64(c)
	case int64:
		n = c
	case string:
		n = ParseCount(c)
	}
	if n < 0 {
		return 0
	}
	return n
}
