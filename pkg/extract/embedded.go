package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/titanous/json5"
	"igprofile/pkg/errors"
)

// ScanMode selects how the end of the embedded object literal is found
type ScanMode string

const (
	// ScanMinimal takes everything up to the first "};" after the marker.
	// A "};" inside a string value ends the match early and the script is
	// then treated as a miss.
	ScanMinimal ScanMode = "minimal"

	// ScanBalanced matches braces while skipping over string literals
	ScanBalanced ScanMode = "balanced"
)

// ParseScanMode converts a configuration value into a ScanMode
func ParseScanMode(s string) (ScanMode, error) {
	switch ScanMode(s) {
	case ScanMinimal, ScanBalanced:
		return ScanMode(s), nil
	case "":
		return ScanMinimal, nil
	default:
		return "", errors.New(errors.ErrorTypeParsing, "invalid embedded scan mode %q", s)
	}
}

// EmbeddedOptions configures ExtractEmbeddedData
type EmbeddedOptions struct {
	Scan ScanMode
}

const sharedDataMarker = "window._sharedData"

var (
	minimalSharedData = regexp.MustCompile(`window\._sharedData\s*=\s*(\{.+?\});`)
	sharedDataAssign  = regexp.MustCompile(`window\._sharedData\s*=\s*\{`)
)

var sharedDataUserPath = []any{"entry_data", "ProfilePage", 0, "graphql", "user"}

// ExtractEmbeddedData looks through the page's inline scripts for the
// window._sharedData assignment and reads the profile user object from it.
// The first script that yields a user wins. When none does, the returned
// error describes the last miss.
func ExtractEmbeddedData(doc *goquery.Document, opts EmbeddedOptions) (*ProfileRecord, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrorTypeExtraction, "no document")
	}

	var (
		record *ProfileRecord
		miss   error = errors.New(errors.ErrorTypeExtraction, "no inline script assigns %s", sharedDataMarker)
	)

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if _, external := s.Attr("src"); external {
			return true
		}
		text := s.Text()
		if !strings.Contains(text, sharedDataMarker) {
			return true
		}

		user, err := sharedDataUser(text, opts.Scan)
		if err != nil {
			miss = err
			return true
		}
		normalized := Normalize(user)
		record = &normalized
		return false
	})

	if record != nil {
		return record, nil
	}
	return nil, miss
}

func sharedDataUser(script string, mode ScanMode) (map[string]any, error) {
	literal, ok := sharedDataLiteral(script, mode)
	if !ok {
		return nil, errors.New(errors.ErrorTypeExtraction, "%s is not assigned an object literal", sharedDataMarker)
	}

	data, err := decodeLiteral(literal)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, "%s: %v", sharedDataMarker, err)
	}

	v, ok := lookupPath(data, sharedDataUserPath...)
	if !ok {
		return nil, errors.New(errors.ErrorTypeExtraction, "%s has no entry_data.ProfilePage[0].graphql.user", sharedDataMarker)
	}
	user, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrorTypeExtraction, "%s user is not an object", sharedDataMarker)
	}
	return user, nil
}

func sharedDataLiteral(script string, mode ScanMode) (string, bool) {
	if mode == ScanBalanced {
		loc := sharedDataAssign.FindStringIndex(script)
		if loc == nil {
			return "", false
		}
		return balancedObject(script[loc[1]-1:])
	}

	m := minimalSharedData.FindStringSubmatch(script)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// balancedObject returns the object literal at the start of s, which must
// begin with '{'. Braces inside single or double quoted strings are ignored.
func balancedObject(s string) (string, bool) {
	depth := 0
	var quote byte
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// decodeLiteral parses strict JSON first and retries with json5 for object
// literals that use single quotes, unquoted keys or trailing commas
func decodeLiteral(literal string) (any, error) {
	v, err := DecodeJSON([]byte(literal))
	if err == nil {
		return v, nil
	}

	var lenient any
	if err5 := json5.Unmarshal([]byte(literal), &lenient); err5 != nil {
		return nil, err
	}
	return lenient, nil
}
