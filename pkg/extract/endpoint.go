package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// endpointUserPaths are the response shapes known to carry the user object,
// in the order they are checked
var endpointUserPaths = [][]any{
	{"graphql", "user"},
	{"data", "user"},
}

// DecodeJSON parses a response body into a generic JSON value. Numbers are
// kept as json.Number so large counts and ids survive exactly.
func DecodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// ExtractEndpoint reads a profile from a parsed endpoint response. It returns
// nil when neither graphql.user nor data.user holds an object.
func ExtractEndpoint(payload any) *ProfileRecord {
	for _, path := range endpointUserPaths {
		v, ok := lookupPath(payload, path...)
		if !ok {
			continue
		}
		if user, ok := v.(map[string]any); ok {
			record := Normalize(user)
			return &record
		}
	}
	return nil
}

// lookupPath walks v following string keys through objects and int indexes
// through arrays
func lookupPath(v any, path ...any) (any, bool) {
	cur := v
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			if cur, ok = obj[key]; !ok {
				return nil, false
			}
		case int:
			arr, ok := cur.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil, false
			}
			cur = arr[key]
		default:
			return nil, false
		}
	}
	return cur, cur != nil
}
