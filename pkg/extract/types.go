package extract

import "fmt"

// ContentKind declares how a RawContent body should be read
type ContentKind string

const (
	KindHTML ContentKind = "html"
	KindJSON ContentKind = "json"
)

// ParseKind converts a user supplied kind name into a ContentKind
func ParseKind(s string) (ContentKind, error) {
	switch ContentKind(s) {
	case KindHTML, KindJSON:
		return ContentKind(s), nil
	default:
		return "", fmt.Errorf("unknown content kind %q", s)
	}
}

// Strategy method tags reported in a successful Result
const (
	MethodJSONEndpoint = "JSON_Endpoint"
	MethodSharedData   = "SharedData"
	MethodMetaTags     = "MetaTags"
)

// RawContent is a response body handed to the pipeline by whoever fetched it.
// Origin is informational (usually the request URL) and is echoed back in the
// Result as its Source.
type RawContent struct {
	Kind   ContentKind `json:"kind"`
	Body   string      `json:"body"`
	Origin string      `json:"origin,omitempty"`
}

// ProfileRecord is the canonical profile produced by every strategy.
// Optional text fields are nil when the source did not provide them.
type ProfileRecord struct {
	ID                *string `json:"id"`
	Username          *string `json:"username"`
	FullName          *string `json:"full_name"`
	Biography         *string `json:"biography"`
	Followers         int64   `json:"followers"`
	Following         int64   `json:"following"`
	Posts             int64   `json:"posts"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	IsVerified        bool    `json:"is_verified"`
	IsBusiness        bool    `json:"is_business"`
	ExternalURL       *string `json:"external_url"`
	IsPrivate         bool    `json:"is_private"`
}

// Result is the outcome of a pipeline run. Exactly one of the success fields
// (Method, Source, Data) or Error is populated, selected by Success.
type Result struct {
	Success bool           `json:"success"`
	Method  string         `json:"method,omitempty"`
	Source  string         `json:"source,omitempty"`
	Data    *ProfileRecord `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Succeeded builds a successful Result
func Succeeded(method, source string, data ProfileRecord) Result {
	return Result{Success: true, Method: method, Source: source, Data: &data}
}

// Failed builds a failed Result
func Failed(msg string) Result {
	return Result{Error: msg}
}

// StringValue dereferences an optional field, returning "" for nil
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPtr(s string) *string {
	return &s
}
