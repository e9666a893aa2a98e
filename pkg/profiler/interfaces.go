package profiler

import (
	"context"

	"igprofile/pkg/extract"
)

// Fetcher defines the HTTP operations the profiler needs
type Fetcher interface {
	ProfilePageURL(username string) string
	EndpointURLs(username string) []string
	FetchPage(ctx context.Context, username string) (extract.RawContent, error)
	FetchEndpoint(ctx context.Context, endpointURL string) (extract.RawContent, error)
}
