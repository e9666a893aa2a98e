// Package instagram fetches Instagram profile pages and JSON endpoint
// responses and hands them back as extract.RawContent.
//
// The client only transports bytes. It sets browser-like headers, adds the
// web app headers (X-IG-App-ID, X-ASBD-ID, X-Requested-With) to JSON
// requests, maps failing HTTP statuses to typed errors and retries the ones
// that are transient. Reading a profile out of the bodies is the job of
// package extract.
//
//	client := instagram.NewClient(cfg.Instagram, retry.FromConfig(cfg.Retry, log), log)
//	for _, u := range client.EndpointURLs("janedoe") {
//	    raw, err := client.FetchEndpoint(ctx, u)
//	    ...
//	}
//	page, err := client.FetchPage(ctx, "janedoe")
package instagram
