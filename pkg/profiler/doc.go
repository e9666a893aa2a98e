// Package profiler looks up public profile metadata for usernames.
//
// A Profiler plans the requests for a username (the JSON endpoints and the
// public profile page), orders them by the pipeline's source priority and
// fetches them lazily: the next request is only issued when every strategy
// missed on the content fetched so far. Requests are spaced by a shared
// limiter. Fetch failures are skipped and appended to the failure message when
// no source yields a profile.
//
// Usage:
//
//	p, err := profiler.New(cfg, log)
//	if err != nil {
//	    return err
//	}
//	reports := p.LookupAll(ctx, []string{"cristiano", "therock"})
//
// Probe runs the endpoint group and the page group separately so their
// results can be compared.
package profiler
