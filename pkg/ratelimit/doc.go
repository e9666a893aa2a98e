// Package ratelimit paces requests sent to the profile site.
//
// The profiler shares one Limiter between all workers so that the configured
// delay between requests holds across concurrent lookups:
//
//	limiter := ratelimit.New(cfg.Delay.BetweenRequests)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
//	// issue request
//
// Interval enforces a minimum spacing between request starts. Unlimited is
// used when the delay is zero.
package ratelimit
