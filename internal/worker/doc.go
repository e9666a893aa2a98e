// Package worker runs profile lookups for many usernames on a bounded number
// of goroutines. Job starts are paced by a shared rate limiter and Map returns
// results in input order.
package worker
