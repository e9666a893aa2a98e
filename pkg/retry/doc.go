// Package retry retries fetches that fail for transient reasons.
//
// Whether an error is worth retrying is decided by DefaultRetryIf: typed
// errors from igprofile/pkg/errors are retried when their type is network,
// rate_limit or server_error; auth and not_found fail immediately.
//
//	cfg := retry.FromConfig(appCfg.Retry, log)
//	body, err := retry.DoWithResult(ctx, func() (string, error) {
//		return fetch(url)
//	}, cfg)
package retry
