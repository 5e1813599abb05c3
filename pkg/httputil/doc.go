// Package httputil provides the HTTP plumbing used to fetch board images.
//
// # Fetch
//
// [Fetch] performs a GET, reads the body up to a size limit and reports
// status and headers. Transient failures are retried:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Every attempt is reported to the observability HTTP hooks.
//
//	resp, err := httputil.Fetch(ctx, client, url, httputil.FetchOptions{
//	    Header: http.Header{"Origin": {"http://localhost"}},
//	})
//
// # Retry
//
// [Retry] is the underlying loop: it retries only errors wrapped with
// [RetryableError] and doubles the delay after each failed attempt.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return httputil.Retryable(doSomething())
//	})
//
// # Public-only clients
//
// [NewPublicClient] refuses to connect to loopback, private and link-local
// addresses. Use it wherever image URLs come from remote users.
package httputil
