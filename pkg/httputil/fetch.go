package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/visionboard/pkg/observability"
)

// DefaultMaxBody caps response bodies at 32 MiB.
const DefaultMaxBody = 32 << 20

// FetchOptions controls [Fetch].
type FetchOptions struct {
	Header   http.Header
	Attempts int           // default 3
	Delay    time.Duration // initial backoff, default 500ms
	MaxBody  int64         // default DefaultMaxBody
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetch GETs url, retrying network errors, 5xx and 429 responses with
// exponential backoff. Other non-2xx statuses fail with *[StatusError]
// immediately. A nil client means http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string, opts FetchOptions) (*Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Delay <= 0 {
		opts.Delay = 500 * time.Millisecond
	}
	if opts.MaxBody <= 0 {
		opts.MaxBody = DefaultMaxBody
	}

	var out *Response
	err := Retry(ctx, opts.Attempts, opts.Delay, func() error {
		resp, err := fetchOnce(ctx, client, url, opts)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func fetchOnce(ctx context.Context, client *http.Client, url string, opts FetchOptions) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range opts.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		if ctx.Err() != nil || errors.Is(err, ErrNonPublicAddress) {
			return nil, err
		}
		return nil, Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		serr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, Retryable(serr)
		}
		return nil, serr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxBody+1))
	if err != nil {
		return nil, Retryable(err)
	}
	if int64(len(body)) > opts.MaxBody {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, opts.MaxBody)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}
