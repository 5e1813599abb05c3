package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Origin-Seen", r.Header.Get("Origin"))
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	resp, err := Fetch(context.Background(), srv.Client(), srv.URL, FetchOptions{
		Header: http.Header{"Origin": {"http://board.local"}},
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(resp.Body) != "hello" || resp.StatusCode != 200 {
		t.Errorf("resp = %d %q", resp.StatusCode, resp.Body)
	}
	if got := resp.Header.Get("X-Origin-Seen"); got != "http://board.local" {
		t.Errorf("Origin header not sent: %q", got)
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := Fetch(context.Background(), srv.Client(), srv.URL, FetchOptions{Delay: time.Millisecond})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(resp.Body) != "ok" || calls.Load() != 3 {
		t.Errorf("body=%q calls=%d", resp.Body, calls.Load())
	}
}

func TestFetchClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL, FetchOptions{Delay: time.Millisecond})
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != 404 {
		t.Fatalf("err = %v, want 404 StatusError", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 retried %d times", calls.Load())
	}
}

func TestFetchBodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 100))
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL, FetchOptions{MaxBody: 10}); err == nil {
		t.Error("oversized body should fail")
	}
}

func TestRetryNonRetryable(t *testing.T) {
	calls := 0
	sentinel := errors.New("fatal")
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return sentinel
	})
	if err != sentinel || calls != 1 {
		t.Errorf("err=%v calls=%d", err, calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return Retryable(errors.New("flaky"))
	})
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}
