package cli

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/visionboard/pkg/cache"
)

func TestServeLoaderRefusesInternalSources(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(data)
	}))
	defer srv.Close()

	c := New(io.Discard, LogInfo)
	l := c.newServeLoader(cache.NewNullCache(), nil)

	if _, err := l.Load(context.Background(), srv.URL+"/a.png", false); err == nil {
		t.Error("Load(loopback) should fail")
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("loopback server was reached %d times", n)
	}

	for _, src := range []string{path, "file://" + path} {
		if _, err := l.Load(context.Background(), src, false); err == nil {
			t.Errorf("Load(%s) should fail for the API loader", src)
		}
	}
}
