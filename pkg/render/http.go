package render

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visionboard/pkg/buildinfo"
	"github.com/matzehuels/visionboard/pkg/cache"
	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/httputil"
	"github.com/matzehuels/visionboard/pkg/observability"
)

// DefaultOrigin is the page origin presented to image hosts.
const DefaultOrigin = "http://localhost"

// HTTPLoader fetches images over HTTP.
type HTTPLoader struct {
	client *http.Client
	origin string
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	fetch  httputil.FetchOptions
	logger *log.Logger
}

// HTTPOption configures an HTTPLoader.
type HTTPOption func(*HTTPLoader)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) HTTPOption {
	return func(l *HTTPLoader) { l.client = c }
}

// WithOrigin sets the page origin used for CORS checks.
func WithOrigin(origin string) HTTPOption {
	return func(l *HTTPLoader) { l.origin = strings.TrimRight(origin, "/") }
}

// WithCache caches fetched bytes and CORS approval for ttl.
func WithCache(c cache.Cache, k cache.Keyer, ttl time.Duration) HTTPOption {
	return func(l *HTTPLoader) { l.cache, l.keyer, l.ttl = c, k, ttl }
}

// WithFetchOptions overrides retry and size limits.
func WithFetchOptions(o httputil.FetchOptions) HTTPOption {
	return func(l *HTTPLoader) { l.fetch = o }
}

// WithLoaderLogger sets the logger.
func WithLoaderLogger(lg *log.Logger) HTTPOption {
	return func(l *HTTPLoader) { l.logger = lg }
}

// NewHTTPLoader returns an HTTPLoader. Without a cache nothing is stored.
func NewHTTPLoader(opts ...HTTPOption) *HTTPLoader {
	l := &HTTPLoader{
		client: &http.Client{Timeout: 30 * time.Second},
		origin: DefaultOrigin,
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		ttl:    cache.TTLImage,
	}
	for _, o := range opts {
		o(l)
	}
	if l.logger == nil {
		l.logger = log.New(io.Discard)
	}
	return l
}

// cachedImage is the cache representation of a fetch.
type cachedImage struct {
	Data     []byte `json:"data"`
	Approved bool   `json:"approved"`
}

// Load implements [Loader].
func (l *HTTPLoader) Load(ctx context.Context, rawURL string, cors bool) (*Image, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	key := l.keyer.ImageKey(rawURL, cors)
	hooks := observability.Cache()

	var entry cachedImage
	if err := cache.GetJSON(ctx, l.cache, key, &entry); err == nil {
		hooks.OnCacheHit(ctx, "image")
	} else {
		hooks.OnCacheMiss(ctx, "image")
		entry, err = l.fetchImage(ctx, rawURL, cors)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, l.cache, key, entry, l.ttl); err != nil {
			l.logger.Warn("cache write failed", "url", rawURL, "error", err)
		} else {
			hooks.OnCacheSet(ctx, "image", len(entry.Data))
		}
	}

	img, err := Decode(entry.Data)
	if err != nil {
		return nil, err
	}
	return &Image{Image: img, Approved: entry.Approved}, nil
}

func (l *HTTPLoader) fetchImage(ctx context.Context, rawURL string, cors bool) (cachedImage, error) {
	opts := l.fetch
	opts.Header = opts.Header.Clone()
	if opts.Header == nil {
		opts.Header = http.Header{}
	}
	if opts.Header.Get("User-Agent") == "" {
		opts.Header.Set("User-Agent", buildinfo.UserAgent())
	}
	if cors {
		opts.Header.Set("Origin", l.origin)
	}
	l.logger.Debug("fetching image", "url", rawURL, "cors", cors)
	resp, err := httputil.Fetch(ctx, l.client, rawURL, opts)
	if err != nil {
		if ctx.Err() != nil {
			return cachedImage{}, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", rawURL)
		}
		return cachedImage{}, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", rawURL)
	}
	approved := sameOrigin(rawURL, l.origin) ||
		(cors && allowsOrigin(resp.Header.Get("Access-Control-Allow-Origin"), l.origin))
	return cachedImage{Data: resp.Body, Approved: approved}, nil
}

// allowsOrigin reports whether an Access-Control-Allow-Origin value admits
// origin.
func allowsOrigin(acao, origin string) bool {
	acao = strings.TrimSpace(acao)
	return acao == "*" || (acao != "" && strings.EqualFold(strings.TrimRight(acao, "/"), origin))
}

func sameOrigin(rawURL, origin string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	o, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, o.Scheme) && strings.EqualFold(u.Host, o.Host)
}

var _ Loader = (*HTTPLoader)(nil)
