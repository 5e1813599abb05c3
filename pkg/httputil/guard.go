package httputil

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	verrors "github.com/matzehuels/visionboard/pkg/errors"
)

// ErrNonPublicAddress is returned when a connection would reach a loopback,
// private, link-local or otherwise non-routable address.
var ErrNonPublicAddress = errors.New("non-public address")

// reservedPrefixes are ranges netip has no predicate for.
var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("64:ff9b::/96"), // NAT64 can embed any IPv4 address
}

// IsPublicAddr reports whether a is a globally routable unicast address.
func IsPublicAddr(a netip.Addr) bool {
	a = a.Unmap()
	if !a.IsValid() || a.IsLoopback() || a.IsPrivate() || a.IsUnspecified() ||
		a.IsLinkLocalUnicast() || a.IsMulticast() {
		return false
	}
	for _, p := range reservedPrefixes {
		if p.Contains(a) {
			return false
		}
	}
	return true
}

// PublicOnlyControl is a [net.Dialer] Control hook that refuses non-public
// destinations. It runs after name resolution, so it also covers DNS names
// and redirects that point inside the network.
func PublicOnlyControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	a, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("dial %s: %w", address, err)
	}
	if !IsPublicAddr(a) {
		return fmt.Errorf("dial %s: %w", address, ErrNonPublicAddress)
	}
	return nil
}

// NewPublicClient returns an HTTP client that only connects to public
// addresses. Proxies from the environment are ignored, since a proxy would
// hide the real destination from the dial guard.
func NewPublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   PublicOnlyControl,
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = nil
	t.DialContext = dialer.DialContext
	return &http.Client{Timeout: timeout, Transport: t}
}

// CheckPublicURL rejects URLs whose host is localhost or a literal
// non-public IP. Names are not resolved here; [NewPublicClient] catches
// those when the image is fetched.
func CheckPublicURL(rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return verrors.Wrap(verrors.ErrCodeInvalidURL, err, "malformed URL")
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return verrors.New(verrors.ErrCodeInvalidURL, "URL host %q is not public", host)
	}
	if a, err := netip.ParseAddr(host); err == nil && !IsPublicAddr(a) {
		return verrors.New(verrors.ErrCodeInvalidURL, "URL host %q is not public", host)
	}
	return nil
}

// CheckPublicURLs applies [CheckPublicURL] to every non-blank entry.
func CheckPublicURLs(urls []string) error {
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if err := CheckPublicURL(u); err != nil {
			return err
		}
	}
	return nil
}
