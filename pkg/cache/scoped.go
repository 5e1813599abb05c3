package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Cached CORS approval
// depends on the Origin sent, so image keys are scoped per origin:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "origin:"+origin+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ImageKey implements [Keyer].
func (k *ScopedKeyer) ImageKey(url string, cors bool) string {
	return k.prefix + k.inner.ImageKey(url, cors)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(boardHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(boardHash, opts)
}
