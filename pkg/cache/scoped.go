package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several crawler processes
// sharing one Redis instance can cooperate without colliding on keys (for
// example, one prefix per ODE host being crawled).
//
// Example usage:
//
//	// Mars-crawl keys, isolated from a concurrent Moon crawl
//	marsKeyer := NewScopedKeyer(NewDefaultKeyer(), "mars:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// PageKey generates a prefixed key for record page caching.
func (k *ScopedKeyer) PageKey(fingerprint string, page int) string {
	return k.prefix + k.inner.PageKey(fingerprint, page)
}

// DescriptorKey generates a prefixed key for collection descriptor caching.
func (k *ScopedKeyer) DescriptorKey(fingerprint string) string {
	return k.prefix + k.inner.DescriptorKey(fingerprint)
}
