package cache

// ScopedKeyer wraps a Keyer with a prefix, giving several deployments that
// share one Redis instance separate namespaces.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(n int) string {
	return k.prefix + k.inner.ResultKey(n)
}

// TraceKey generates a prefixed trace key.
func (k *ScopedKeyer) TraceKey(n, index int, format string) string {
	return k.prefix + k.inner.TraceKey(n, index, format)
}
