package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses this to give each run its own cache namespace.
//
// Example usage:
//
//	// Run-specific keys for a server job
//	runKeyer := NewScopedKeyer(NewDefaultKeyer(), "run:abc123:")
//
//	// Global keys for shared source data
//	globalKeyer := NewDefaultKeyer()
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

// FeatureKey generates a prefixed key for parsed source features.
func (k *ScopedKeyer) FeatureKey(sourceHash string) string {
	return k.prefix + k.inner.FeatureKey(sourceHash)
}

// ResultKey generates a prefixed key for a clipped segment set.
func (k *ScopedKeyer) ResultKey(sourceHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(sourceHash, opts)
}
