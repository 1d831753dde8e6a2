package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful in server mode where different upstream schema sources
// need separate cache namespaces in a shared backend.
//
// Example usage:
//
//	// Keys scoped to one upstream source
//	srcKeyer := NewScopedKeyer(NewDefaultKeyer(), "src:prod:")
//
//	// Unscoped keys for a single-source CLI run
//	keyer := NewDefaultKeyer()
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

// SchemaKey generates a prefixed key for schema caching.
func (k *ScopedKeyer) SchemaKey(sourceHash string, opts SchemaKeyOpts) string {
	return k.prefix + k.inner.SchemaKey(sourceHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(schemaHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(schemaHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
