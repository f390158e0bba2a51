package cache

import "strings"

// prefixKeyer namespaces another keyer's keys.
type prefixKeyer struct {
	inner  Keyer
	prefix string
}

// WithPrefix namespaces inner's keys under prefix, so deployments sharing one
// Redis or Mongo backend never read each other's entries. A colon is added
// after the prefix when missing.
func WithPrefix(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	if !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return prefixKeyer{inner: inner, prefix: prefix}
}

// NewKeyer returns the keyer configured by opts.
func NewKeyer(opts Options) Keyer {
	return WithPrefix(NewDefaultKeyer(), opts.Prefix)
}

func (k prefixKeyer) RunKey(scenarioHash string, opts RunKeyOpts) string {
	return k.prefix + k.inner.RunKey(scenarioHash, opts)
}

func (k prefixKeyer) ArtifactKey(runHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(runHash, opts)
}
