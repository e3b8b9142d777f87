package cache

import (
	"context"
	"io"
)

// Key identifies a cache entry.
type Key interface {
	Key() string
}

// StringKey is a Key holding its own value.
type StringKey string

// Key implements Key.
func (k StringKey) Key() string { return string(k) }

// TransformationMetadataKey is the key under which writer nodes store the
// final metadata of a transformation step.
type TransformationMetadataKey struct {
	StepID string
}

// Key implements Key.
func (k TransformationMetadataKey) Key() string {
	return "transformation-metadata_" + k.StepID
}

// TimeToLive selects an expiration policy.
type TimeToLive int

const (
	TTLDefault TimeToLive = iota
	TTLShort
	TTLLong
	TTLImmediate
)

func (t TimeToLive) String() string {
	switch t {
	case TTLShort:
		return "short"
	case TTLLong:
		return "long"
	case TTLImmediate:
		return "immediate"
	default:
		return "default"
	}
}

// ContentCache stores byte content under keys with a time to live.
type ContentCache interface {
	// Put returns a sink for the entry; the entry is stored when the sink
	// is closed.
	Put(ctx context.Context, key Key, ttl TimeToLive) (io.WriteCloser, error)
	// Get returns the content of a live entry, or a NOT_FOUND error.
	Get(ctx context.Context, key Key) (io.ReadCloser, error)
	// Has reports whether a live entry exists.
	Has(ctx context.Context, key Key) bool
	// Evict removes an entry. Missing entries are not an error.
	Evict(ctx context.Context, key Key) error
}
