// Package cache defines the content cache used to persist computed schema
// metadata between pipeline runs.
//
// Entries are byte blobs written through the io.WriteCloser returned by Put;
// an entry becomes visible when that writer is closed. Backends register
// themselves in an init function, so import the one you need:
//
//	import _ "github.com/kbukum/dataprep/cache/redis"
//
//	c, err := cache.New(cache.Config{Provider: cache.ProviderRedis, ...}, log)
package cache
