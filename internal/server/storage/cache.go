package storage

import (
	"context"
	"time"

	"github.com/coocood/freecache"
)

// CacheObserver is told about download URL cache lookups.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

type noopObserver struct{}

func (noopObserver) CacheHit()  {}
func (noopObserver) CacheMiss() {}

// CachingPresigner reuses download URLs while they still have at least half
// of their lifetime left. Upload URLs are never cached.
type CachingPresigner struct {
	next  Presigner
	cache *freecache.Cache
	ttl   int
	obs   CacheObserver
}

// NewCachingPresigner wraps next with a sizeMB freecache. A size of zero or
// a TTL under one second returns next unchanged.
func NewCachingPresigner(next Presigner, sizeMB int, expiry time.Duration, obs CacheObserver) Presigner {
	ttl := int((expiry / 2).Seconds())
	if sizeMB <= 0 || ttl < 1 {
		return next
	}
	if obs == nil {
		obs = noopObserver{}
	}
	return &CachingPresigner{
		next:  next,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
		ttl:   ttl,
		obs:   obs,
	}
}

func (c *CachingPresigner) PresignPut(ctx context.Context, key string) (string, error) {
	return c.next.PresignPut(ctx, key)
}

func (c *CachingPresigner) PresignGet(ctx context.Context, key string) (string, error) {
	if v, err := c.cache.Get([]byte(key)); err == nil {
		c.obs.CacheHit()
		return string(v), nil
	}
	c.obs.CacheMiss()

	url, err := c.next.PresignGet(ctx, key)
	if err != nil {
		return "", err
	}
	// a full cache only costs a re-sign later
	_ = c.cache.Set([]byte(key), []byte(url), c.ttl)
	return url, nil
}

// EntryCount reports how many URLs are cached.
func (c *CachingPresigner) EntryCount() int64 {
	return c.cache.EntryCount()
}
