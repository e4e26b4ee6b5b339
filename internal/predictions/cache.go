package predictions

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JaimeStill/leafscan/pkg/prediction"
)

// resultCache memoises predictions by upload content and model. A nil
// cache stores nothing.
type resultCache struct {
	lru *lru.Cache[string, *prediction.Result]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, *prediction.Result](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{lru: c}, nil
}

func cacheKey(modelID uuid.UUID, data []byte) string {
	sum := sha256.Sum256(data)
	return modelID.String() + ":" + hex.EncodeToString(sum[:])
}

func (c *resultCache) get(key string) (*prediction.Result, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *resultCache) add(key string, r *prediction.Result) {
	if c == nil {
		return
	}
	c.lru.Add(key, r)
}

func (c *resultCache) purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

func (c *resultCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
