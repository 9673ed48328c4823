package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/pjlink/protocol"
)

// FetchFunc performs the real status query on a cache miss.
type FetchFunc func(ctx context.Context) (string, error)

// StatusCache is a read-through cache for projector status queries.
// Concurrent misses for the same key are collapsed into one fetch, so a
// burst of power-state polls costs a single round trip to the device.
//
// Only queries belong in the cache; after a set command the caller must
// Invalidate the matching query key.
type StatusCache struct {
	cache  Cache
	keyer  Keyer
	policy Policy
	group  singleflight.Group
}

// NewStatusCache creates a status cache. A nil keyer selects DefaultKeyer.
func NewStatusCache(c Cache, keyer Keyer, policy Policy) *StatusCache {
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	return &StatusCache{
		cache:  c,
		keyer:  keyer,
		policy: policy,
	}
}

// GetValue returns the cached value for a query, fetching on miss. The
// second return reports whether the value came from the cache. Errors are
// never cached.
func (s *StatusCache) GetValue(ctx context.Context, target string, cmd protocol.Command, fetch FetchFunc) (string, bool, error) {
	// Set commands and disabled policies bypass the cache entirely.
	if !cmd.IsQuery() || !s.policy.ShouldCache() {
		value, err := fetch(ctx)
		return value, false, err
	}

	key := s.keyer.Key(target, cmd)
	if err := ValidateKey(key); err != nil {
		value, ferr := fetch(ctx)
		return value, false, ferr
	}

	if value, ok := s.cache.Get(ctx, key); ok {
		return value, true, nil
	}

	// Collapse concurrent fetches for the same key into one round trip.
	result, err, _ := s.group.Do(key, func() (any, error) {
		if value, ok := s.cache.Get(ctx, key); ok {
			return value, nil
		}
		value, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		if ttl := s.policy.EffectiveTTL(cmd.Name); ttl > 0 {
			_ = s.cache.Set(ctx, key, value, ttl)
		}
		return value, nil
	})
	if err != nil {
		return "", false, err
	}
	return result.(string), false, nil
}

// Invalidate drops the cached query value matching cmd's name. Call it
// after a successful set command so the next query observes fresh state.
func (s *StatusCache) Invalidate(ctx context.Context, target string, cmd protocol.Command) {
	query := protocol.Command{Class: cmd.Class, Name: cmd.Name, Param: "?"}
	_ = s.cache.Delete(ctx, s.keyer.Key(target, query))
}
