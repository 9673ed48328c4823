package cache

import "time"

// Policy configures status caching behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when no per-command TTL applies.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Per-command TTLs are clamped to it.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration

	// PerCommand overrides the TTL for specific command names, e.g.
	// {"LAMP": time.Minute}. Slow-moving values tolerate longer TTLs than
	// power state.
	PerCommand map[string]time.Duration
}

// DefaultPolicy returns the default caching policy.
// DefaultTTL: 2 seconds, MaxTTL: 1 minute, lamp hours cached for 30 seconds.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: 2 * time.Second,
		MaxTTL:     time.Minute,
		PerCommand: map[string]time.Duration{
			"LAMP": 30 * time.Second,
			"INST": time.Minute,
			"NAME": time.Minute,
		},
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use for a command name, applying the
// per-command override and clamping to MaxTTL.
func (p Policy) EffectiveTTL(name string) time.Duration {
	ttl := p.DefaultTTL
	if override, ok := p.PerCommand[name]; ok && override > 0 {
		ttl = override
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
