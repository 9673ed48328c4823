// Package cache provides a TTL cache for projector status queries.
//
// StatusCache is the main entry point: a read-through layer keyed by
// target and command, with singleflight deduplication of concurrent
// misses and per-command TTL policy. Set commands are never cached and
// should invalidate their matching query key.
package cache
