// Package cache keeps portal list responses for offline use and for quick
// page revisits inside one interactive session.
//
// FileStore persists raw JSON bodies under <config dir>/cache with a TTL.
// Fresh entries satisfy Get; expired entries remain readable through
// GetStale so a list can still be shown when the portal is unreachable.
// PageCache is a bounded in-memory LRU keyed by request identity.
package cache
