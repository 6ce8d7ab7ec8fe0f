package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"workpack/internal/diag"
	"workpack/internal/memo"
	"workpack/internal/resolve"
	"workpack/internal/source"
)

// CachingResolver memoizes successful resolutions in front of a real
// resolver: an in-memory LRU for this generation, optionally backed by the
// disk cache across runs. Failed resolutions are never cached, so every run
// re-probes them and re-emits their diagnostics.
type CachingResolver struct {
	inner resolve.Resolver
	mem   *memo.Cache[resolve.Result]
	disk  *DiskCache
}

// NewCachingResolver wraps inner. mem may be nil (no in-memory layer), disk
// may be nil (no persistence).
func NewCachingResolver(inner resolve.Resolver, mem *memo.Cache[resolve.Result], disk *DiskCache) *CachingResolver {
	return &CachingResolver{inner: inner, mem: mem, disk: disk}
}

// Resolve implements resolve.Resolver.
func (c *CachingResolver) Resolve(origin, request string, kind resolve.Kind, issue source.Span, sev diag.Severity, rep diag.Reporter) resolve.Result {
	key := resolveKey(origin, request, kind)

	if c.mem != nil {
		if res, ok := c.mem.Get(key); ok {
			return res
		}
	}
	if c.disk != nil {
		var payload ResolvePayload
		if ok, err := c.disk.Get(key, &payload); ok && err == nil {
			if res := payloadToResult(&payload); res.Resolved() {
				if c.mem != nil {
					c.mem.Add(key, res)
				}
				return res
			}
		}
	}

	res := c.inner.Resolve(origin, request, kind, issue, sev, rep)
	if res.Resolved() {
		if c.mem != nil {
			c.mem.Add(key, res)
		}
		if c.disk != nil {
			// best effort: кэш — ускорение, не источник истины
			_ = c.disk.Put(key, resultToPayload(res))
		}
	}
	return res
}

// resolveKey digests the inputs resolution depends on.
func resolveKey(origin, request string, kind resolve.Kind) memo.Key {
	h := sha256.New()
	writeStr := func(s string) {
		var n [4]byte
		binary.LittleEndian.PutUint32(n[:], uint32(len(s)))
		h.Write(n[:])
		h.Write([]byte(s))
	}
	writeStr(origin)
	writeStr(request)
	h.Write([]byte{byte(kind)})

	var key memo.Key
	copy(key[:], h.Sum(nil))
	return key
}
