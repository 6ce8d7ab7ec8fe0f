package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"workpack/internal/memo"
	"workpack/internal/resolve"
)

// Current schema version - increment when ResolvePayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists successful resolve results between runs, keyed by the
// request digest. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// ResolvePayload is the on-disk form of one resolve result.
type ResolvePayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// Targets (parallel slices, spans not cached)
	Paths    []string
	External []bool
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a disk cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key memo.Key) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "resolve" — для удобства читаемости/очистки.
	return filepath.Join(c.dir, "resolve", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key memo.Key, payload *ResolvePayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key memo.Key, out *ResolvePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	// Чтение: ошибка закрытия ничего не меняет для вызывающего.
	defer func() { _ = f.Close() }()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// resultToPayload converts a resolve result to its cacheable form.
func resultToPayload(res resolve.Result) *ResolvePayload {
	payload := &ResolvePayload{
		Schema:   diskCacheSchemaVersion,
		Paths:    make([]string, len(res.Targets)),
		External: make([]bool, len(res.Targets)),
	}
	for i, t := range res.Targets {
		payload.Paths[i] = t.Path
		payload.External[i] = t.External
	}
	return payload
}

// payloadToResult converts a cached payload back to a resolve result.
// A schema mismatch or malformed payload yields an empty (unresolved) result.
func payloadToResult(payload *ResolvePayload) resolve.Result {
	if payload == nil || payload.Schema != diskCacheSchemaVersion {
		return resolve.Result{}
	}
	if len(payload.Paths) != len(payload.External) {
		return resolve.Result{}
	}
	targets := make([]resolve.Target, len(payload.Paths))
	for i := range payload.Paths {
		targets[i] = resolve.Target{Path: payload.Paths[i], External: payload.External[i]}
	}
	return resolve.Result{Targets: targets}
}
