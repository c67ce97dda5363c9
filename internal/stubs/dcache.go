package stubs

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the cached manifest format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is the SHA-256 of a manifest's source text.
type Digest [32]byte

// DigestOf hashes manifest source text.
func DigestOf(data []byte) Digest {
	return sha256.Sum256(data)
}

// DiskCache stores decoded manifests keyed by the digest of their source.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// diskPayload is the on-disk record of one decoded manifest.
type diskPayload struct {
	Schema   uint16    `msgpack:"schema"`
	Source   string    `msgpack:"source"`
	Manifest *Manifest `msgpack:"manifest"`
}

// OpenDiskCache initializes a disk cache under dir, or under the user cache
// directory for app when dir is empty.
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "stubs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a manifest to the cache.
func (c *DiskCache) Put(key Digest, source string, m *Manifest) error {
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
	tmp := f.Name()
	defer func() {
		if _, statErr := os.Stat(tmp); statErr == nil {
			_ = os.Remove(tmp)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(&diskPayload{Schema: diskCacheSchemaVersion, Source: source, Manifest: m}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads a manifest from the cache. Entries written under another
// schema version are reported as misses.
func (c *DiskCache) Get(key Digest) (*Manifest, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload diskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode cached manifest: %w", err)
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Manifest == nil {
		return nil, false, nil
	}
	return payload.Manifest, true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
