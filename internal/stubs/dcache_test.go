package stubs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

const small = `
[[class]]
name = "p.Base"
type_params = ["T"]

[[class]]
name = "p.Sub"
extends = "Base<String>"
implements = ["java.io.Serializable"]

[[class]]
name = "java.lang.String"
modifiers = ["final"]
`

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir(), "typemirror")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := DigestOf([]byte(small))

	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}
	m, err := Decode(small)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := cache.Put(key, "small.toml", m); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get after Put = %v, %v", ok, err)
	}
	if len(got.Classes) != 3 {
		t.Fatalf("cached manifest has %d classes", len(got.Classes))
	}
	sub := got.Classes[1]
	if sub.Name != "p.Sub" || sub.Extends != "Base<String>" || len(sub.Implements) != 1 {
		t.Fatalf("unexpected cached class %+v", sub)
	}
	if _, ok, _ := cache.Get(DigestOf([]byte("other"))); ok {
		t.Fatalf("hit for a different digest")
	}
}

func TestDiskCacheSchemaMismatch(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir(), "typemirror")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := DigestOf([]byte(small))
	p := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	data, err := msgpack.Marshal(&diskPayload{Schema: diskCacheSchemaVersion + 1, Manifest: &Manifest{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("Get of stale entry = %v, %v", ok, err)
	}

	if err := os.WriteFile(p, []byte("not msgpack"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, _, err := cache.Get(key); err == nil {
		t.Fatalf("expected a decode error for a corrupt entry")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache, err := OpenDiskCache(dir, "typemirror")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}
	key := DigestOf([]byte(small))
	if err := cache.Put(key, "small.toml", &Manifest{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if _, ok, err := cache.Get(key); err != nil || ok {
		t.Fatalf("Get after DropAll = %v, %v", ok, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache directory was not recreated: %v", err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	key := DigestOf(nil)
	if err := cache.Put(key, "x", &Manifest{}); err != nil {
		t.Fatalf("Put on nil cache: %v", err)
	}
	if _, ok, err := cache.Get(key); ok || err != nil {
		t.Fatalf("Get on nil cache = %v, %v", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll on nil cache: %v", err)
	}
}

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestLoadFileUsesCache(t *testing.T) {
	path := writeManifest(t, "small.toml", small)
	cache, err := OpenDiskCache(t.TempDir(), "typemirror")
	if err != nil {
		t.Fatalf("OpenDiskCache: %v", err)
	}

	u, err := LoadFile(path, cache)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, ok := u.LookupTypeElement("p.Sub"); !ok {
		t.Fatalf("p.Sub was not declared")
	}
	if _, err := os.Stat(cache.pathFor(DigestOf([]byte(small)))); err != nil {
		t.Fatalf("manifest was not cached: %v", err)
	}

	// a second load is served from the cache and builds the same classes
	again, err := LoadFile(path, cache)
	if err != nil {
		t.Fatalf("LoadFile from cache: %v", err)
	}
	if len(again.TypeElements()) != len(u.TypeElements()) {
		t.Fatalf("cached load declared %d classes, want %d", len(again.TypeElements()), len(u.TypeElements()))
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"), nil); !os.IsNotExist(err) {
		t.Fatalf("LoadFile of missing file = %v", err)
	}
	path := writeManifest(t, "bad.toml", "[[class]]\nname = \"p.A\"\nextends = \"Nope\"\n")
	_, err := LoadFile(path, nil)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("error %v does not name %s", err, path)
	}
}

func TestBuildFileTwice(t *testing.T) {
	path := writeManifest(t, "small.toml", small)
	u, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	extra := writeManifest(t, "extra.toml", "[[class]]\nname = \"q.C\"\nextends = \"p.Sub\"\n")
	elems, err := BuildFile(u, extra, nil)
	if err != nil {
		t.Fatalf("BuildFile: %v", err)
	}
	if len(elems) != 1 || u.QualifiedName(elems[0]) != "q.C" {
		t.Fatalf("unexpected elements %v", elems)
	}
	if _, err := BuildFile(u, extra, nil); err == nil || !strings.Contains(err.Error(), "already declared") {
		t.Fatalf("second BuildFile = %v", err)
	}
}
