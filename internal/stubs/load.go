package stubs

import (
	"fmt"
	"os"

	"typemirror/internal/types"
)

// LoadString builds a fresh universe from manifest text.
func LoadString(src string) (*types.Universe, error) {
	m, err := Decode(src)
	if err != nil {
		return nil, err
	}
	u := types.NewUniverse()
	if _, err := build(u, m, "<string>"); err != nil {
		return nil, err
	}
	return u, nil
}

// LoadFile builds a fresh universe from a manifest file. When cache is not
// nil, the decoded manifest is looked up by the digest of the file content
// and stored after a miss.
func LoadFile(path string, cache *DiskCache) (*types.Universe, error) {
	m, err := ReadFile(path, cache)
	if err != nil {
		return nil, err
	}
	u := types.NewUniverse()
	if _, err := build(u, m, path); err != nil {
		return nil, err
	}
	return u, nil
}

// ReadFile decodes a manifest file, going through cache when it is not nil.
func ReadFile(path string, cache *DiskCache) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key := DigestOf(data)
	if m, ok, err := cache.Get(key); err == nil && ok {
		return m, nil
	}
	m, err := Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cache.Put(key, path, m); err != nil {
		return nil, fmt.Errorf("%s: cache: %w", path, err)
	}
	return m, nil
}

// BuildFile declares the classes of a manifest file into an existing
// universe.
func BuildFile(u *types.Universe, path string, cache *DiskCache) ([]types.ElemID, error) {
	m, err := ReadFile(path, cache)
	if err != nil {
		return nil, err
	}
	return build(u, m, path)
}
