// Package typemirror is a nominal generic type model with the algebra a
// compiler front end needs over it: subtyping, containment, capture
// conversion, erasure, greatest lower bounds and ordered supertype
// closures.
//
// Declarations are read from TOML stub manifests into a Universe; a Types
// engine answers queries over that universe.
package typemirror

import (
	"path/filepath"

	"typemirror/internal/config"
	"typemirror/internal/stubs"
	"typemirror/internal/typeops"
	"typemirror/internal/types"
)

type (
	TypeID   = types.TypeID
	ElemID   = types.ElemID
	Universe = types.Universe
	Types    = typeops.Types
	Options  = typeops.Options
	Config   = config.Config
)

// NewUniverse returns a universe holding only the core declarations.
func NewUniverse() *Universe {
	return types.NewUniverse()
}

// New returns an engine over u.
func New(u *Universe, opts Options) *Types {
	return typeops.New(u, opts)
}

// LoadOptions controls Load.
type LoadOptions struct {
	// ConfigPath names the configuration file. When empty, the nearest
	// typemirror.toml above the manifest is used, or the defaults.
	ConfigPath string
	// CacheDir enables the decoded-manifest cache under this directory.
	CacheDir string
	// ResetCache drops every cached manifest before loading.
	ResetCache bool
}

// Load builds a universe from the manifest at path and returns an engine
// configured for it. Close the engine to flush its tracer.
func Load(path string, opts LoadOptions) (*Types, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFrom(filepath.Dir(path))
	}
	if err != nil {
		return nil, err
	}

	var cache *stubs.DiskCache
	if opts.CacheDir != "" {
		if cache, err = stubs.OpenDiskCache(opts.CacheDir, "typemirror"); err != nil {
			return nil, err
		}
		if opts.ResetCache {
			if err = cache.DropAll(); err != nil {
				return nil, err
			}
		}
	}
	u, err := stubs.LoadFile(path, cache)
	if err != nil {
		return nil, err
	}
	return typeops.NewFromConfig(u, cfg)
}
