// Package metadata defines the managed-module surface the loader and the
// rest of the tool program against. A full metadata-table parser plugs in
// behind the Parser interface; the in-tree CorParser stops at the CLR header.
package metadata

import (
	"io"

	"github.com/clrscope/clrscope/peimage"
)

// Module is a parsed managed module. A module owns its backing image when it
// has one; Close releases the module and, transitively, that image.
type Module interface {
	io.Closer

	// Name returns the module's logical name.
	Name() string

	// Location returns the path the module was loaded from, or "" for
	// modules synthesized in memory.
	Location() string

	// Assembly returns the assembly this module is the manifest module of.
	// Secondary modules of multi-module assemblies report false.
	Assembly() (Assembly, bool)

	// Image returns the backing image for physically loaded modules.
	Image() (peimage.Image, bool)

	// HasSymbols reports whether symbol data is already attached.
	HasSymbols() bool

	// LoadSymbols attaches the symbol file at path to the module.
	LoadSymbols(path string) error

	// SetContext attaches the load context used for reference resolution.
	SetContext(ctx *Context)

	// EnableTypeLookupCache toggles the module's type-lookup cache. Loaders
	// enable it for modules held open for interactive browsing.
	EnableTypeLookupCache(enable bool)
}

// Assembly is the assembly a manifest module belongs to.
type Assembly interface {
	Name() string
	Version() string
	ManifestModule() Module
}

// AssemblyRef names an assembly for resolution.
type AssemblyRef struct {
	Name    string
	Version string
}

// Resolver maps assembly references to already-loaded or loadable modules.
// The tool never builds one itself; hosts inject their resolution policy.
type Resolver interface {
	Resolve(ref AssemblyRef) (Module, bool)
}

// Parser turns an opened image into a Module. Implementations must not take
// ownership of the image on failure: an error return leaves the image open
// and untouched, and any resource the attempt created internally released.
type Parser interface {
	ParseModule(img peimage.Image, ctx *Context) (Module, error)
}
