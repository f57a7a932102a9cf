// Package binfile models a file loaded into the inspector. A File is exactly
// one of three kinds, fixed at construction: an unrecognized binary, a native
// PE image, or a managed module. The three kinds share one identity, naming
// and annotation surface so hosting collections and presentation layers never
// branch on the backing representation.
package binfile

import (
	"fmt"

	"github.com/clrscope/clrscope/metadata"
	"github.com/clrscope/clrscope/peimage"
)

// Kind tags the active variant of a File.
type Kind int

const (
	// KindUnrecognized is a file that failed classification. Terminal: it is
	// never promoted to another kind.
	KindUnrecognized Kind = iota

	// KindPEImage is a valid executable image with no managed-code
	// directory.
	KindPEImage

	// KindManaged is a module with CLR metadata.
	KindManaged
)

func (k Kind) String() string {
	switch k {
	case KindPEImage:
		return "pe-image"
	case KindManaged:
		return "managed"
	default:
		return "unrecognized"
	}
}

// File is a loaded file. Construct one through the New* functions; the kind
// and the owned backing resource never change afterwards.
//
// A File provides no internal locking. Everything fixed at construction may
// be read concurrently; the annotation store, SetPath and SetKey need a lock
// owned by the hosting collection.
type File struct {
	kind        Kind
	path        string
	defaultName string
	shortName   string
	keyOverride Key
	memoryKey   Key
	autoLoaded  bool
	persistable bool

	image  peimage.Image
	module metadata.Module

	ann map[annSlot]any
}

// NewUnrecognized builds the fallback variant for input that could not be
// classified. It carries the path only and owns nothing.
func NewUnrecognized(path string) *File {
	return newFile(KindUnrecognized, path, "")
}

// NewPEImage builds the native-image variant. The File takes ownership of
// img and releases it on Close.
func NewPEImage(path string, img peimage.Image) *File {
	f := newFile(KindPEImage, path, "")
	f.image = img
	return f
}

// NewManaged builds the managed variant. The File takes ownership of mod,
// which transitively owns its image.
func NewManaged(path string, mod metadata.Module) *File {
	f := newFile(KindManaged, path, mod.Name())
	f.module = mod
	return f
}

// NewManagedPathless builds a managed variant for a module synthesized in
// memory. The path stays empty until the owner assigns it with SetPath; the
// short name falls back to defaultName. The identity key is a fresh
// MemoryKey until a path exists.
func NewManagedPathless(mod metadata.Module, defaultName string) *File {
	f := newFile(KindManaged, "", defaultName)
	f.module = mod
	f.memoryKey = NewMemoryKey()
	return f
}

func newFile(kind Kind, path, defaultName string) *File {
	return &File{
		kind:        kind,
		path:        path,
		defaultName: defaultName,
		shortName:   deriveShortName(path, defaultName),
		persistable: true,
	}
}

// Kind returns the active variant tag.
func (f *File) Kind() Kind { return f.kind }

// Path returns the file path, or "" for a pathless in-memory module.
func (f *File) Path() string { return f.path }

// SetPath assigns the path of a File built before its final path was known.
// Assigning an empty path, or assigning when a non-empty path is already
// present, is a caller bug and panics.
func (f *File) SetPath(path string) {
	if path == "" {
		panic("binfile: SetPath with empty path")
	}
	if f.path != "" {
		panic(fmt.Sprintf("binfile: SetPath on file already located at %q", f.path))
	}
	f.path = path
	f.shortName = deriveShortName(path, f.defaultName)
}

// ShortName returns the display label: file stem, else file name, else the
// construction-time default name, else the raw path.
func (f *File) ShortName() string { return f.shortName }

// Key returns the identity key used for deduplication and lookup. The
// default keys by path; SetKey overrides; pathless files key by a per-file
// MemoryKey.
func (f *File) Key() Key {
	if f.keyOverride != nil {
		return f.keyOverride
	}
	if f.path != "" {
		return NewPathKey(f.path)
	}
	return f.memoryKey
}

// SetKey replaces the identity key, e.g. with a ContentKey.
func (f *File) SetKey(k Key) { f.keyOverride = k }

// AutoLoaded reports whether the file was pulled in transitively rather than
// opened by the user.
func (f *File) AutoLoaded() bool { return f.autoLoaded }

// SetAutoLoaded marks the file as transitively loaded.
func (f *File) SetAutoLoaded(auto bool) { f.autoLoaded = auto }

// Persistable reports whether the file should be remembered across sessions.
// True unless overridden.
func (f *File) Persistable() bool { return f.persistable }

// SetPersistable overrides session persistence for this file.
func (f *File) SetPersistable(p bool) { f.persistable = p }

// Module returns the managed module for KindManaged files.
func (f *File) Module() (metadata.Module, bool) {
	return f.module, f.module != nil
}

// Assembly returns the module's assembly when the file is managed and its
// module is a manifest module.
func (f *File) Assembly() (metadata.Assembly, bool) {
	if f.module == nil {
		return nil, false
	}
	return f.module.Assembly()
}

// Image returns the raw image: the owned image for KindPEImage, or the
// backing image of a physically loaded managed module.
func (f *File) Image() (peimage.Image, bool) {
	if f.image != nil {
		return f.image, true
	}
	if f.module != nil {
		return f.module.Image()
	}
	return nil, false
}

// Close releases the owned backing resource. Callers close a File at most
// once and never concurrently with other use; double close is not guarded.
// Closing an unrecognized file is a no-op.
func (f *File) Close() error {
	switch f.kind {
	case KindPEImage:
		return f.image.Close()
	case KindManaged:
		return f.module.Close()
	default:
		return nil
	}
}
