// Package peimage opens executable images and exposes the header surface the
// rest of the tool classifies against.
package peimage

import "io"

// Data directory slots referenced by the classifier. Index 14 is the COM
// descriptor (CLR header) slot defined by the PE format extension for managed
// runtimes.
const (
	DataDirectoryEntryDebug         = 6
	DataDirectoryEntryComDescriptor = 14
)

// MinCorHeaderSize is the smallest valid COR20 header. A directory 14 entry
// smaller than this is treated as garbage, not as managed code.
const MinCorHeaderSize = 0x48

// DataDirectory is one entry of the optional header's directory table.
type DataDirectory struct {
	VirtualAddress uint32
	Size           uint32
}

// Image is an opened executable image. Implementations own the underlying
// file or mapping and release it on Close.
type Image interface {
	io.Closer

	// Path returns the path the image was opened from, or "" for images
	// constructed over in-memory bytes.
	Path() string

	// Size returns the byte length of the raw image.
	Size() int64

	// Machine returns the COFF machine field.
	Machine() uint16

	// Is64Bit reports whether the image carries a PE32+ optional header.
	Is64Bit() bool

	// DataDirectory returns the directory entry at index, or false when the
	// index is outside the table recorded in the optional header.
	DataDirectory(index int) (DataDirectory, bool)

	// ReadRVA fills p with image bytes starting at the given relative
	// virtual address, translating through the section table.
	ReadRVA(rva uint32, p []byte) error
}

// IsManaged reports whether the image carries CLR metadata: directory 14 must
// have a non-zero virtual address and a size of at least MinCorHeaderSize.
// A present-but-undersized entry is deliberately not managed.
func IsManaged(img Image) bool {
	dir, ok := img.DataDirectory(DataDirectoryEntryComDescriptor)
	if !ok {
		return false
	}
	return dir.VirtualAddress != 0 && dir.Size >= MinCorHeaderSize
}
