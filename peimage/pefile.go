package peimage

import (
	"bytes"
	"debug/pe"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// peFile backs an Image with a stdlib debug/pe parse over either a memory
// mapping or an in-memory copy of the file.
type peFile struct {
	path   string
	size   int64
	file   *pe.File
	closer io.Closer
}

// Open opens and parses the image at path. With mapped set the file is
// memory-mapped instead of read into memory; the mapping lives until Close.
func Open(path string, mapped bool) (Image, error) {
	if mapped {
		r, err := mmap.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to map image: %w", err)
		}
		f, err := pe.NewFile(r)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("failed to parse image header: %w", err)
		}
		return &peFile{path: path, size: int64(r.Len()), file: f, closer: r}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return NewFromBytes(path, raw)
}

// NewFromBytes parses an image over an in-memory byte slice. The path is
// recorded for identity and display only and may be empty.
func NewFromBytes(path string, raw []byte) (Image, error) {
	f, err := pe.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse image header: %w", err)
	}
	return &peFile{path: path, size: int64(len(raw)), file: f}, nil
}

func (p *peFile) Path() string { return p.path }

func (p *peFile) Size() int64 { return p.size }

func (p *peFile) Machine() uint16 { return p.file.Machine }

func (p *peFile) Is64Bit() bool {
	_, ok := p.file.OptionalHeader.(*pe.OptionalHeader64)
	return ok
}

func (p *peFile) DataDirectory(index int) (DataDirectory, bool) {
	if index < 0 {
		return DataDirectory{}, false
	}
	switch oh := p.file.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if uint32(index) >= oh.NumberOfRvaAndSizes || index >= len(oh.DataDirectory) {
			return DataDirectory{}, false
		}
		d := oh.DataDirectory[index]
		return DataDirectory{VirtualAddress: d.VirtualAddress, Size: d.Size}, true
	case *pe.OptionalHeader64:
		if uint32(index) >= oh.NumberOfRvaAndSizes || index >= len(oh.DataDirectory) {
			return DataDirectory{}, false
		}
		d := oh.DataDirectory[index]
		return DataDirectory{VirtualAddress: d.VirtualAddress, Size: d.Size}, true
	default:
		// Object files have no optional header and no directory table.
		return DataDirectory{}, false
	}
}

func (p *peFile) ReadRVA(rva uint32, buf []byte) error {
	end := uint64(rva) + uint64(len(buf))
	for _, s := range p.file.Sections {
		limit := uint64(s.VirtualAddress) + uint64(s.VirtualSize)
		if uint64(rva) < uint64(s.VirtualAddress) || end > limit {
			continue
		}
		off := int64(rva - s.VirtualAddress)
		if _, err := s.ReadAt(buf, off); err != nil {
			return fmt.Errorf("failed to read %d bytes at rva %#x: %w", len(buf), rva, err)
		}
		return nil
	}
	return fmt.Errorf("rva %#x is not covered by any section", rva)
}

func (p *peFile) Close() error {
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}
