package peimage

import (
	"encoding/binary"
	"fmt"
)

// COR20 header flags.
const (
	CorFlagILOnly           = 0x0001
	CorFlag32BitRequired    = 0x0002
	CorFlagStrongNameSigned = 0x0008
	CorFlagNativeEntryPoint = 0x0010
)

// CorHeader is the decoded COR20 (CLR) header pointed to by data directory 14.
type CorHeader struct {
	Size                    uint32
	MajorRuntimeVersion     uint16
	MinorRuntimeVersion     uint16
	Metadata                DataDirectory
	Flags                   uint32
	EntryPointToken         uint32
	Resources               DataDirectory
	StrongNameSignature     DataDirectory
	CodeManagerTable        DataDirectory
	VTableFixups            DataDirectory
	ExportAddressTableJumps DataDirectory
	ManagedNativeHeader     DataDirectory
}

// ILOnly reports whether the module contains no native code.
func (h *CorHeader) ILOnly() bool { return h.Flags&CorFlagILOnly != 0 }

// RuntimeVersion formats the header's runtime version pair.
func (h *CorHeader) RuntimeVersion() string {
	return fmt.Sprintf("%d.%d", h.MajorRuntimeVersion, h.MinorRuntimeVersion)
}

// ReadCorHeader locates and decodes the CLR header of a managed image. It
// fails when the image is not managed or the header bytes cannot be read.
func ReadCorHeader(img Image) (*CorHeader, error) {
	dir, ok := img.DataDirectory(DataDirectoryEntryComDescriptor)
	if !ok || dir.VirtualAddress == 0 || dir.Size < MinCorHeaderSize {
		return nil, fmt.Errorf("image has no CLR header directory")
	}

	buf := make([]byte, MinCorHeaderSize)
	if err := img.ReadRVA(dir.VirtualAddress, buf); err != nil {
		return nil, fmt.Errorf("failed to read CLR header: %w", err)
	}

	le := binary.LittleEndian
	readDir := func(off int) DataDirectory {
		return DataDirectory{
			VirtualAddress: le.Uint32(buf[off:]),
			Size:           le.Uint32(buf[off+4:]),
		}
	}
	h := &CorHeader{
		Size:                    le.Uint32(buf[0:]),
		MajorRuntimeVersion:     le.Uint16(buf[4:]),
		MinorRuntimeVersion:     le.Uint16(buf[6:]),
		Metadata:                readDir(8),
		Flags:                   le.Uint32(buf[16:]),
		EntryPointToken:         le.Uint32(buf[20:]),
		Resources:               readDir(24),
		StrongNameSignature:     readDir(32),
		CodeManagerTable:        readDir(40),
		VTableFixups:            readDir(48),
		ExportAddressTableJumps: readDir(56),
		ManagedNativeHeader:     readDir(64),
	}
	if h.Size < MinCorHeaderSize {
		return nil, fmt.Errorf("CLR header reports invalid size %#x", h.Size)
	}
	return h, nil
}
