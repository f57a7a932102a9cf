// Package testpe builds tiny synthetic PE32 images for tests, so no binary
// fixtures need to be checked in.
package testpe

import "encoding/binary"

const (
	fileSize    = 0x400
	peOffset    = 0x80
	optOffset   = 0x98
	sectOffset  = optOffset + 224
	rawOffset   = 0x200
	sectionRVA  = 0x1000
	sectionSize = 0x200
)

// CorRVA is the virtual address the builder places the COR20 header at when
// one is requested. It is the start of the single .text section.
const CorRVA = sectionRVA

// Build returns a parseable PE32 image with one .text section. dir14VA and
// dir14Size are written verbatim into data directory 14; when dir14VA falls
// inside the section, a minimal COR20 header is written there too.
func Build(dir14VA, dir14Size uint32) []byte {
	le := binary.LittleEndian
	img := make([]byte, fileSize)

	// DOS stub.
	img[0] = 'M'
	img[1] = 'Z'
	le.PutUint32(img[0x3c:], peOffset)

	// PE signature and COFF header.
	copy(img[peOffset:], "PE\x00\x00")
	fh := img[peOffset+4:]
	le.PutUint16(fh[0:], 0x14c) // IMAGE_FILE_MACHINE_I386
	le.PutUint16(fh[2:], 1)     // one section
	le.PutUint16(fh[16:], 224)  // SizeOfOptionalHeader, PE32
	le.PutUint16(fh[18:], 0x0102)

	// Optional header.
	oh := img[optOffset:]
	le.PutUint16(oh[0:], 0x10b) // PE32 magic
	oh[2] = 6                   // linker version
	le.PutUint32(oh[16:], sectionRVA)
	le.PutUint32(oh[20:], sectionRVA)
	le.PutUint32(oh[28:], 0x400000) // image base
	le.PutUint32(oh[32:], 0x1000)   // section alignment
	le.PutUint32(oh[36:], 0x200)    // file alignment
	le.PutUint16(oh[40:], 4)        // OS version
	le.PutUint16(oh[48:], 4)        // subsystem version
	le.PutUint32(oh[56:], 0x2000)   // SizeOfImage
	le.PutUint32(oh[60:], 0x200)    // SizeOfHeaders
	le.PutUint16(oh[68:], 3)        // console subsystem
	le.PutUint32(oh[92:], 16)       // NumberOfRvaAndSizes
	le.PutUint32(oh[96+8*14:], dir14VA)
	le.PutUint32(oh[96+8*14+4:], dir14Size)

	// Section header for .text.
	sh := img[sectOffset:]
	copy(sh[0:], ".text")
	le.PutUint32(sh[8:], sectionSize)
	le.PutUint32(sh[12:], sectionRVA)
	le.PutUint32(sh[16:], sectionSize)
	le.PutUint32(sh[20:], rawOffset)
	le.PutUint32(sh[36:], 0x60000020)

	if dir14VA >= sectionRVA && dir14VA < sectionRVA+sectionSize {
		writeCorHeader(img[rawOffset+int(dir14VA-sectionRVA):])
	}
	return img
}

// Native returns an image with an empty data directory 14.
func Native() []byte { return Build(0, 0) }

// WithDebugDirectory patches a built image so data directory 6 points at one
// debug directory entry inside the .text section.
func WithDebugDirectory(img []byte) []byte {
	le := binary.LittleEndian
	le.PutUint32(img[optOffset+96+8*6:], sectionRVA+0x100)
	le.PutUint32(img[optOffset+96+8*6+4:], 0x1c)
	return img
}

// Managed returns an image whose directory 14 points at a valid COR20 header.
func Managed() []byte { return Build(CorRVA, 0x48) }

func writeCorHeader(buf []byte) {
	le := binary.LittleEndian
	le.PutUint32(buf[0:], 0x48)  // cb
	le.PutUint16(buf[4:], 2)     // runtime 2.5
	le.PutUint16(buf[6:], 5)
	le.PutUint32(buf[8:], 0x1050) // metadata directory
	le.PutUint32(buf[12:], 0x100)
	le.PutUint32(buf[16:], 0x1)        // ILONLY
	le.PutUint32(buf[20:], 0x06000001) // entry point token
}
