// Package symbols probes debug-symbol files that sit alongside a binary.
// It identifies the container format only; decoding the symbol data is the
// consumer's concern.
package symbols

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Ext is the symbol-file extension correlated with a binary by path
// convention.
const Ext = ".pdb"

var msfMagic = []byte("Microsoft C/C++ MSF 7.00\r\n\x1aDS\x00\x00\x00")

var portableMagic = []byte("BSJB")

// Kind is the container format of a symbol file.
type Kind int

const (
	KindUnknown Kind = iota
	KindMSF          // classic Windows PDB (MSF 7.0 container)
	KindPortable     // portable PDB (metadata container)
)

func (k Kind) String() string {
	switch k {
	case KindMSF:
		return "msf"
	case KindPortable:
		return "portable"
	default:
		return "unknown"
	}
}

// Info describes a probed symbol file.
type Info struct {
	Path string
	Kind Kind
	Size int64
}

// CandidatePath derives the conventional symbol-file path for a binary:
// same directory, same base name, symbol extension.
func CandidatePath(imagePath string) string {
	if imagePath == "" {
		return ""
	}
	ext := filepath.Ext(imagePath)
	return strings.TrimSuffix(imagePath, ext) + Ext
}

// Probe opens the file at path and identifies its container format. A file
// that exists but matches no known magic comes back as KindUnknown with no
// error; the caller decides whether that is acceptable.
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat symbol file: %w", err)
	}

	magic := make([]byte, len(msfMagic))
	n, _ := f.Read(magic)
	magic = magic[:n]

	info := &Info{Path: path, Kind: KindUnknown, Size: st.Size()}
	switch {
	case bytes.HasPrefix(magic, msfMagic):
		info.Kind = KindMSF
	case bytes.HasPrefix(magic, portableMagic):
		info.Kind = KindPortable
	}
	return info, nil
}
