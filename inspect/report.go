// Package inspect turns a loaded file into a serializable report for the
// renderers and any host that wants a structured summary.
package inspect

import (
	"fmt"

	"github.com/clrscope/clrscope/binfile"
	"github.com/clrscope/clrscope/peimage"
	"github.com/clrscope/clrscope/symbols"
)

// Report is the flattened read surface of one loaded file.
type Report struct {
	Path        string       `json:"path"`
	ShortName   string       `json:"short_name"`
	Kind        string       `json:"kind"`
	Key         string       `json:"key"`
	AutoLoaded  bool         `json:"auto_loaded"`
	Persistable bool         `json:"persistable"`
	Image       *ImageInfo   `json:"image,omitempty"`
	Managed     *ManagedInfo `json:"managed,omitempty"`
}

// ImageInfo summarizes the raw image header.
type ImageInfo struct {
	Machine string `json:"machine"`
	Bits    int    `json:"bits"`
	Size    int64  `json:"size"`

	// DebugDirectory reports a populated debug data directory (slot 6),
	// i.e. the image records where its debug info lives.
	DebugDirectory bool `json:"debug_directory"`
}

// ManagedInfo summarizes the managed-module view.
type ManagedInfo struct {
	Module          string      `json:"module"`
	Assembly        string      `json:"assembly,omitempty"`
	RuntimeVersion  string      `json:"runtime_version,omitempty"`
	ILOnly          bool        `json:"il_only"`
	EntryPointToken string      `json:"entry_point_token,omitempty"`
	HasSymbols      bool        `json:"has_symbols"`
	Symbols         *SymbolInfo `json:"symbols,omitempty"`
}

// SymbolInfo describes an attached symbol file.
type SymbolInfo struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

var machineNames = map[uint16]string{
	0x014c: "i386",
	0x01c0: "arm",
	0x0200: "ia64",
	0x8664: "amd64",
	0xaa64: "arm64",
}

// symbolCarrier is satisfied by modules that expose their attached symbol
// info beyond the bare HasSymbols bit.
type symbolCarrier interface {
	Symbols() (*symbols.Info, bool)
}

// Build reads the file's public surface into a Report. It never fails:
// whatever view is absent is simply omitted.
func Build(f *binfile.File) *Report {
	r := &Report{
		Path:        f.Path(),
		ShortName:   f.ShortName(),
		Kind:        f.Kind().String(),
		Key:         f.Key().String(),
		AutoLoaded:  f.AutoLoaded(),
		Persistable: f.Persistable(),
	}

	img, haveImage := f.Image()
	if haveImage {
		r.Image = imageInfo(img)
	}

	mod, ok := f.Module()
	if !ok {
		return r
	}

	m := &ManagedInfo{
		Module:     mod.Name(),
		HasSymbols: mod.HasSymbols(),
	}
	if asm, ok := f.Assembly(); ok {
		m.Assembly = asm.Name()
	}
	if haveImage {
		if hdr, err := peimage.ReadCorHeader(img); err == nil {
			m.RuntimeVersion = hdr.RuntimeVersion()
			m.ILOnly = hdr.ILOnly()
			m.EntryPointToken = fmt.Sprintf("0x%08x", hdr.EntryPointToken)
		}
	}
	if sc, ok := mod.(symbolCarrier); ok {
		if info, ok := sc.Symbols(); ok {
			m.Symbols = &SymbolInfo{Path: info.Path, Kind: info.Kind.String()}
		}
	}
	r.Managed = m
	return r
}

func imageInfo(img peimage.Image) *ImageInfo {
	name, ok := machineNames[img.Machine()]
	if !ok {
		name = fmt.Sprintf("0x%04x", img.Machine())
	}
	bits := 32
	if img.Is64Bit() {
		bits = 64
	}
	dbg, ok := img.DataDirectory(peimage.DataDirectoryEntryDebug)
	return &ImageInfo{
		Machine:        name,
		Bits:           bits,
		Size:           img.Size(),
		DebugDirectory: ok && dbg.VirtualAddress != 0,
	}
}
