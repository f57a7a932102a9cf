package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clrscope/clrscope/peimage"
	"github.com/clrscope/clrscope/symbols"
)

// CorParser is the in-tree Parser: it validates and decodes the COR20 header
// of an image and exposes the result as a single-module assembly. It does not
// decode metadata tables, so the module name falls back to the file stem.
type CorParser struct{}

// NewCorParser returns the header-level parser.
func NewCorParser() *CorParser {
	return &CorParser{}
}

// ParseModule decodes the image's CLR header. On failure the image stays open
// and owned by the caller.
func (CorParser) ParseModule(img peimage.Image, ctx *Context) (Module, error) {
	hdr, err := peimage.ReadCorHeader(img)
	if err != nil {
		return nil, fmt.Errorf("failed to parse managed module: %w", err)
	}
	m := &corModule{
		image:    img,
		header:   hdr,
		location: img.Path(),
		name:     moduleName(img.Path()),
		ctx:      ctx,
	}
	m.assembly = &corAssembly{module: m}
	return m, nil
}

func moduleName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// corModule is the physically backed module produced by CorParser.
type corModule struct {
	image    peimage.Image
	header   *peimage.CorHeader
	location string
	name     string
	assembly *corAssembly
	ctx      *Context
	pdb      *symbols.Info
	useCache bool
}

func (m *corModule) Name() string { return m.name }

func (m *corModule) Location() string { return m.location }

func (m *corModule) Assembly() (Assembly, bool) { return m.assembly, true }

func (m *corModule) Image() (peimage.Image, bool) { return m.image, m.image != nil }

// CorHeader returns the decoded CLR header.
func (m *corModule) CorHeader() *peimage.CorHeader { return m.header }

func (m *corModule) HasSymbols() bool { return m.pdb != nil }

func (m *corModule) LoadSymbols(path string) error {
	info, err := symbols.Probe(path)
	if err != nil {
		return err
	}
	if info.Kind == symbols.KindUnknown {
		return fmt.Errorf("%s is not a recognized symbol file", path)
	}
	m.pdb = info
	return nil
}

// Symbols returns the attached symbol info, if any.
func (m *corModule) Symbols() (*symbols.Info, bool) { return m.pdb, m.pdb != nil }

func (m *corModule) SetContext(ctx *Context) { m.ctx = ctx }

func (m *corModule) EnableTypeLookupCache(enable bool) { m.useCache = enable }

func (m *corModule) Close() error {
	if m.image != nil {
		return m.image.Close()
	}
	return nil
}

type corAssembly struct {
	module *corModule
}

func (a *corAssembly) Name() string { return a.module.name }

// Version is blank: the assembly version lives in the metadata tables, which
// CorParser does not decode.
func (a *corAssembly) Version() string { return "" }

func (a *corAssembly) ManifestModule() Module { return a.module }
