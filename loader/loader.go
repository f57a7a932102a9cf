// Package loader classifies binaries and constructs the matching binfile
// variant. Loading is total: every failure resolves to a concrete returned
// file, never to an error, so the host stays usable on arbitrary, possibly
// hostile input.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clrscope/clrscope/binfile"
	"github.com/clrscope/clrscope/metadata"
	"github.com/clrscope/clrscope/peimage"
	"github.com/clrscope/clrscope/symbols"
)

// Options configures a load. The zero value is usable: in-memory IO, no
// symbol loading, no resolver, the in-tree header parser, a discarding
// logger.
type Options struct {
	// MappedIO memory-maps the file instead of reading it into memory.
	MappedIO bool

	// LoadSymbols probes for a symbol file next to the binary and attaches
	// it to managed modules. Symbol failures are never surfaced.
	LoadSymbols bool

	// SymbolSearchPaths are extra directories probed for a symbol file with
	// the binary's base name, after the adjacent candidate.
	SymbolSearchPaths []string

	// Resolver is the host's assembly-resolution policy, threaded into the
	// module load context. May be nil.
	Resolver metadata.Resolver

	// Parser overrides the metadata parser. Nil selects metadata.CorParser.
	Parser metadata.Parser

	// Logger receives debug-level traces for swallowed failures.
	Logger zerolog.Logger
}

func (o Options) parser() metadata.Parser {
	if o.Parser != nil {
		return o.Parser
	}
	return metadata.NewCorParser()
}

// LoadFile opens and classifies the binary at path.
//
// Unreadable or unparseable input yields an unrecognized file carrying only
// the path. A valid image with no CLR directory (directory 14 with zero
// virtual address, or size below 0x48) yields a PE-image file. A managed
// image is parsed into a module; if that parse fails the still-open image is
// reused for a PE-image fallback and the managed parse is never retried.
func LoadFile(path string, opts Options) *binfile.File {
	logger := opts.Logger.With().Str("component", "loader").Str("path", path).Logger()

	img, err := peimage.Open(path, opts.MappedIO)
	if err != nil {
		logger.Debug().Err(err).Msg("not a recognized image")
		return binfile.NewUnrecognized(path)
	}

	if !peimage.IsManaged(img) {
		logger.Debug().Msg("classified as native image")
		return binfile.NewPEImage(path, img)
	}

	mod, err := opts.parser().ParseModule(img, newContext(opts.Resolver))
	if err != nil {
		// The parse attempt owns nothing on failure; the open image moves
		// into the fallback without being re-opened.
		logger.Debug().Err(err).Msg("managed parse failed, falling back to native image")
		return binfile.NewPEImage(path, img)
	}
	mod.EnableTypeLookupCache(true)

	f := binfile.NewManaged(path, mod)
	if opts.LoadSymbols {
		attachSymbols(mod, path, opts.SymbolSearchPaths, logger)
	}
	logger.Debug().Str("module", mod.Name()).Msg("classified as managed module")
	return f
}

// LoadModule wraps a module the caller already parsed or synthesized in
// memory. A fresh load context is attached to the module; the file path and
// symbol probing key off the module's own recorded location, which may be
// empty for purely in-memory modules.
func LoadModule(mod metadata.Module, opts Options) *binfile.File {
	logger := opts.Logger.With().Str("component", "loader").Str("module", mod.Name()).Logger()

	mod.SetContext(newContext(opts.Resolver))

	var f *binfile.File
	if loc := mod.Location(); loc != "" {
		f = binfile.NewManaged(loc, mod)
	} else {
		f = binfile.NewManagedPathless(mod, mod.Name())
	}

	if opts.LoadSymbols {
		attachSymbols(mod, mod.Location(), opts.SymbolSearchPaths, logger)
	}
	return f
}

// newContext builds the module load context: the host's resolver, WinMD type
// projection off so navigation lands on the literal on-disk type.
func newContext(resolver metadata.Resolver) *metadata.Context {
	return metadata.NewContext(resolver)
}

// attachSymbols probes symbol candidates for the image and loads the first
// one that works into the module. Modules that already carry symbol data are
// left alone. Absence of symbols is not an error; load failures are logged
// and dropped.
func attachSymbols(mod metadata.Module, imagePath string, searchPaths []string, logger zerolog.Logger) {
	if mod.HasSymbols() {
		return
	}
	for _, candidate := range symbolCandidates(imagePath, searchPaths) {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := mod.LoadSymbols(candidate); err != nil {
			logger.Debug().Err(err).Str("symbols", candidate).Msg("symbol load failed")
			continue
		}
		return
	}
}

// symbolCandidates lists probe locations in order: the conventional path next
// to the image, then the image's base name in each search directory. A
// pathless image has no base name and yields no candidates.
func symbolCandidates(imagePath string, searchPaths []string) []string {
	if imagePath == "" {
		return nil
	}
	candidates := []string{symbols.CandidatePath(imagePath)}
	base := filepath.Base(imagePath)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + symbols.Ext
	for _, dir := range searchPaths {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	return candidates
}
