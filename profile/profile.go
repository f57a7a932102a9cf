// Package profile loads inspection profiles: reusable load and output
// defaults kept in YAML next to a project.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clrscope/clrscope/loader"
)

// InspectionProfile represents the configuration for a set of binaries.
type InspectionProfile struct {
	Name              string   `yaml:"name"`
	MappedIO          bool     `yaml:"mapped_io"`
	LoadSymbols       bool     `yaml:"load_symbols"`
	SymbolSearchPaths []string `yaml:"symbol_search_paths"`
	Format            string   `yaml:"format"`
}

// LoadProfile loads an inspection profile from a YAML file.
func LoadProfile(filename string) (*InspectionProfile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile: %w", err)
	}
	defer file.Close()

	var profile InspectionProfile
	if err := yaml.NewDecoder(file).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if profile.Format == "" {
		profile.Format = "text"
	}
	return &profile, nil
}

// Options translates the profile into loader options.
func (p *InspectionProfile) Options() loader.Options {
	return loader.Options{
		MappedIO:          p.MappedIO,
		LoadSymbols:       p.LoadSymbols,
		SymbolSearchPaths: p.SymbolSearchPaths,
	}
}
