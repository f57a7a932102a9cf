// Package renderer provides a way to render inspection reports in different
// formats.
package renderer

import (
	"io"

	"github.com/clrscope/clrscope/inspect"
)

// Renderer defines the interface for rendering reports in different formats.
type Renderer interface {
	// Render writes the reports in the desired format to the provided writer.
	Render(reports []*inspect.Report, output io.Writer) error

	// Format returns the name of the output format (e.g., "json", "text").
	Format() string
}
