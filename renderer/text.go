package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/clrscope/clrscope/inspect"
)

// TextRenderer formats inspection reports in a structured text format.
type TextRenderer struct{}

// NewTextRenderer creates a new instance of TextRenderer.
func NewTextRenderer() Renderer {
	return &TextRenderer{}
}

// Render formats and writes the reports to the command line.
func (r *TextRenderer) Render(reports []*inspect.Report, output io.Writer) error {
	var out strings.Builder

	out.WriteString("==============================\n")
	out.WriteString("🔍 Binary Inspection Report\n")
	out.WriteString("==============================\n")

	for _, rep := range reports {
		out.WriteString("\n")
		writeReport(&out, rep)
	}
	out.WriteString(fmt.Sprintf("\nFiles inspected: %d\n", len(reports)))

	_, err := io.WriteString(output, out.String())
	return err
}

func writeReport(out *strings.Builder, rep *inspect.Report) {
	path := rep.Path
	if path == "" {
		path = "(in memory)"
	}
	out.WriteString(fmt.Sprintf("📄 %s\n", path))
	out.WriteString(fmt.Sprintf("   Name: %s\n", rep.ShortName))
	out.WriteString(fmt.Sprintf("   Kind: %s\n", rep.Kind))
	out.WriteString(fmt.Sprintf("   Key:  %s\n", rep.Key))
	if rep.AutoLoaded {
		out.WriteString("   Auto-loaded dependency\n")
	}

	if rep.Image != nil {
		out.WriteString(fmt.Sprintf("   Image: %s, %d-bit, %d bytes\n",
			rep.Image.Machine, rep.Image.Bits, rep.Image.Size))
	}

	m := rep.Managed
	if m == nil {
		return
	}
	out.WriteString(fmt.Sprintf("   Module: %s\n", m.Module))
	if m.Assembly != "" {
		out.WriteString(fmt.Sprintf("   Assembly: %s\n", m.Assembly))
	}
	if m.RuntimeVersion != "" {
		out.WriteString(fmt.Sprintf("   CLR header: v%s, il-only=%v, entry=%s\n",
			m.RuntimeVersion, m.ILOnly, m.EntryPointToken))
	}
	if m.Symbols != nil {
		out.WriteString(fmt.Sprintf("   Symbols: %s (%s)\n", m.Symbols.Path, m.Symbols.Kind))
	} else if !m.HasSymbols {
		out.WriteString("   Symbols: none\n")
	}
}

func (r *TextRenderer) Format() string {
	return "text"
}
